package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tapedeck/internal/downloader"
	"tapedeck/internal/mirror"
	"tapedeck/internal/prefs"
	"tapedeck/internal/push"
	"tapedeck/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *mirror.Engine
	Store     *state.Store
	Channel   *push.Channel
	Quality   string
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Wiring
	ctx       context.Context
	engine    *mirror.Engine
	store     *state.Store
	channel   *push.Channel
	prefsPath string

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot    state.Snapshot
	connected   bool
	lastUpdated time.Time

	// Queue state
	selectedRow int

	// Submit bar
	urlInput textinput.Model
	adding   bool
	quality  string

	// Last action outcome, shown in the footer until the next action.
	notice    string
	noticeErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	quality := opts.Quality
	if !downloader.IsValidQuality(quality) {
		quality = downloader.DefaultQuality
	}

	input := textinput.New()
	input.Placeholder = "https://..."
	input.Prompt = "add> "
	input.CharLimit = 2048

	return Model{
		ctx:       ctx,
		engine:    opts.Engine,
		store:     opts.Store,
		channel:   opts.Channel,
		prefsPath: prefsPath,
		theme:     GetTheme(themeName),
		quality:   quality,
		urlInput:  input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		fetchSnapshotCmd(m.store, m.channel),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.urlInput.Width = max(m.width-len(m.urlInput.Prompt)-2, 16)
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store, m.channel), tickCmd())

	case snapshotMsg:
		m.snapshot = msg.snapshot
		m.connected = msg.connected
		m.lastUpdated = time.Now()
		m.clampSelection()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.notice = msg.verb + " failed: " + msg.err.Error()
			m.noticeErr = true
		} else {
			m.notice = msg.verb
			m.noticeErr = false
		}
		return m, fetchSnapshotCmd(m.store, m.channel)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.adding {
		return m.handleSubmitKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "e", "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		// Cycle theme
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case "a":
		m.adding = true
		m.urlInput.SetValue("")
		return m, m.urlInput.Focus()

	case "b":
		// Cycle bitrate for subsequent submissions
		m.quality = nextQuality(m.quality)
		m.savePrefs()
		m.setNotice("quality "+m.quality, false)
		return m, nil

	case "d":
		enabled := !m.engine.AutoSave()
		m.engine.SetAutoSave(enabled)
		if enabled {
			m.setNotice("auto-save on", false)
		} else {
			m.setNotice("auto-save off", false)
		}
		return m, nil

	case "c":
		if item := m.selectedItem(); item != nil {
			return m, m.cancelCmd(item.ID)
		}
		return m, nil

	case "r":
		if item := m.selectedItem(); item != nil && item.Status == downloader.StatusFailed {
			return m, m.retryCmd(item.ID)
		}
		m.setNotice("retry needs a failed item", true)
		return m, nil

	case "s":
		if item := m.selectedItem(); item != nil {
			if item.FileName() == "" {
				m.setNotice("no file to save yet", true)
				return m, nil
			}
			return m, m.saveCmd(*item)
		}
		return m, nil

	case "C":
		return m, m.clearCompletedCmd()

	case "x":
		return m, m.cancelAllCmd()

	case "X":
		return m, m.clearAllCmd()

	case "j", "down":
		if m.selectedRow < len(m.snapshot.Items)-1 {
			m.selectedRow++
		}
		return m, nil

	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case "g", "home":
		m.selectedRow = 0
		return m, nil

	case "G", "end":
		if n := len(m.snapshot.Items); n > 0 {
			m.selectedRow = n - 1
		}
		return m, nil
	}

	return m, nil
}

// handleSubmitKey routes keys while the URL input bar is open.
func (m Model) handleSubmitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.urlInput.Blur()
		return m, nil

	case "enter":
		urls := splitURLs(m.urlInput.Value())
		m.adding = false
		m.urlInput.Blur()
		if len(urls) == 0 {
			return m, nil
		}
		return m, m.submitCmd(urls)
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// selectedItem returns the item under the cursor, or nil.
func (m *Model) selectedItem() *downloader.Item {
	items := m.snapshot.Items
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return nil
	}
	item := items[m.selectedRow]
	return &item
}

// clampSelection keeps the cursor in range as rows come and go.
func (m *Model) clampSelection() {
	if n := len(m.snapshot.Items); m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Quality: m.quality})
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snapshot  state.Snapshot
	connected bool
}

// actionMsg reports the outcome of an engine command.
type actionMsg struct {
	verb string
	err  error
}

// Commands

const refreshEvery = 500 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store, channel *push.Channel) tea.Cmd {
	return func() tea.Msg {
		msg := snapshotMsg{snapshot: store.Snapshot()}
		if channel != nil {
			msg.connected = channel.Connected()
		}
		return msg
	}
}

func (m Model) submitCmd(urls []string) tea.Cmd {
	quality := m.quality
	return func() tea.Msg {
		_, err := m.engine.Submit(m.ctx, urls, quality)
		return actionMsg{verb: "submitted", err: err}
	}
}

func (m Model) cancelCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{verb: "cancelled", err: m.engine.Cancel(m.ctx, id)}
	}
}

func (m Model) retryCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Retry(m.ctx, id)
		return actionMsg{verb: "retried", err: err}
	}
}

func (m Model) saveCmd(item downloader.Item) tea.Cmd {
	return func() tea.Msg {
		dest, err := m.engine.Save(m.ctx, item)
		verb := "saved"
		if err == nil {
			verb = "saved " + dest
		}
		return actionMsg{verb: verb, err: err}
	}
}

func (m Model) clearCompletedCmd() tea.Cmd {
	return func() tea.Msg {
		return actionMsg{verb: "cleared completed", err: m.engine.ClearCompleted(m.ctx)}
	}
}

func (m Model) cancelAllCmd() tea.Cmd {
	return func() tea.Msg {
		return actionMsg{verb: "cancelled active", err: m.engine.CancelAll(m.ctx)}
	}
}

func (m Model) clearAllCmd() tea.Cmd {
	return func() tea.Msg {
		return actionMsg{verb: "cleared queue", err: m.engine.ClearAll(m.ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
