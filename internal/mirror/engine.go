package mirror

import (
	"context"
	"log"
	"sync"

	"tapedeck/internal/downloader"
	"tapedeck/internal/state"
)

// API is the slice of the downloader client the engine drives. *downloader.Client
// implements it; tests substitute a fake.
type API interface {
	FetchQueue(ctx context.Context) ([]downloader.Item, error)
	FetchStats(ctx context.Context) (*downloader.Stats, error)
	Submit(ctx context.Context, urls []string, quality string) ([]downloader.Item, error)
	Cancel(ctx context.Context, id string) error
	Retry(ctx context.Context, id string) (*downloader.Item, error)
	ClearCompleted(ctx context.Context) error
	CancelAll(ctx context.Context) error
	ClearAll(ctx context.Context) error
	SaveFile(ctx context.Context, filename, destDir string) (string, error)
}

// Ensure the real client satisfies the interface at compile time.
var _ API = (*downloader.Client)(nil)

// Options configure a new Engine.
type Options struct {
	// AutoSave enables the automatic fetch of finished files.
	AutoSave bool
	// SaveDir is where fetched files land.
	SaveDir string
}

// Engine merges the two sources of queue truth, mutation responses and the
// push stream, into the Store, while suppressing updates for items the user
// dismissed locally and firing the auto-save side effect at most once per
// finished item.
//
// The server assigns ids and never reuses them, so membership in the
// suppression set is final for the session: only a full ClearAll resets the
// related auto-save set, and nothing removes suppressed ids at all.
type Engine struct {
	store *state.Store
	api   API

	mu         sync.Mutex
	suppressed map[string]struct{}
	saved      map[string]struct{}
	autoSave   bool
	saveDir    string
}

// New builds an Engine around the given store and API client.
func New(store *state.Store, api API, opts Options) *Engine {
	return &Engine{
		store:      store,
		api:        api,
		suppressed: make(map[string]struct{}),
		saved:      make(map[string]struct{}),
		autoSave:   opts.AutoSave,
		saveDir:    opts.SaveDir,
	}
}

// Seed replaces the store contents with the server's current queue and
// stats. Called once at startup; a reload of the whole client is the only
// other time it runs. The store is untouched unless both fetches succeed.
func (e *Engine) Seed(ctx context.Context) error {
	items, err := e.api.FetchQueue(ctx)
	if err != nil {
		return err
	}
	stats, err := e.api.FetchStats(ctx)
	if err != nil {
		return err
	}
	e.store.ReplaceAll(items)
	e.store.SetStats(*stats)
	return nil
}

// HandleItem folds one push update into the store, unless the item was
// locally dismissed. Implements the push side of the reconciliation rule: a
// suppressed id is dropped outright so a late-arriving update cannot
// resurrect a row the user already asked to disappear.
func (e *Engine) HandleItem(item downloader.Item) {
	e.apply(item)
}

// HandleStats folds one aggregate-stats push into the store.
func (e *Engine) HandleStats(stats downloader.Stats) {
	e.store.SetStats(stats)
}

// Submit sends a batch of URLs and inserts the created records.
func (e *Engine) Submit(ctx context.Context, urls []string, quality string) ([]downloader.Item, error) {
	items, err := e.api.Submit(ctx, urls, quality)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		e.apply(item)
	}
	return items, nil
}

// Cancel asks the server to drop one item, then forgets it locally and
// suppresses any in-flight push update for it. The local cleanup runs no
// matter how the request resolved: a "not found" is folded into success by
// the client, and even a hard failure means the user asked for the row to
// go away, so it goes away.
func (e *Engine) Cancel(ctx context.Context, id string) error {
	err := e.api.Cancel(ctx, id)
	e.mu.Lock()
	e.suppressed[id] = struct{}{}
	e.store.Remove(id)
	e.mu.Unlock()
	return err
}

// Retry restarts a failed item and replaces its record with the refreshed
// one. Valid only for ids still visible in the store; the suppression set is
// deliberately left alone.
func (e *Engine) Retry(ctx context.Context, id string) (*downloader.Item, error) {
	item, err := e.api.Retry(ctx, id)
	if err != nil {
		return nil, err
	}
	e.apply(*item)
	return item, nil
}

// ClearCompleted removes finished items server-side, then locally. Finished
// items get no suppression entry: the server is done with them and will not
// push further updates.
func (e *Engine) ClearCompleted(ctx context.Context) error {
	if err := e.api.ClearCompleted(ctx); err != nil {
		return err
	}
	for _, item := range e.store.Items() {
		if downloader.IsFinished(item.Status) {
			e.store.Remove(item.ID)
		}
	}
	return nil
}

// CancelAll optimistically removes every still-active item and suppresses
// its id before the request goes out, so a push update already in flight is
// discarded instead of resurrecting a row. Finished and failed items are
// untouched. A transport failure is surfaced but the optimistic removal
// stays; the next push or reload re-syncs whatever the server still has.
func (e *Engine) CancelAll(ctx context.Context) error {
	e.mu.Lock()
	for _, item := range e.store.Items() {
		if downloader.IsActive(item.Status) {
			e.suppressed[item.ID] = struct{}{}
			e.store.Remove(item.ID)
		}
	}
	e.mu.Unlock()
	return e.api.CancelAll(ctx)
}

// ClearAll suppresses every known id, empties the store and the auto-save
// set, then issues the request. Like CancelAll, the optimistic wipe is not
// rolled back on failure.
func (e *Engine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	for _, id := range e.store.IDs() {
		e.suppressed[id] = struct{}{}
	}
	e.store.Clear()
	e.saved = make(map[string]struct{})
	e.mu.Unlock()
	return e.api.ClearAll(ctx)
}

// SetAutoSave flips the automatic retrieval flag for the rest of the session.
func (e *Engine) SetAutoSave(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoSave = enabled
}

// AutoSave reports whether automatic retrieval is enabled.
func (e *Engine) AutoSave() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoSave
}

// Save fetches an item's produced file into the save directory regardless of
// the auto-save flag. Used for the explicit save action.
func (e *Engine) Save(ctx context.Context, item downloader.Item) (string, error) {
	return e.api.SaveFile(ctx, item.FileName(), e.saveDir)
}

// apply writes one record into the store and evaluates the auto-save
// trigger. Every path that inserts a record goes through here, so the
// trigger sees mutation responses as well as push updates.
//
// The suppression check and the upsert happen under a single hold of e.mu,
// the same lock the dismissal paths take around their suppress-and-remove
// pair. Without that, an update checked before a cancel and written after
// it would plant a row that no later push can touch. Lock order is always
// Engine.mu then Store.mu.
func (e *Engine) apply(item downloader.Item) {
	e.mu.Lock()
	if _, dropped := e.suppressed[item.ID]; dropped {
		e.mu.Unlock()
		return
	}
	e.store.Upsert(item)
	e.mu.Unlock()
	e.maybeAutoSave(item)
}

// maybeAutoSave fires the retrieval side effect at most once per item. The
// id joins the saved set before the fetch starts, so a duplicate terminal
// update or a re-delivery after reconnect finds the guard already in
// place. The guard is the monotonic set, not the store contents: the item
// may already be gone from the store by the time a duplicate arrives.
func (e *Engine) maybeAutoSave(item downloader.Item) {
	if !downloader.IsFinished(item.Status) || item.FileName() == "" {
		return
	}
	e.mu.Lock()
	if !e.autoSave {
		e.mu.Unlock()
		return
	}
	if _, done := e.saved[item.ID]; done {
		e.mu.Unlock()
		return
	}
	e.saved[item.ID] = struct{}{}
	e.mu.Unlock()

	go func() {
		if _, err := e.api.SaveFile(context.Background(), item.FileName(), e.saveDir); err != nil {
			log.Printf("auto-save %s failed: %v", item.FileName(), err)
		}
	}()
}
