package push

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tapedeck/internal/downloader"
)

// recordingHandler collects dispatched events and signals each arrival.
type recordingHandler struct {
	items chan downloader.Item
	stats chan downloader.Stats
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		items: make(chan downloader.Item, 16),
		stats: make(chan downloader.Stats, 16),
	}
}

func (h *recordingHandler) HandleItem(item downloader.Item)    { h.items <- item }
func (h *recordingHandler) HandleStats(stats downloader.Stats) { h.stats <- stats }

func waitItem(t *testing.T, h *recordingHandler) downloader.Item {
	t.Helper()
	select {
	case item := <-h.items:
		return item
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job update")
		return downloader.Item{}
	}
}

func waitStats(t *testing.T, h *recordingHandler) downloader.Stats {
	t.Helper()
	select {
	case stats := <-h.stats:
		return stats
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stats update")
		return downloader.Stats{}
	}
}

// pushServer upgrades every request and feeds queued frames to the client.
type pushServer struct {
	srv      *httptest.Server
	frames   chan []byte
	dials    atomic.Int64
	dropEach bool
}

func newPushServer(t *testing.T, dropEach bool) *pushServer {
	t.Helper()
	ps := &pushServer{
		frames:   make(chan []byte, 16),
		dropEach: dropEach,
	}
	upgrader := websocket.Upgrader{}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if ps.dropEach {
			return
		}
		for frame := range ps.frames {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ps.srv.Close)
	t.Cleanup(func() { close(ps.frames) })
	return ps
}

func (ps *pushServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func TestChannelDispatchesEvents(t *testing.T) {
	ps := newPushServer(t, false)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	defer ch.Close()
	ch.Connect()

	ps.frames <- []byte(`{"type":"job-updated","data":{"id":"j1","status":"downloading","progress":{"percent":40}}}`)
	item := waitItem(t, h)
	if item.ID != "j1" || item.Status != downloader.StatusDownloading {
		t.Errorf("item = %+v", item)
	}
	if item.Progress.Percent != 40 {
		t.Errorf("percent = %v, want 40", item.Progress.Percent)
	}

	ps.frames <- []byte(`{"type":"stats-updated","data":{"total":5,"failed":1}}`)
	stats := waitStats(t, h)
	if stats.Total != 5 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestChannelDropsMalformedFrames(t *testing.T) {
	ps := newPushServer(t, false)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	defer ch.Close()
	ch.Connect()

	ps.frames <- []byte(`not json at all`)
	ps.frames <- []byte(`{"type":"job-updated","data":"not an object"}`)
	ps.frames <- []byte(`{"type":"mystery","data":{}}`)
	ps.frames <- []byte(`{"type":"job-updated","data":{"id":"ok","status":"pending"}}`)

	item := waitItem(t, h)
	if item.ID != "ok" {
		t.Errorf("got %q after malformed frames, want ok", item.ID)
	}
	select {
	case extra := <-h.items:
		t.Errorf("malformed frame produced an event: %+v", extra)
	default:
	}
}

func TestChannelReconnectsAfterDrop(t *testing.T) {
	ps := newPushServer(t, true)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	defer ch.Close()
	ch.SetRetryDelay(20 * time.Millisecond)
	ch.Connect()

	deadline := time.After(2 * time.Second)
	for ps.dials.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d dials before deadline, want redials", ps.dials.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestChannelHoldsOffRedialUntilDelayElapses(t *testing.T) {
	ps := newPushServer(t, true)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	defer ch.Close()
	ch.SetRetryDelay(300 * time.Millisecond)
	ch.Connect()

	deadline := time.After(2 * time.Second)
	for ps.dials.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("first dial never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// The server drops the connection right after the upgrade, so the
	// retry timer is armed almost immediately after the first dial.
	// Well inside the delay no second dial may have happened yet.
	time.Sleep(100 * time.Millisecond)
	if n := ps.dials.Load(); n != 1 {
		t.Fatalf("%d dials inside the retry delay, want 1", n)
	}

	deadline = time.After(2 * time.Second)
	for ps.dials.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("redial never happened after the delay")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestChannelSinglePendingReconnect(t *testing.T) {
	ps := newPushServer(t, true)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	defer ch.Close()
	ch.SetRetryDelay(100 * time.Millisecond)
	ch.Connect()

	// Wait for the first connection to be dropped and the timer armed,
	// then hammer Connect. Extra calls must not produce extra dials.
	deadline := time.After(2 * time.Second)
	for ps.dials.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("first dial never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
	for i := 0; i < 10; i++ {
		ch.Connect()
	}
	time.Sleep(50 * time.Millisecond)
	if n := ps.dials.Load(); n > 2 {
		t.Errorf("%d dials after repeated Connect calls, want at most 2", n)
	}
}

func TestCloseStopsReconnecting(t *testing.T) {
	ps := newPushServer(t, true)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	ch.SetRetryDelay(20 * time.Millisecond)
	ch.Connect()

	deadline := time.After(2 * time.Second)
	for ps.dials.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("first dial never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
	ch.Close()
	settled := ps.dials.Load()
	time.Sleep(100 * time.Millisecond)
	if n := ps.dials.Load(); n > settled+1 {
		t.Errorf("dials kept climbing after Close: %d -> %d", settled, n)
	}

	ch.Connect()
	time.Sleep(50 * time.Millisecond)
	if n := ps.dials.Load(); n > settled+1 {
		t.Errorf("Connect after Close dialed again: %d", n)
	}
}

func TestConnectedReflectsLiveConnection(t *testing.T) {
	ps := newPushServer(t, false)
	h := newRecordingHandler()
	ch := NewChannel(ps.wsURL(), h)
	defer ch.Close()

	if ch.Connected() {
		t.Error("Connected true before Connect")
	}
	ch.Connect()

	deadline := time.After(2 * time.Second)
	for !ch.Connected() {
		select {
		case <-deadline:
			t.Fatal("never connected")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
