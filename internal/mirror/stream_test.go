package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tapedeck/internal/downloader"
	"tapedeck/internal/push"
	"tapedeck/internal/state"
)

// streamServer feeds frames to whatever client is connected, over a real
// websocket, so these tests exercise the channel and the engine together.
type streamServer struct {
	srv    *httptest.Server
	frames chan []byte
}

func newStreamServer(t *testing.T) *streamServer {
	t.Helper()
	ss := &streamServer{frames: make(chan []byte, 16)}
	upgrader := websocket.Upgrader{}
	ss.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for frame := range ss.frames {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ss.srv.Close)
	t.Cleanup(func() { close(ss.frames) })
	return ss
}

func (ss *streamServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ss.srv.URL, "http")
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStreamedUpdateCannotResurrectCancelledItem(t *testing.T) {
	ss := newStreamServer(t)
	api := newFakeAPI()
	store := &state.Store{}
	eng := New(store, api, Options{})

	ch := push.NewChannel(ss.wsURL(), eng)
	defer ch.Close()
	ch.Connect()

	ss.frames <- []byte(`{"type":"job-updated","data":{"id":"x","status":"downloading"}}`)
	waitFor(t, "first update", func() bool { return store.Len() == 1 })

	if err := eng.Cancel(context.Background(), "x"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// The server raced a final update past the cancel; it must be dropped,
	// while an unrelated item still flows through.
	ss.frames <- []byte(`{"type":"job-updated","data":{"id":"x","status":"cancelled"}}`)
	ss.frames <- []byte(`{"type":"job-updated","data":{"id":"y","status":"pending"}}`)
	waitFor(t, "unrelated update", func() bool { _, ok := store.Get("y"); return ok })

	if _, ok := store.Get("x"); ok {
		t.Error("cancelled item resurrected by streamed update")
	}
}

func TestStreamedCompletionSavesExactlyOnce(t *testing.T) {
	ss := newStreamServer(t)
	api := newFakeAPI()
	store := &state.Store{}
	eng := New(store, api, Options{AutoSave: true, SaveDir: t.TempDir()})

	ch := push.NewChannel(ss.wsURL(), eng)
	defer ch.Close()
	ch.Connect()

	ss.frames <- []byte(`{"type":"job-updated","data":{"id":"d","status":"downloading","progress":{"percent":90}}}`)
	done := []byte(`{"type":"job-updated","data":{"id":"d","status":"completed","file_path":"/srv/out/song.mp3","file_size":4200}}`)
	ss.frames <- done
	if got := waitSave(t, api); got != "song.mp3" {
		t.Errorf("saved %q, want song.mp3", got)
	}

	// Re-delivery of the terminal update must not fetch again.
	ss.frames <- done
	waitFor(t, "re-applied record", func() bool {
		item, ok := store.Get("d")
		return ok && item.Status == downloader.StatusCompleted
	})
	assertNoSave(t, api)

	stats := []byte(`{"type":"stats-updated","data":{"total":1,"completed":1}}`)
	ss.frames <- stats
	waitFor(t, "stats", func() bool {
		s, ok := store.Stats()
		return ok && s.Completed == 1
	})
}
