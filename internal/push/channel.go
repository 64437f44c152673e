package push

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tapedeck/internal/downloader"
)

const (
	typeItem  = "job-updated"
	typeStats = "stats-updated"

	defaultRetryDelay = 3 * time.Second
)

// Handler receives decoded push events. mirror.Engine implements it.
type Handler interface {
	HandleItem(item downloader.Item)
	HandleStats(stats downloader.Stats)
}

// envelope is the wire frame: a type tag and a payload decoded per tag.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Channel maintains a single websocket subscription to the server's push
// endpoint and redials on a fixed delay after any failure. At most one
// connection and at most one pending reconnect timer exist at a time.
type Channel struct {
	url     string
	handler Handler
	delay   time.Duration

	mu         sync.Mutex
	conn       *websocket.Conn
	timer      *time.Timer
	connecting bool
	closed     bool
}

// NewChannel prepares a channel for the given websocket URL. Nothing
// connects until Connect is called.
func NewChannel(url string, handler Handler) *Channel {
	return &Channel{
		url:     url,
		handler: handler,
		delay:   defaultRetryDelay,
	}
}

// SetRetryDelay overrides the reconnect delay. Tests use this to avoid
// waiting out the production value.
func (c *Channel) SetRetryDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
}

// Connect starts the subscription. Safe to call repeatedly: a live
// connection, an in-progress dial, or a closed channel makes it a no-op.
func (c *Channel) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectLocked()
}

func (c *Channel) connectLocked() {
	if c.closed || c.conn != nil || c.connecting {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.connecting = true
	go c.run()
}

func (c *Channel) run() {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)

	c.mu.Lock()
	c.connecting = false
	if c.closed {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.readLoop(conn)
}

// readLoop pumps frames until the connection dies, then arms the reconnect
// timer unless the channel was closed deliberately.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}
		c.dispatch(payload)
	}
	conn.Close()

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	if !c.closed {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()
}

// scheduleReconnectLocked arms the redial timer. The timer guard keeps
// overlapping failures from stacking attempts: whichever path fails first
// arms it, later failures see it set and do nothing.
func (c *Channel) scheduleReconnectLocked() {
	if c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		c.timer = nil
		c.connectLocked()
		c.mu.Unlock()
	})
}

// dispatch decodes one frame and routes it. Frames that fail to decode, or
// carry an unknown type tag, are logged and dropped; the stream stays up.
func (c *Channel) dispatch(payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("push: dropping malformed frame: %v", err)
		return
	}
	switch env.Type {
	case typeItem:
		var item downloader.Item
		if err := json.Unmarshal(env.Data, &item); err != nil {
			log.Printf("push: dropping malformed %s payload: %v", typeItem, err)
			return
		}
		c.handler.HandleItem(item)
	case typeStats:
		var stats downloader.Stats
		if err := json.Unmarshal(env.Data, &stats); err != nil {
			log.Printf("push: dropping malformed %s payload: %v", typeStats, err)
			return
		}
		c.handler.HandleStats(stats)
	default:
		log.Printf("push: ignoring frame type %q", env.Type)
	}
}

// Connected reports whether a live connection exists right now.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close tears the subscription down for good: the pending timer (if any) is
// stopped, the connection closed, and future Connect calls ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}
