package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// IntentSink receives raw intent messages read from WebSocket clients.
type IntentSink interface {
	DispatchRaw(ctx context.Context, raw []byte) error
}

// ErrorMessage is sent back to a WebSocket client whose intent was rejected.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// WebSocketHandler upgrades the request and runs two loops on the
// connection: broker events are written out as text messages, and every text
// message read is handed to sink as an intent. Rejected intents are answered
// with an ErrorMessage on the same connection only.
func WebSocketHandler(broker *Broker, sink IntentSink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("websocket upgrade failed", "error", err)
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := &wsConn{conn: conn}
		defer c.close()

		id, ch := broker.Subscribe()
		slog.Info("websocket client connected", "subscriber", id, "remote", conn.RemoteAddr().String())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.writeLoop(ctx, ch)
		}()

		c.readLoop(ctx, sink)

		broker.Unsubscribe(id)
		cancel()
		c.close()
		wg.Wait()
		slog.Info("websocket client disconnected", "subscriber", id)
	}
}

type wsConn struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wsutil.WriteServerText(c.conn, data)
}

func (c *wsConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.conn.Close()
	}
}

func (c *wsConn) writeLoop(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := c.write([]byte(evt.Payload)); err != nil {
				slog.Debug("websocket write failed", "error", err)
				c.close()
				return
			}
		}
	}
}

func (c *wsConn) readLoop(ctx context.Context, sink IntentSink) {
	for {
		data, err := wsutil.ReadClientText(c.conn)
		if err != nil {
			slog.Debug("websocket read loop exit", "error", err)
			return
		}
		if err := sink.DispatchRaw(ctx, data); err != nil {
			msg, _ := json.Marshal(ErrorMessage{Type: "error", Message: err.Error()})
			if werr := c.write(msg); werr != nil {
				return
			}
		}
	}
}
