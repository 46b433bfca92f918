package transport

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// One WebSocket message carries exactly one payload; no internal framing
// is needed since gorilla/websocket already preserves message boundaries.

type wsTransport struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	mu      sync.Mutex
	closed  bool
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

// DialWebSocket opens a client-side WebSocket transport to url (e.g.
// "ws://host:port/path").
func DialWebSocket(ctx context.Context, url string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return newWSTransport(conn), nil
}

// UpgradeWebSocket upgrades an inbound HTTP request to a server-side
// WebSocket transport.
func UpgradeWebSocket(w http.ResponseWriter, r *http.Request) (Transport, error) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newWSTransport(conn), nil
}

func (t *wsTransport) Send(ctx context.Context, payload []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(dl)
	}
	return t.conn.WriteMessage(websocket.BinaryMessage, payload)
}

func (t *wsTransport) Receive(ctx context.Context) ([]byte, error) {
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(dl)
	}
	_, payload, err := t.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}
