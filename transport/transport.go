// Package transport provides the pluggable byte-pipe abstraction that the
// protocol package frames messages over. A Transport moves opaque byte
// payloads; it knows nothing about frame headers or schemas.
package transport

import (
	"context"
	"errors"
)

// ErrClosed is returned by the in-memory transport's Send/Receive once it
// has been closed, and by a stream Listener's Accept once the listener is
// closed. The TCP, Unix and WebSocket transports return the underlying
// connection's error instead.
var ErrClosed = errors.New("transport: closed")

// OverflowPolicy controls what a stream transport does when an incoming
// payload exceeds MaxPayloadSize.
type OverflowPolicy int

const (
	// OverflowDiscard drops the oversized payload and keeps the connection
	// open, resynchronizing on the next length prefix.
	OverflowDiscard OverflowPolicy = iota
	// OverflowTerminate closes the connection.
	OverflowTerminate
)

// Transport moves whole byte payloads between peers. Implementations are
// responsible for framing raw payloads onto whatever underlying medium
// they wrap (a TCP stream, a WebSocket connection, an in-process channel).
type Transport interface {
	// Send transmits payload as a single logical unit.
	Send(ctx context.Context, payload []byte) error
	// Receive blocks until the next payload arrives, ctx is canceled, or
	// the transport is closed.
	Receive(ctx context.Context) ([]byte, error)
	// Close releases the underlying resource. Concurrent and repeated
	// calls are safe.
	Close() error
}

// Listener accepts inbound Transport connections, mirroring net.Listener.
type Listener interface {
	Accept(ctx context.Context) (Transport, error)
	Close() error
	Addr() string
}
