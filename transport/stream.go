package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// DefaultMaxPayloadSize bounds a single stream payload absent an explicit
// override, guarding a misbehaving peer from exhausting memory with a
// bogus length prefix.
const DefaultMaxPayloadSize = 64 << 20

// StreamOptions configures a stream-based Transport (TCP, Unix domain).
type StreamOptions struct {
	MaxPayloadSize uint32
	OverflowPolicy OverflowPolicy
}

func (o StreamOptions) withDefaults() StreamOptions {
	if o.MaxPayloadSize == 0 {
		o.MaxPayloadSize = DefaultMaxPayloadSize
	}
	return o
}

// streamTransport frames payloads over a net.Conn with a 4-byte
// little-endian length prefix. One payload is one frame.
type streamTransport struct {
	conn net.Conn
	opts StreamOptions

	mu     sync.Mutex
	closed bool
}

func newStreamTransport(conn net.Conn, opts StreamOptions) *streamTransport {
	return &streamTransport{conn: conn, opts: opts.withDefaults()}
}

// DialTCP opens a TCP stream transport to address.
func DialTCP(ctx context.Context, address string, opts StreamOptions) (Transport, error) {
	return dialStream(ctx, "tcp", address, opts)
}

// DialUnix opens a Unix domain socket stream transport at path.
func DialUnix(ctx context.Context, path string, opts StreamOptions) (Transport, error) {
	return dialStream(ctx, "unix", path, opts)
}

func dialStream(ctx context.Context, network, address string, opts StreamOptions) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return newStreamTransport(conn, opts), nil
}

func (t *streamTransport) Send(ctx context.Context, payload []byte) error {
	if len(payload) > int(t.opts.MaxPayloadSize) {
		return fmt.Errorf("transport: payload of %d bytes exceeds max %d", len(payload), t.opts.MaxPayloadSize)
	}
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(dl)
		defer t.conn.SetWriteDeadline(time.Time{})
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := t.conn.Write(header[:]); err != nil {
		return err
	}
	_, err := t.conn.Write(payload)
	return err
}

func (t *streamTransport) Receive(ctx context.Context) ([]byte, error) {
	if dl, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(dl)
		defer t.conn.SetReadDeadline(time.Time{})
	}

	for {
		var header [4]byte
		if _, err := io.ReadFull(t.conn, header[:]); err != nil {
			return nil, err
		}
		length := binary.LittleEndian.Uint32(header[:])

		if length > t.opts.MaxPayloadSize {
			switch t.opts.OverflowPolicy {
			case OverflowDiscard:
				if _, err := io.CopyN(io.Discard, t.conn, int64(length)); err != nil {
					return nil, err
				}
				continue
			default:
				t.Close()
				return nil, fmt.Errorf("transport: payload of %d bytes exceeds max %d", length, t.opts.MaxPayloadSize)
			}
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(t.conn, payload); err != nil {
			return nil, err
		}
		return payload, nil
	}
}

func (t *streamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

// streamListener accepts stream Transports off a net.Listener, retrying
// timeout accept errors with a growing backoff; any other accept error
// ends the Accept call.
type streamListener struct {
	ln   net.Listener
	opts StreamOptions
}

// ListenTCP opens a TCP listener bound to address.
func ListenTCP(address string, opts StreamOptions) (Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &streamListener{ln: ln, opts: opts.withDefaults()}, nil
}

// ListenUnix opens a Unix domain socket listener bound to path.
func ListenUnix(path string, opts StreamOptions) (Listener, error) {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &streamListener{ln: ln, opts: opts.withDefaults()}, nil
}

func (l *streamListener) Accept(ctx context.Context) (Transport, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		backoff := acceptBackoffMin
		for {
			conn, err := l.ln.Accept()
			if err == nil {
				done <- result{conn: conn}
				return
			}
			if errors.Is(err, net.ErrClosed) {
				done <- result{err: ErrClosed}
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				time.Sleep(backoff)
				if backoff < acceptBackoffMax {
					backoff *= 2
				}
				continue
			}
			done <- result{err: err}
			return
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return newStreamTransport(r.conn, l.opts), nil
	}
}

const (
	acceptBackoffMin = 5 * time.Millisecond
	acceptBackoffMax = 1 * time.Second
)

func (l *streamListener) Close() error { return l.ln.Close() }
func (l *streamListener) Addr() string { return l.ln.Addr().String() }
