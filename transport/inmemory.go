package transport

import (
	"context"
	"sync"
)

// NewInMemoryPair returns two connected Transports backed by buffered Go
// channels, useful for tests and same-process schema exchange without a
// network round trip.
func NewInMemoryPair(bufferSize int) (Transport, Transport) {
	ab := make(chan []byte, bufferSize)
	ba := make(chan []byte, bufferSize)
	a := &inMemoryTransport{send: ab, recv: ba}
	b := &inMemoryTransport{send: ba, recv: ab}
	return a, b
}

type inMemoryTransport struct {
	send chan []byte
	recv chan []byte

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

func (t *inMemoryTransport) closeSignal() chan struct{} {
	t.once.Do(func() { t.done = make(chan struct{}) })
	return t.done
}

func (t *inMemoryTransport) Send(ctx context.Context, payload []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)

	select {
	case t.send <- cp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.closeSignal():
		return ErrClosed
	}
}

func (t *inMemoryTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case payload, ok := <-t.recv:
		if !ok {
			return nil, ErrClosed
		}
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.closeSignal():
		return nil, ErrClosed
	}
}

func (t *inMemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.closeSignal())
	return nil
}
