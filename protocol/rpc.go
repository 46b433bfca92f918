package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benjamin-larsen/barewire/frame"
	"github.com/benjamin-larsen/barewire/internal/logging"
)

// NotificationHandler receives a frame that is not a response to any
// outstanding Call — a Notification, or a Response/Error whose MessageID
// does not match anything in the in-flight table.
type NotificationHandler func(f frame.Frame, value any)

// pendingCall is the in-flight table entry for one outstanding Call: the
// channel its RPC goroutine is blocked receiving on.
type pendingCall struct {
	result chan callResult
}

type callResult struct {
	frame frame.Frame
	value any
	err   error
}

// RPC layers a request/response call convention over a Conn: Call sends a
// Request frame and blocks until a Response or Error frame with a
// matching MessageID arrives on Listen's receive loop, or the timeout
// expires. This replaces a busy-polling receive loop with a single
// blocking per-call channel wait, woken by Listen's dispatch.
type RPC struct {
	conn   *Conn
	notify NotificationHandler
	log    *logging.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingCall
}

// NewRPC wraps conn with request/response correlation. notify is invoked
// (from the Listen goroutine) for every frame that isn't claimed by an
// outstanding Call; it may be nil.
func NewRPC(conn *Conn, notify NotificationHandler) *RPC {
	return &RPC{
		conn:    conn,
		notify:  notify,
		log:     logging.Named("protocol.rpc"),
		pending: map[uuid.UUID]*pendingCall{},
	}
}

// Listen runs the receive loop until ctx is canceled or the transport
// closes. It must run concurrently with any in-flight Call.
func (r *RPC) Listen(ctx context.Context) error {
	for {
		f, val, err := r.conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrNoFrame) && ctx.Err() == nil {
				continue
			}
			r.failAll(err)
			return err
		}
		r.dispatch(f, val)
	}
}

func (r *RPC) dispatch(f frame.Frame, val any) {
	if f.Type == frame.Response || f.Type == frame.Error {
		r.mu.Lock()
		pc, ok := r.pending[f.MessageID]
		if ok {
			delete(r.pending, f.MessageID)
		}
		r.mu.Unlock()

		if ok {
			var err error
			if f.Type == frame.Error {
				err = fmt.Errorf("protocol: remote error for call %s", f.MessageID)
			}
			pc.result <- callResult{frame: f, value: val, err: err}
			return
		}
	}

	if r.notify != nil {
		r.notify(f, val)
	}
}

func (r *RPC) failAll(cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pc := range r.pending {
		pc.result <- callResult{err: fmt.Errorf("protocol: connection closed: %w", cause)}
		delete(r.pending, id)
	}
}

// Call sends params as a Request frame and blocks until its matching
// Response/Error arrives or timeout elapses. A timed-out call's in-flight
// entry is removed; the underlying transport is left untouched.
func (r *RPC) Call(ctx context.Context, params any, timeout time.Duration) (any, error) {
	sendCtx, cancelSend := context.WithTimeout(ctx, timeout)
	defer cancelSend()

	// Register the in-flight entry before sending, so a response that
	// arrives before Send returns still finds its call.
	id := uuid.New()
	pc := &pendingCall{result: make(chan callResult, 1)}
	r.mu.Lock()
	r.pending[id] = pc
	r.mu.Unlock()

	if _, err := r.conn.SendWithID(sendCtx, frame.Request, id, params); err != nil {
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-pc.result:
		return res.value, res.err
	case <-timer.C:
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
		return nil, &TimeoutError{Msg: fmt.Sprintf("call %s timed out after %s", id, timeout)}
	case <-ctx.Done():
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
		return nil, ctx.Err()
	}
}
