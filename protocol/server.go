package protocol

import (
	"context"
	"errors"

	"github.com/benjamin-larsen/barewire/internal/logging"
	"github.com/benjamin-larsen/barewire/schema"
	"github.com/benjamin-larsen/barewire/transport"
)

// HandshakeFunc runs once per accepted connection, before any frame is
// handed to Server's connection handler. Returning an error closes the
// connection without ever invoking the handler — a two-phase "wait for
// hello, then establish" connection state machine parameterized over an
// arbitrary handshake frame instead of one hardcoded message.
type HandshakeFunc func(ctx context.Context, conn *Conn) error

// ConnHandler processes one established connection until it closes.
type ConnHandler func(ctx context.Context, conn *Conn)

// Server accepts connections from a transport.Listener, frames them with
// one schema, and runs an optional handshake before handing each one to a
// handler, running each connection in its own goroutine.
type Server struct {
	listener  transport.Listener
	schema    *schema.Schema[schema.Validated]
	handshake HandshakeFunc
	handle    ConnHandler
	log       *logging.Logger
}

// NewServer returns a Server that accepts connections from l, frames them
// against s, and dispatches each established connection to handle.
func NewServer(l transport.Listener, s *schema.Schema[schema.Validated], handle ConnHandler) *Server {
	return &Server{
		listener: l,
		schema:   s,
		handle:   handle,
		log:      logging.Named("protocol.server"),
	}
}

// RequireHandshake installs fn to run before handle on every connection.
// A connection whose handshake fails or times out is closed without ever
// reaching handle.
func (srv *Server) RequireHandshake(fn HandshakeFunc) {
	srv.handshake = fn
}

// ListenAndServe accepts connections until ctx is canceled or the
// listener is closed, running each one in its own goroutine. It returns
// nil on an orderly shutdown (listener closed) and the accept error
// otherwise.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	srv.log.WithField("addr", srv.listener.Addr()).Info("listening")
	defer srv.log.Info("server shutting down")

	for {
		t, err := srv.listener.Accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, transport.ErrClosed) {
				return nil
			}
			srv.log.WithField("error", err).Error("permanent accept error")
			return err
		}
		go srv.handleConn(ctx, t)
	}
}

func (srv *Server) handleConn(ctx context.Context, t transport.Transport) {
	conn := NewConn(t, srv.schema)
	defer conn.Close()

	srv.log.Debug("connection open")
	defer srv.log.Debug("connection closed")

	if srv.handshake != nil {
		if err := srv.handshake(ctx, conn); err != nil {
			srv.log.WithField("error", err).Warn("handshake failed, closing connection")
			return
		}
	}

	if srv.handle != nil {
		srv.handle(ctx, conn)
	}
}
