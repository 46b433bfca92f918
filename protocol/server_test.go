package protocol_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/frame"
	"github.com/benjamin-larsen/barewire/protocol"
	"github.com/benjamin-larsen/barewire/schema"
	"github.com/benjamin-larsen/barewire/transport"
)

func TestServerEchoesOverTCP(t *testing.T) {
	s := mustValidate(t, "Ping", map[string]*schema.Type{
		"Ping": schema.Struct(schema.Field("n", schema.U32())),
	})

	ln, err := transport.ListenTCP("127.0.0.1:0", transport.StreamOptions{})
	require.NoError(t, err)
	defer ln.Close()

	srv := protocol.NewServer(ln, s, func(ctx context.Context, conn *protocol.Conn) {
		for {
			f, val, err := conn.Receive(ctx)
			if err != nil {
				return
			}
			conn.SendWithID(ctx, frame.Response, f.MessageID, val)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.ListenAndServe(ctx) }()

	clientT, err := transport.DialTCP(ctx, ln.Addr(), transport.StreamOptions{})
	require.NoError(t, err)
	defer clientT.Close()
	client := protocol.NewConn(clientT, s)

	sendCtx, sendCancel := context.WithTimeout(ctx, time.Second)
	defer sendCancel()
	_, err = client.Send(sendCtx, frame.Request, map[string]any{"n": uint32(5)})
	require.NoError(t, err)

	_, val, err := client.Receive(sendCtx)
	require.NoError(t, err)
	m := val.(map[string]any)
	require.Equal(t, uint32(5), m["n"])

	cancel()
	ln.Close()
	<-serveDone
}

func TestServerHandshakeRejectsConnection(t *testing.T) {
	s := mustValidate(t, "Ping", map[string]*schema.Type{"Ping": schema.U32()})

	ln, err := transport.ListenTCP("127.0.0.1:0", transport.StreamOptions{})
	require.NoError(t, err)
	defer ln.Close()

	handled := make(chan struct{}, 1)
	srv := protocol.NewServer(ln, s, func(ctx context.Context, conn *protocol.Conn) {
		handled <- struct{}{}
	})
	srv.RequireHandshake(func(ctx context.Context, conn *protocol.Conn) error {
		return errHandshakeRejected
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)

	clientT, err := transport.DialTCP(ctx, ln.Addr(), transport.StreamOptions{})
	require.NoError(t, err)
	defer clientT.Close()

	select {
	case <-handled:
		t.Fatal("connection handler ran despite a failed handshake")
	case <-time.After(100 * time.Millisecond):
	}
}

var errHandshakeRejected = &protocol.TypeMismatchError{Msg: "handshake rejected for test"}
