package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/transport"
)

func TestInMemoryPairRoundTrip(t *testing.T) {
	a, b := transport.NewInMemoryPair(4)
	defer a.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, a.Send(ctx, []byte("hello")))
	got, err := b.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestInMemoryClosedReceiveErrors(t *testing.T) {
	a, _ := transport.NewInMemoryPair(1)
	a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := a.Receive(ctx)
	require.ErrorIs(t, err, transport.ErrClosed)
}

func TestTCPRoundTrip(t *testing.T) {
	ln, err := transport.ListenTCP("127.0.0.1:0", transport.StreamOptions{})
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	accepted := make(chan transport.Transport, 1)
	go func() {
		conn, err := ln.Accept(ctx)
		require.NoError(t, err)
		accepted <- conn
	}()

	client, err := transport.DialTCP(ctx, ln.Addr(), transport.StreamOptions{})
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	defer server.Close()

	require.NoError(t, client.Send(ctx, []byte("ping")))
	got, err := server.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("ping"), got)
}

func TestTCPOversizedPayloadTerminates(t *testing.T) {
	ln, err := transport.ListenTCP("127.0.0.1:0", transport.StreamOptions{MaxPayloadSize: 4, OverflowPolicy: transport.OverflowTerminate})
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	accepted := make(chan transport.Transport, 1)
	go func() {
		conn, err := ln.Accept(ctx)
		require.NoError(t, err)
		accepted <- conn
	}()

	client, err := transport.DialTCP(ctx, ln.Addr(), transport.StreamOptions{})
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	defer server.Close()

	require.NoError(t, client.Send(ctx, []byte("toolong")))
	_, err = server.Receive(ctx)
	require.Error(t, err)
}

func TestTCPAcceptOnClosedListenerReturnsErrClosed(t *testing.T) {
	ln, err := transport.ListenTCP("127.0.0.1:0", transport.StreamOptions{})
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = ln.Accept(ctx)
	require.ErrorIs(t, err, transport.ErrClosed)
}
