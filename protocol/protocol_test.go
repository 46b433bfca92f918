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

func mustValidate(t *testing.T, root string, types map[string]*schema.Type) *schema.Schema[schema.Validated] {
	t.Helper()
	v, err := schema.New(root, types).Validate()
	require.NoError(t, err)
	return v
}

func TestSchemaIDStable(t *testing.T) {
	mk := func() *schema.Schema[schema.Validated] {
		return mustValidate(t, "root", map[string]*schema.Type{"root": schema.U32()})
	}
	require.Equal(t, protocol.SchemaID(mk()), protocol.SchemaID(mk()))
}

func TestConnSendReceiveRoundTrip(t *testing.T) {
	s := mustValidate(t, "Ping", map[string]*schema.Type{
		"Ping": schema.Struct(schema.Field("n", schema.U32())),
	})
	a, b := transport.NewInMemoryPair(4)
	defer a.Close()
	defer b.Close()

	connA := protocol.NewConn(a, s)
	connB := protocol.NewConn(b, s)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := connA.Send(ctx, frame.Request, map[string]any{"n": uint32(7)})
	require.NoError(t, err)

	_, val, err := connB.Receive(ctx)
	require.NoError(t, err)
	m := val.(map[string]any)
	require.Equal(t, uint32(7), m["n"])
}

func TestConnReceiveSchemaMismatch(t *testing.T) {
	s1 := mustValidate(t, "A", map[string]*schema.Type{"A": schema.U32()})
	s2 := mustValidate(t, "B", map[string]*schema.Type{"B": schema.U32()})

	a, b := transport.NewInMemoryPair(4)
	defer a.Close()
	defer b.Close()

	connA := protocol.NewConn(a, s1)
	connB := protocol.NewConn(b, s2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := connA.Send(ctx, frame.Request, uint32(1))
	require.NoError(t, err)

	_, _, err = connB.Receive(ctx)
	require.Error(t, err)
	var mismatch *protocol.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestRPCCallResponseRoundTrip(t *testing.T) {
	// Request and response share one schema: {a, b} in, {a: sum, b: 0} out.
	s := mustValidate(t, "Add", map[string]*schema.Type{
		"Add": schema.Struct(schema.Field("a", schema.U32()), schema.Field("b", schema.U32())),
	})

	clientT, serverT := transport.NewInMemoryPair(4)
	defer clientT.Close()
	defer serverT.Close()

	clientConn := protocol.NewConn(clientT, s)
	serverConn := protocol.NewConn(serverT, s)

	clientRPC := protocol.NewRPC(clientConn, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go clientRPC.Listen(ctx)

	go func() {
		for {
			f, val, err := serverConn.Receive(ctx)
			if err != nil {
				return
			}
			if f.Type != frame.Request {
				continue
			}
			m := val.(map[string]any)
			sum := m["a"].(uint32) + m["b"].(uint32)
			serverConn.SendWithID(ctx, frame.Response, f.MessageID, map[string]any{"a": sum, "b": uint32(0)})
		}
	}()

	result, err := clientRPC.Call(ctx, map[string]any{"a": uint32(3), "b": uint32(4)}, time.Second)
	require.NoError(t, err)
	m := result.(map[string]any)
	require.Equal(t, uint32(7), m["a"])
}

func TestRPCCallTimeout(t *testing.T) {
	s := mustValidate(t, "Ping", map[string]*schema.Type{"Ping": schema.U32()})

	clientT, serverT := transport.NewInMemoryPair(4)
	defer clientT.Close()
	defer serverT.Close()
	_ = serverT // no server ever responds

	clientConn := protocol.NewConn(clientT, s)
	clientRPC := protocol.NewRPC(clientConn, nil)

	_, err := clientRPC.Call(context.Background(), uint32(1), 30*time.Millisecond)
	require.Error(t, err)
	var timeoutErr *protocol.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}
