package frame_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/frame"
)

func TestRoundTripNoHeaders(t *testing.T) {
	f := frame.Frame{
		Type:      frame.Request,
		MessageID: uuid.New(),
		Timestamp: 1234567890,
		Payload:   []byte{0xAA, 0xBB, 0xCC},
	}
	b, err := frame.Encode(f)
	require.NoError(t, err)

	got, n, err := frame.Decode(b)
	require.NoError(t, err)
	require.Equal(t, len(b), n)
	require.Equal(t, f.Type, got.Type)
	require.Equal(t, f.MessageID, got.MessageID)
	require.Equal(t, f.Timestamp, got.Timestamp)
	require.Equal(t, f.Payload, got.Payload)
	require.Empty(t, got.Headers)
}

func TestRoundTripWithHeaders(t *testing.T) {
	f := frame.Frame{
		Type:      frame.Response,
		MessageID: uuid.New(),
		Timestamp: -1,
		Headers:   []frame.Header{{Key: "trace-id", Value: "abc123"}},
		Payload:   []byte("payload"),
	}
	b, err := frame.Encode(f)
	require.NoError(t, err)

	got, _, err := frame.Decode(b)
	require.NoError(t, err)
	require.Equal(t, f.Headers, got.Headers)
	require.Equal(t, f.Payload, got.Payload)
}

func TestDecodeTrailingBytesLeftForCaller(t *testing.T) {
	f := frame.Frame{Type: frame.Notification, MessageID: uuid.New(), Payload: []byte{0x01}}
	b, err := frame.Encode(f)
	require.NoError(t, err)
	b = append(b, 0xFF, 0xFE)

	_, n, err := frame.Decode(b)
	require.NoError(t, err)
	require.Equal(t, 2, len(b)-n)
}

func TestDecodeUnknownMessageType(t *testing.T) {
	f := frame.Frame{Type: frame.Error, MessageID: uuid.New()}
	b, err := frame.Encode(f)
	require.NoError(t, err)
	b[1] = 0xFF // message type byte
	_, _, err = frame.Decode(b)
	require.Error(t, err)
}

func TestDecodeReservedFlagBitRejected(t *testing.T) {
	f := frame.Frame{Type: frame.Request, MessageID: uuid.New()}
	b, err := frame.Encode(f)
	require.NoError(t, err)
	b[2] |= byte(frame.FlagCompressed)
	_, _, err = frame.Decode(b)
	require.Error(t, err)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	f := frame.Frame{Type: frame.Request, MessageID: uuid.New()}
	b, err := frame.Encode(f)
	require.NoError(t, err)
	b[0] = 2
	_, _, err = frame.Decode(b)
	require.Error(t, err)
}

func TestDecodeShortBuffer(t *testing.T) {
	f := frame.Frame{Type: frame.Request, MessageID: uuid.New(), Payload: []byte("hello")}
	b, err := frame.Encode(f)
	require.NoError(t, err)
	_, _, err = frame.Decode(b[:len(b)-2])
	require.Error(t, err)
}
