package protocol

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/benjamin-larsen/barewire/codec"
	"github.com/benjamin-larsen/barewire/frame"
	"github.com/benjamin-larsen/barewire/internal/logging"
	"github.com/benjamin-larsen/barewire/schema"
	"github.com/benjamin-larsen/barewire/transport"
)

// schemaIDHeader names the frame header carrying a message's schema
// identifier, so a peer can detect a wire-incompatible schema before
// decoding the payload.
const schemaIDHeader = "schema-id"

// ErrNoFrame is returned by Receive when no frame is available before ctx
// is done, letting a caller distinguish "nothing arrived yet" from a
// genuine transport failure.
var ErrNoFrame = errors.New("protocol: no frame available")

// Conn layers typed Send/Receive over a Transport for one message schema.
type Conn struct {
	transport transport.Transport
	schema    *schema.Schema[schema.Validated]
	schemaID  uuid.UUID
	log       *logging.Logger
}

// NewConn binds t to s. Every Send stamps the frame with s's schema
// identifier; every Receive verifies it before decoding.
func NewConn(t transport.Transport, s *schema.Schema[schema.Validated]) *Conn {
	return &Conn{
		transport: t,
		schema:    s,
		schemaID:  SchemaID(s),
		log:       logging.Named("protocol.conn"),
	}
}

// Send encodes msg with the codec and hands the framed result to the
// transport.
func (c *Conn) Send(ctx context.Context, typ frame.Type, msg any) (uuid.UUID, error) {
	return c.SendWithID(ctx, typ, uuid.New(), msg)
}

// SendWithID is Send with a caller-chosen message identifier, used to
// reply to a specific request: a Response or Error frame must carry the
// same MessageID as the Request it answers so the RPC layer's in-flight
// table can correlate them.
func (c *Conn) SendWithID(ctx context.Context, typ frame.Type, id uuid.UUID, msg any) (uuid.UUID, error) {
	payload, err := codec.Encode(c.schema, msg)
	if err != nil {
		return uuid.Nil, err
	}
	f := frame.Frame{
		Type:      typ,
		MessageID: id,
		Timestamp: time.Now().Unix(),
		Headers:   []frame.Header{{Key: schemaIDHeader, Value: c.schemaID.String()}},
		Payload:   payload,
	}
	b, err := frame.Encode(f)
	if err != nil {
		return uuid.Nil, err
	}
	if err := c.transport.Send(ctx, b); err != nil {
		return uuid.Nil, err
	}
	c.log.WithField("message_id", id).Debug("sent frame")
	return id, nil
}

// Receive waits for the next frame, verifies its schema identifier header
// (when present) against this Conn's schema, and decodes its payload.
// A context.Canceled or context.DeadlineExceeded error from the transport
// surfaces as ErrNoFrame; any other transport error, including a stream
// transport's read-deadline timeout, is returned as it is.
func (c *Conn) Receive(ctx context.Context) (frame.Frame, any, error) {
	raw, err := c.transport.Receive(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return frame.Frame{}, nil, ErrNoFrame
		}
		return frame.Frame{}, nil, err
	}

	f, _, err := frame.Decode(raw)
	if err != nil {
		return frame.Frame{}, nil, err
	}

	for _, h := range f.Headers {
		if h.Key != schemaIDHeader {
			continue
		}
		if h.Value != c.schemaID.String() {
			return f, nil, &TypeMismatchError{Msg: "frame schema id " + h.Value + " does not match this connection's schema"}
		}
		break
	}

	val, err := codec.Decode(c.schema, f.Payload)
	if err != nil {
		return f, nil, err
	}
	return f, val, nil
}

// Close releases the underlying transport.
func (c *Conn) Close() error { return c.transport.Close() }
