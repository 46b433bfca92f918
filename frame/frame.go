// Package frame implements the versioned message envelope: a fixed
// header (version, message type, flags, message ID, timestamp, payload
// length, optional key/value headers) followed by exactly PayloadLength
// bytes of payload.
package frame

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benjamin-larsen/barewire/internal/cursor"
)

// Version is the only protocol version this implementation understands.
const Version uint8 = 1

// Type is the message-type byte in the frame header.
type Type uint8

const (
	Request Type = iota
	Response
	Notification
	Error
)

func (t Type) valid() bool { return t <= Error }

// Flags are header bit flags. Compressed and Encrypted are reserved: this
// implementation applies neither transform, so a conforming
// decoder rejects any frame with either bit set rather than silently
// ignoring it.
type Flags uint8

const (
	FlagCompressed Flags = 1 << 0
	FlagEncrypted  Flags = 1 << 1
	FlagHasHeaders Flags = 1 << 2

	reservedMask = ^(FlagCompressed | FlagEncrypted | FlagHasHeaders)
)

// HeaderSize is the fixed portion of the header, before any optional
// key/value headers.
const HeaderSize = 1 + 1 + 1 + 16 + 8 + 4

// Frame is one decoded message envelope plus its payload.
type Frame struct {
	Version   uint8
	Type      Type
	MessageID uuid.UUID
	Timestamp int64 // signed Unix seconds
	Headers   []Header
	Payload   []byte
}

// Header is one optional key/value header entry.
type Header struct {
	Key   string
	Value string
}

func (f Frame) flags() Flags {
	var fl Flags
	if len(f.Headers) > 0 {
		fl |= FlagHasHeaders
	}
	return fl
}

// Encode serializes f per the frame header layout.
func Encode(f Frame) ([]byte, error) {
	if !f.Type.valid() {
		return nil, &EncodingError{Msg: fmt.Sprintf("invalid message type %d", f.Type)}
	}

	w := cursor.NewWriterCapacity(HeaderSize + len(f.Payload))
	if err := w.WriteByte(Version); err != nil {
		return nil, err
	}
	if err := w.WriteByte(byte(f.Type)); err != nil {
		return nil, err
	}
	if err := w.WriteByte(byte(f.flags())); err != nil {
		return nil, err
	}
	idBytes := f.MessageID
	if err := w.WriteExact(idBytes[:]); err != nil {
		return nil, err
	}
	if err := w.WriteI64LE(f.Timestamp); err != nil {
		return nil, err
	}
	if err := w.WriteU32LE(uint32(len(f.Payload))); err != nil {
		return nil, err
	}
	if len(f.Headers) > 0 {
		if err := w.WriteU16LE(uint16(len(f.Headers))); err != nil {
			return nil, err
		}
		for _, h := range f.Headers {
			if err := writeHeaderString(w, h.Key); err != nil {
				return nil, err
			}
			if err := writeHeaderString(w, h.Value); err != nil {
				return nil, err
			}
		}
	}
	if err := w.WriteExact(f.Payload); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func writeHeaderString(w *cursor.Writer, s string) error {
	if len(s) > 0xffff {
		return &EncodingError{Msg: "header string exceeds 65535 bytes"}
	}
	if err := w.WriteU16LE(uint16(len(s))); err != nil {
		return err
	}
	return w.WriteExact([]byte(s))
}

// DecodingError reports a malformed frame.
type DecodingError struct{ Msg string }

func (e *DecodingError) Error() string { return "frame: " + e.Msg }

// EncodingError reports a frame that cannot be serialized.
type EncodingError struct{ Msg string }

func (e *EncodingError) Error() string { return "frame: " + e.Msg }

// Decode parses one frame from the front of buf. It returns the frame and
// the number of bytes consumed; trailing bytes are left for the caller.
// Decode rejects an unknown message type, any reserved flag bit, a
// version other than 1, or a buffer shorter than header+payload.
func Decode(buf []byte) (Frame, int, error) {
	r := cursor.NewReader(buf)

	version, err := r.ReadByte()
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "truncated header"}
	}
	if version != Version {
		return Frame{}, 0, &DecodingError{Msg: fmt.Sprintf("unsupported protocol version %d", version)}
	}

	typeByte, err := r.ReadByte()
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "truncated header"}
	}
	typ := Type(typeByte)
	if !typ.valid() {
		return Frame{}, 0, &DecodingError{Msg: fmt.Sprintf("unknown message type %d", typeByte)}
	}

	flagByte, err := r.ReadByte()
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "truncated header"}
	}
	if Flags(flagByte)&reservedMask != 0 {
		return Frame{}, 0, &DecodingError{Msg: "reserved flag bit set"}
	}

	idBytes, err := r.ReadExact(16)
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "truncated message id"}
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "invalid message id"}
	}

	ts, err := r.ReadI64LE()
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "truncated timestamp"}
	}

	payloadLen, err := r.ReadU32LE()
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "truncated payload length"}
	}

	var headers []Header
	if Flags(flagByte)&FlagHasHeaders != 0 {
		count, err := r.ReadU16LE()
		if err != nil {
			return Frame{}, 0, &DecodingError{Msg: "truncated header count"}
		}
		headers = make([]Header, count)
		for i := range headers {
			key, err := readHeaderString(r)
			if err != nil {
				return Frame{}, 0, err
			}
			val, err := readHeaderString(r)
			if err != nil {
				return Frame{}, 0, err
			}
			headers[i] = Header{Key: key, Value: val}
		}
	}

	payload, err := r.ReadExact(int(payloadLen))
	if err != nil {
		return Frame{}, 0, &DecodingError{Msg: "buffer shorter than header+payload_length"}
	}
	out := make([]byte, len(payload))
	copy(out, payload)

	return Frame{
		Version:   version,
		Type:      typ,
		MessageID: id,
		Timestamp: ts,
		Headers:   headers,
		Payload:   out,
	}, r.Position(), nil
}

func readHeaderString(r *cursor.Reader) (string, error) {
	n, err := r.ReadU16LE()
	if err != nil {
		return "", &DecodingError{Msg: "truncated header key/value length"}
	}
	b, err := r.ReadExact(int(n))
	if err != nil {
		return "", &DecodingError{Msg: "truncated header key/value"}
	}
	return string(b), nil
}
