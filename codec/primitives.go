package codec

import (
	"unicode/utf8"

	"github.com/benjamin-larsen/barewire/internal/cursor"
)

func encodeBool(w *cursor.Writer, v bool) error {
	if v {
		return w.WriteByte(0x01)
	}
	return w.WriteByte(0x00)
}

func decodeBool(r *cursor.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, decErr("truncated bool: %v", err)
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, decErr("invalid bool tag 0x%02x", b)
	}
}

func encodeString(w *cursor.Writer, s string) error {
	if err := EncodeUInt(w, uint64(len(s))); err != nil {
		return err
	}
	return w.WriteExact([]byte(s))
}

func decodeString(r *cursor.Reader) (string, error) {
	n, err := DecodeUInt(r)
	if err != nil {
		return "", err
	}
	b, err := r.ReadExact(int(n))
	if err != nil {
		return "", decErr("truncated string: %v", err)
	}
	if !utf8.Valid(b) {
		return "", decErr("invalid utf-8")
	}
	return string(b), nil
}

func encodeData(w *cursor.Writer, b []byte) error {
	if err := EncodeUInt(w, uint64(len(b))); err != nil {
		return err
	}
	return w.WriteExact(b)
}

func decodeData(r *cursor.Reader) ([]byte, error) {
	n, err := DecodeUInt(r)
	if err != nil {
		return nil, err
	}
	b, err := r.ReadExact(int(n))
	if err != nil {
		return nil, decErr("truncated data: %v", err)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func encodeFixedData(w *cursor.Writer, b []byte, n int) error {
	if len(b) != n {
		return encErr("fixed-data: expected %d bytes, got %d", n, len(b))
	}
	return w.WriteExact(b)
}

func decodeFixedData(r *cursor.Reader, n int) ([]byte, error) {
	b, err := r.ReadExact(n)
	if err != nil {
		return nil, decErr("truncated fixed-data(%d): %v", n, err)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
