// Package codec implements the BARE primitive and aggregate encoder/decoder
// operating over a schema.Schema[Validated] and the internal
// cursor package.
package codec

import "fmt"

// EncodingError reports that a value cannot be encoded against its
// declared type.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string { return "encoding: " + e.Msg }

func encErr(format string, args ...any) *EncodingError {
	return &EncodingError{Msg: fmt.Sprintf(format, args...)}
}

// DecodingError reports malformed input: truncation, invalid UTF-8, a bad
// bool tag, an unknown enum/union tag, a duplicate map key, or uint
// overflow.
type DecodingError struct {
	Msg string
}

func (e *DecodingError) Error() string { return "decoding: " + e.Msg }

func decErr(format string, args ...any) *DecodingError {
	return &DecodingError{Msg: fmt.Sprintf(format, args...)}
}
