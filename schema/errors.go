package schema

import "fmt"

// ValidationError reports a violated structural invariant, naming the
// offending type or field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "schema validation: " + e.Msg }

func errf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
