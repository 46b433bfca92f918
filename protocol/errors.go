package protocol

// TypeMismatchError is returned when a received frame's schema identifier
// header does not match the schema a Conn was constructed for, or names a
// schema no Registry has a descriptor for.
type TypeMismatchError struct{ Msg string }

func (e *TypeMismatchError) Error() string { return "protocol: " + e.Msg }

// TimeoutError is returned by Call when no matching response arrives
// before the configured deadline. The in-flight table entry is removed
// before this error is returned.
type TimeoutError struct{ Msg string }

func (e *TimeoutError) Error() string { return "protocol: " + e.Msg }
