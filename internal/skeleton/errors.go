package skeleton

import "errors"

var (
	// ErrParentRange marks a parent index outside the bone list.
	ErrParentRange = errors.New("parent index out of range")
	// ErrCycle marks a parent chain that never reaches a root.
	ErrCycle = errors.New("parent chain forms a cycle")
)

// FormatError reports a malformed or truncated skeleton stream.
// Unwrap exposes the cause, e.g. archive.ErrTruncated or ErrCycle.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	return "skeleton: " + e.Op + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
