package oerror

import "fmt"

// Error is returned or raised when the controller layer runs into a state it cannot continue from.
type Error struct {
	Err string
}

// New creates an Error with the formatted message.
func New(format string, args ...any) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return "kinematic: " + e.Err
}
