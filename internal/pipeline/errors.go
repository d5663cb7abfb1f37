package pipeline

import "errors"

// Sentinel kinds for errors the HTTP layer maps to status codes
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Error is a user-facing failure. Its message is surfaced as is and
// errors.Is matches its Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the error's kind
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func invalidInput(message string) error {
	return &Error{Kind: ErrInvalidInput, Message: message}
}
