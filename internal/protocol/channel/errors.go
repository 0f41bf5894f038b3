package channel

import (
	"encoding/json"
	"errors"
)

var (
	// ErrStreamClosed means the host side of the input stream is gone.
	// It is never swallowed by Receive.
	ErrStreamClosed   = errors.New("channel: input stream closed")
	ErrFrameTooLarge  = errors.New("channel: frame too large")
	ErrInvalidMessage = errors.New("channel: invalid message")
)

// recoverable reports whether a decode failure only costs the current frame.
func recoverable(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return true
	case errors.Is(err, ErrInvalidMessage), errors.Is(err, ErrFrameTooLarge):
		return true
	default:
		return false
	}
}
