package link

import (
	"errors"
	"fmt"
)

// Errors
var (
	// ErrAlreadyConnected indicates Open was called on a Conn that is
	// not disconnected.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrNotConnected indicates the operation requires an open channel.
	ErrNotConnected = errors.New("not connected")
	// ErrPortRequired indicates an empty port name.
	ErrPortRequired = errors.New("port name required")
	// ErrInvalidBaud indicates a negative baud rate.
	ErrInvalidBaud = errors.New("baud rate must be positive")
	// ErrDividerInPayload indicates a framed write whose payload
	// contains the divider byte.
	ErrDividerInPayload = errors.New("payload contains divider")
)

// ParamError indicates a rejected Connect argument.
type ParamError struct {
	Index  int
	Reason string
}

// Error implements error.
func (e *ParamError) Error() string {
	return fmt.Sprintf("param %d: %s", e.Index, e.Reason)
}
