package diagram

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfLoop is returned when a connection would link a column to itself.
	ErrSelfLoop = errors.New("diagram: connection from a column to itself")

	// ErrUnknownEndpoint is returned when an endpoint does not reference a
	// placed table or one of its columns.
	ErrUnknownEndpoint = errors.New("diagram: endpoint does not reference a placed column")
)

// ConnectionError describes a rejected connection.
type ConnectionError struct {
	Start Endpoint
	End   Endpoint
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v (%s -> %s)", e.Err, e.Start, e.End)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsSelfLoop reports whether err is, or wraps, a self-loop rejection.
func IsSelfLoop(err error) bool {
	return errors.Is(err, ErrSelfLoop)
}
