package render

import (
	"errors"
	"fmt"
)

// ErrWorkerFailed indicates a batch panicked during sampling.
var ErrWorkerFailed = errors.New("render: worker failed")

// Error wraps a batch failure with the first row of the failing batch.
type Error struct {
	Row     int
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: batch at row %d: %v", e.Row, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
