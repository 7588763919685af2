package fractal

import (
	"errors"
	"fmt"
)

// Configuration errors. Both are reported before any sampling begins.
var (
	// ErrInvalidViewport indicates xMax <= xMin or yMax <= yMin.
	ErrInvalidViewport = errors.New("fractal: invalid viewport (max must exceed min)")

	// ErrNonPositive indicates a size or count parameter that must be > 0.
	ErrNonPositive = errors.New("fractal: parameter must be positive")
)

// ConfigError wraps a configuration error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s = %v: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// RequirePositive returns a *ConfigError wrapping ErrNonPositive when v <= 0.
func RequirePositive(field string, v int) error {
	if v <= 0 {
		return &ConfigError{Field: field, Value: v, Wrapped: ErrNonPositive}
	}
	return nil
}
