package mandelbrot

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid render or viewer parameter: non-positive
// dimensions or iteration caps, degenerate viewports, unknown palette or
// region names. It is raised before any computation starts; the caller
// recovers by supplying corrected parameters.
type ConfigError struct {
	Field  string
	Reason string
}

// Error returns the error message.
func (e *ConfigError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

// IsConfigError checks whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
