package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is the cause of every configuration error returned by this package
var ErrInvalidConfig = errors.New("invalid engine configuration")

// ConfigError describes a rejected configuration value
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErr(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
