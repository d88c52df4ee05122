// internal/models/errors.go
package models

import "errors"

var (
	// ErrInvalidCardConstruction is returned when a card is built with an impossible combination of
	// color, kind and face value.
	ErrInvalidCardConstruction = errors.New("invalid card construction")

	// ErrInvalidConfigInput is returned for malformed setup input. Callers re-prompt.
	ErrInvalidConfigInput = errors.New("invalid config input")
)
