package narrative

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every input-shape failure at the engine
	// boundary. Callers use errors.Is to map it to a transport-level
	// "bad request" response.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAction indicates an action discriminator outside the
	// closed Action set.
	ErrUnknownAction = errors.New("unknown action")
)

// ValidationError describes why a scenes payload was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports ValidationError as ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IsValidation checks if an error was caused by a rejected input shape.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
