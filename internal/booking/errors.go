package booking

import (
	"errors"
	"fmt"
)

// ErrSlotUnavailable is returned when write-time validation finds the chosen
// interval already taken. The caller picks another slot; nothing is retried
// internally.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrNotFound covers missing appointments, services and professionals.
var ErrNotFound = errors.New("not found")

// ValidationError marks a malformed or missing request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
