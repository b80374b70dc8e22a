package services

import (
	"errors"
	"fmt"
)

// ErrNotFound means the referenced entity is not in the current feed, either
// because it never existed or because it was evicted.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CarrierError is a failed outbound message send.
type CarrierError struct {
	Code    int
	Message string
	Err     error
}

func (e *CarrierError) Error() string {
	return e.Message
}

func (e *CarrierError) Unwrap() error {
	return e.Err
}
