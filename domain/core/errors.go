package core

import (
	"errors"
	"fmt"
)

// Domain errors for the sample store and its callers
var (
	ErrNotFound       = errors.New("resource not found")
	ErrSampleNotFound = fmt.Errorf("%w: sample", ErrNotFound)

	ErrInvalidID   = errors.New("invalid identifier")
	ErrInvalidName = errors.New("invalid sample name")
)

// NewNotFoundError names the missing resource and its id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewValidationError reports a rejected field
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidName)
}
