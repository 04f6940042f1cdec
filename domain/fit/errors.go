package fit

import (
	"errors"
	"fmt"
)

// Core errors
var (
	// Caller-level errors: no fitting starts
	ErrParse            = errors.New("invalid numeric input")
	ErrLengthMismatch   = errors.New("x and y lengths differ")
	ErrInsufficientData = errors.New("insufficient data for regression")
	ErrInvalidSample    = errors.New("invalid sample")

	// Per-model errors: the batch continues
	ErrNumericalFailure = errors.New("numerical failure")
)

// NewNumericalFailure tags a solver or family breakdown
func NewNumericalFailure(model ModelID, cause error) error {
	return fmt.Errorf("%w in %s: %v", ErrNumericalFailure, model, cause)
}

// IsInputError reports errors that reject a request before any fitting
func IsInputError(err error) bool {
	return errors.Is(err, ErrParse) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidSample)
}

// IsNumericalFailure reports whether err marks a failed estimation
func IsNumericalFailure(err error) bool {
	return errors.Is(err, ErrNumericalFailure)
}
