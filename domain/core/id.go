package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SampleID identifies a stored regression sample
type SampleID ID

func (id SampleID) String() string { return ID(id).String() }

// NewSampleID creates a time-ordered sample identifier
func NewSampleID() SampleID { return SampleID(NewID()) }

// ParseSampleID validates s as a UUID and returns it in canonical form
func ParseSampleID(s string) (SampleID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: sample ID cannot be empty", ErrInvalidID)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidID, s, err)
	}
	return SampleID(u.String()), nil
}
