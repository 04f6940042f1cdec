package ports

import (
	"context"
	"time"

	"curvefit/domain/core"
)

// SampleRepository persists named regression samples
type SampleRepository interface {
	// Create stores a new sample; the record's ID and timestamps must already be set
	Create(ctx context.Context, record *SampleRecord) error

	// GetByID returns the sample or core.ErrSampleNotFound
	GetByID(ctx context.Context, id core.SampleID) (*SampleRecord, error)

	// Search finds samples whose name contains fragment, case-insensitively, closest
	// name length first and then by name. limit <= 0 returns every match.
	Search(ctx context.Context, fragment string, limit int) ([]*SampleRecord, error)

	// UpdateXY replaces the stored values and reports whether the sample existed
	UpdateXY(ctx context.Context, id core.SampleID, x, y string) (bool, error)

	// Delete removes a sample or returns core.ErrSampleNotFound
	Delete(ctx context.Context, id core.SampleID) error
}

// SampleRecord is a stored sample. X and Y hold canonical comma-separated numbers.
type SampleRecord struct {
	ID        core.SampleID `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	X         string        `json:"x" db:"x"`
	Y         string        `json:"y" db:"y"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}
