package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"curvefit/domain/core"
	"curvefit/ports"
)

// SampleRepository keeps samples in process memory. It orders search results the same
// way as the PostgreSQL implementation and is used when no DATABASE_URL is configured.
type SampleRepository struct {
	mu      sync.RWMutex
	samples map[core.SampleID]ports.SampleRecord
	now     func() time.Time
}

// NewSampleRepository creates an empty in-memory store
func NewSampleRepository() *SampleRepository {
	return &SampleRepository{
		samples: make(map[core.SampleID]ports.SampleRecord),
		now:     time.Now,
	}
}

var _ ports.SampleRepository = (*SampleRepository)(nil)

// Create stores a copy of record
func (r *SampleRepository) Create(ctx context.Context, record *ports.SampleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.ID.String() == "" {
		return core.NewValidationError("id", "must be set")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.samples[record.ID]; exists {
		return core.NewValidationError("id", "already exists")
	}
	r.samples[record.ID] = *record
	return nil
}

// GetByID returns a copy of the stored sample
func (r *SampleRepository) GetByID(ctx context.Context, id core.SampleID) (*ports.SampleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.samples[id]
	if !ok {
		return nil, core.ErrSampleNotFound
	}
	return &record, nil
}

// Search matches names containing fragment, ignoring case
func (r *SampleRepository) Search(ctx context.Context, fragment string, limit int) ([]*ports.SampleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fragment = strings.TrimSpace(fragment)
	needle := strings.ToLower(fragment)
	target := utf8.RuneCountInString(fragment)

	r.mu.RLock()
	var matches []*ports.SampleRecord
	for _, record := range r.samples {
		if strings.Contains(strings.ToLower(record.Name), needle) {
			rec := record
			matches = append(matches, &rec)
		}
	}
	r.mu.RUnlock()

	distance := func(name string) int {
		d := utf8.RuneCountInString(name) - target
		if d < 0 {
			return -d
		}
		return d
	}
	sort.Slice(matches, func(i, j int) bool {
		di, dj := distance(matches[i].Name), distance(matches[j].Name)
		if di != dj {
			return di < dj
		}
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// UpdateXY replaces the values of an existing sample
func (r *SampleRepository) UpdateXY(ctx context.Context, id core.SampleID, x, y string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.samples[id]
	if !ok {
		return false, nil
	}
	record.X, record.Y = x, y
	record.UpdatedAt = r.now()
	r.samples[id] = record
	return true, nil
}

// Delete removes a sample
func (r *SampleRepository) Delete(ctx context.Context, id core.SampleID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.samples[id]; !ok {
		return core.ErrSampleNotFound
	}
	delete(r.samples, id)
	return nil
}
