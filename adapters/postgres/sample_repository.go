package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"curvefit/domain/core"
	"curvefit/internal/errors"
	"curvefit/ports"

	"github.com/jmoiron/sqlx"
)

// SampleRepositoryImpl implements SampleRepository for PostgreSQL
type SampleRepositoryImpl struct {
	db *sqlx.DB
}

// NewSampleRepository creates a new PostgreSQL sample repository
func NewSampleRepository(db *sqlx.DB) ports.SampleRepository {
	return &SampleRepositoryImpl{db: db}
}

// Create inserts a sample row
func (r *SampleRepositoryImpl) Create(ctx context.Context, record *ports.SampleRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO regression_samples (id, name, x, y, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.Name, record.X, record.Y, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return dbError(err, "failed to insert sample")
	}
	return nil
}

// GetByID retrieves a sample by its ID
func (r *SampleRepositoryImpl) GetByID(ctx context.Context, id core.SampleID) (*ports.SampleRecord, error) {
	var record ports.SampleRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT id, name, x, y, created_at, updated_at
		FROM regression_samples
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSampleNotFound
	}
	if err != nil {
		return nil, dbError(err, "failed to load sample")
	}
	return &record, nil
}

// Search lists samples whose name contains fragment, closest length first
func (r *SampleRepositoryImpl) Search(ctx context.Context, fragment string, limit int) ([]*ports.SampleRecord, error) {
	fragment = strings.TrimSpace(fragment)
	query := `
		SELECT id, name, x, y, created_at, updated_at
		FROM regression_samples
		WHERE name ILIKE $1
		ORDER BY ABS(LENGTH(name) - $2), name ASC
	`

	args := []interface{}{"%" + escapeLike(fragment) + "%", utf8.RuneCountInString(fragment)}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	var records []*ports.SampleRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, dbError(err, "failed to search samples")
	}
	return records, nil
}

// UpdateXY replaces the stored values of a sample
func (r *SampleRepositoryImpl) UpdateXY(ctx context.Context, id core.SampleID, x, y string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE regression_samples
		SET x = $1, y = $2, updated_at = NOW()
		WHERE id = $3
	`, x, y, id)
	if err != nil {
		return false, dbError(err, "failed to update sample")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, dbError(err, "failed to read update result")
	}
	return n > 0, nil
}

// Delete removes a sample
func (r *SampleRepositoryImpl) Delete(ctx context.Context, id core.SampleID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM regression_samples WHERE id = $1`, id)
	if err != nil {
		return dbError(err, "failed to delete sample")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return core.ErrSampleNotFound
	}
	return nil
}

// escapeLike neutralizes LIKE wildcards so the fragment matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func dbError(err error, message string) error {
	return errors.DatabaseError(message).WithCause(err)
}
