package migration

import (
	"context"

	"curvefit/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements lists the DDL executed by Run, in order
func (r *MigrationRunner) Statements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS regression_samples (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			x TEXT NOT NULL,
			y TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_regression_samples_name ON regression_samples (LOWER(name))`,
	}
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range r.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to migrate regression_samples")
		}
	}
	return nil
}
