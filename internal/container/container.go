package container

import (
	"context"
	"fmt"

	"curvefit/adapters/memory"
	"curvefit/adapters/postgres"
	"curvefit/app"
	"curvefit/internal"
	"curvefit/internal/config"
	"curvefit/internal/errors"
	"curvefit/internal/migration"
	"curvefit/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; nil when running on the in-memory store
	DB *sqlx.DB

	SampleRepo ports.SampleRepository
	FitService *app.FitService
}

// New creates a container backed by the in-memory sample store.
// Call InitWithDatabase to switch to postgres.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		level, _ := internal.ParseLogLevel(cfg.Log.Level)
		logger = internal.NewLogger(level)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}
	c.useRepository(memory.NewSampleRepository())
	return c, nil
}

// Open builds a container and connects to postgres when DATABASE_URL is set
func Open(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	c, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		c.Logger.Info("DATABASE_URL not set, samples are kept in memory")
		return c, nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to connect to database")
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// InitWithDatabase migrates the schema and switches the sample store to postgres
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "database connection test failed")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.useRepository(postgres.NewSampleRepository(db))
	c.Logger.Info("postgres sample store ready (schema %s)", migrator.Version())
	return nil
}

func (c *Container) useRepository(repo ports.SampleRepository) {
	c.SampleRepo = repo
	c.FitService = app.NewFitService(repo, c.Config.EngineConfig(), c.Config.Fit.BatchConcurrency, c.Logger)
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
