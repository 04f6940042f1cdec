package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curvefit/internal/errors"
	"curvefit/internal/solvers"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REGRESSION_ALPHA", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Fit.IncludeSolvers)
	assert.Equal(t, 4, cfg.Fit.BatchConcurrency)
	assert.Equal(t, solvers.DefaultOptions(), cfg.SolverOptions())

	ec := cfg.EngineConfig()
	assert.Nil(t, ec.Alpha)
	assert.True(t, ec.IncludeSolvers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INCLUDE_SOLVERS", "false")
	t.Setenv("GD_ITERATIONS", "50")
	t.Setenv("SGD_SEED", "7")
	t.Setenv("REGRESSION_ALPHA", "0.3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	opts := cfg.SolverOptions()
	assert.Equal(t, 50, opts.GDIterations)
	assert.Equal(t, int64(7), opts.Seed)

	ec := cfg.EngineConfig()
	assert.False(t, ec.IncludeSolvers)
	require.NotNil(t, ec.Alpha)
	assert.Equal(t, 0.3, *ec.Alpha)
}

func TestLoad_InvalidAlphaIsNotFatal(t *testing.T) {
	t.Setenv("REGRESSION_ALPHA", "strong")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "strong", cfg.Fit.AlphaText)
	assert.NotNil(t, cfg.EngineConfig().Alpha)
}

func TestLoad_OutOfRange(t *testing.T) {
	for _, key := range []string{"GD_ITERATIONS", "GD_LEARNING_RATE", "SGD_MAX_EPOCHS", "BATCH_CONCURRENCY"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-1")

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
