package container

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curvefit/adapters/memory"
	"curvefit/app"
	"curvefit/internal"
	"curvefit/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REGRESSION_ALPHA", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestOpen_WithoutDatabaseUsesMemory(t *testing.T) {
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError, true)
	c, err := Open(context.Background(), testConfig(t), logger)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.DB)
	assert.IsType(t, &memory.SampleRepository{}, c.SampleRepo)
	require.NotNil(t, c.FitService)

	report, err := c.FitService.FitText(context.Background(), app.FitRequest{X: "1,2,3", Y: "2,4,6"})
	require.NoError(t, err)
	assert.Equal(t, 15, report.Results.Len())
}

func TestInitWithDatabase_NilDB(t *testing.T) {
	c, err := New(testConfig(t), internal.NewLoggerTo(io.Discard, internal.LogLevelError, true))
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}
