package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curvefit/domain/fit"
	"curvefit/internal/ranking"
	"curvefit/internal/solvers"
	"curvefit/internal/testkit"
)

func alpha(v float64) *float64 { return &v }

func TestFitAll_EveryFamilyPresent(t *testing.T) {
	inputs := []struct {
		name string
		x, y []float64
	}{
		{"linear", []float64{1, 2, 3, 4, 5}, []float64{5, 8, 11, 14, 17}},
		{"negative y", []float64{1, 2, 3, 4, 5}, []float64{1, -2, 3, 4, 5}},
		{"zero x", []float64{0, 1, 2, 3, 4}, []float64{1, 2, 3, 4, 5}},
		{"two points", []float64{1, 2}, []float64{3, 5}},
		{"constant x", []float64{2, 2, 2}, []float64{1, 2, 3}},
	}

	for _, in := range inputs {
		t.Run(in.name, func(t *testing.T) {
			rs, err := FitAll(in.x, in.y, Config{})
			require.NoError(t, err)
			require.Equal(t, len(fit.Families()), rs.Len())

			for i, e := range rs.Entries() {
				assert.Equal(t, fit.Families()[i], e.Model)
				if e.Status == fit.StatusFitted {
					assert.Len(t, e.Result.Predicted, len(in.y))
				}
			}
		})
	}
}

func TestFitAll_ClosedFormSolversMatchLinearFamily(t *testing.T) {
	config := testkit.DefaultSampleConfig()
	config.Noise = 0.5
	x, y := testkit.NewSampleGenerator(config).Linear(-1, 0.75)

	rs, err := FitAll(x, y, DefaultConfig())
	require.NoError(t, err)
	linear, ok := rs.Get(fit.ModelLinear)
	require.True(t, ok)
	require.True(t, linear.OK())

	approx := cmpopts.EquateApprox(1e-6, 1e-9)
	for _, id := range []fit.SolverID{fit.SolverOLS, fit.SolverNormalEquation, fit.SolverSVD, fit.SolverQR, fit.SolverLU} {
		e, ok := rs.Get(fit.SolverModelID(id))
		require.True(t, ok)
		require.True(t, e.OK(), "solver %s: %s", id, e.Reason)

		if diff := cmp.Diff(linear.Result.Params, e.Result.Params, approx); diff != "" {
			t.Errorf("%s params mismatch (-linear +solver):\n%s", id, diff)
		}
		if diff := cmp.Diff(linear.Result.Metrics, e.Result.Metrics, approx); diff != "" {
			t.Errorf("%s metrics mismatch (-linear +solver):\n%s", id, diff)
		}
	}
}

func TestFitAll_LinearSample(t *testing.T) {
	rs, err := FitAll([]float64{1, 2, 3, 4, 5}, []float64{5, 8, 11, 14, 17}, DefaultConfig())
	require.NoError(t, err)

	linear, ok := rs.Get(fit.ModelLinear)
	require.True(t, ok)
	require.True(t, linear.OK())
	intercept, _ := linear.Result.Params.Get("intercept")
	slope, _ := linear.Result.Params.Get("slope")
	assert.InDelta(t, 2, intercept, 1e-6)
	assert.InDelta(t, 3, slope, 1e-6)
	assert.Greater(t, linear.Result.Metrics.R2, 0.99)

	exp, _ := rs.Get(fit.ModelExponential)
	assert.Equal(t, fit.StatusFitted, exp.Status)
}

func TestFitAll_SolverEntries(t *testing.T) {
	x, y := testkit.NewSampleGenerator(testkit.DefaultSampleConfig()).Linear(2, 3)
	rs, err := FitAll(x, y, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, len(fit.Families())+len(solvers.IDs()), rs.Len())

	entries := rs.Entries()
	for i, id := range solvers.IDs() {
		e := entries[len(fit.Families())+i]
		assert.Equal(t, fit.SolverModelID(id), e.Model)
		assert.Equal(t, "linear/"+string(id), string(e.Model))
		assert.Equal(t, fit.StatusFitted, e.Status, "solver %s: %s", id, e.Reason)
	}

	ols, _ := rs.Get(fit.SolverModelID(fit.SolverOLS))
	slope, _ := ols.Result.Params.Get("slope")
	assert.InDelta(t, 3, slope, 1e-9)
}

func TestFitAll_FailedSolverExcludedFromRanking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver.GDLearningRate = 1.5

	rs, err := FitAll([]float64{1, 2, 3, 4, 5}, []float64{5, 8, 11, 14, 17}, cfg)
	require.NoError(t, err)

	gd, ok := rs.Get(fit.SolverModelID(fit.SolverBatchGD))
	require.True(t, ok)
	assert.Equal(t, fit.StatusFailed, gd.Status)
	assert.True(t, fit.IsNumericalFailure(gd.Err))

	for _, e := range ranking.Order(rs) {
		assert.NotEqual(t, gd.Model, e.Model)
	}
}

func TestFitAll_QuadraticWins(t *testing.T) {
	rs, err := FitAll([]float64{1, 2, 3, 4, 5}, []float64{6, 17, 34, 57, 86}, Config{})
	require.NoError(t, err)

	best, ok := ranking.Best(rs)
	require.True(t, ok)
	assert.Equal(t, fit.ModelQuadratic, best.Model)
}

func TestFitAll_Alpha(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{5, 8, 11, 14, 17}

	tests := []struct {
		name     string
		cfg      Config
		want     float64
		fellBack bool
	}{
		{"unset", Config{IncludeSolvers: true}, solvers.DefaultAlpha, false},
		{"explicit", Config{IncludeSolvers: true, Alpha: alpha(0.25)}, 0.25, false},
		{"negative", Config{IncludeSolvers: true, Alpha: alpha(-2)}, solvers.DefaultAlpha, true},
		{"nan", Config{IncludeSolvers: true, Alpha: alpha(math.NaN())}, solvers.DefaultAlpha, true},
		{"text", Config{IncludeSolvers: true}.WithAlphaText("0.5"), 0.5, false},
		{"bad text", Config{IncludeSolvers: true}.WithAlphaText("abc"), solvers.DefaultAlpha, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := FitAll(x, y, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rs.Alpha())
			assert.Equal(t, tt.fellBack, rs.AlphaFallback())

			ridge, ok := rs.Get(fit.SolverModelID(fit.SolverRidge))
			require.True(t, ok)
			require.True(t, ridge.OK())
			// Sxx = 10, Sxy = 30
			slope, _ := ridge.Result.Params.Get("slope")
			assert.InDelta(t, 30/(10+tt.want), slope, 1e-12)
		})
	}
}

func TestFitAll_InputErrors(t *testing.T) {
	_, err := FitAll([]float64{1, 2, 3}, []float64{1, 2}, DefaultConfig())
	assert.ErrorIs(t, err, fit.ErrLengthMismatch)

	_, err = FitAll([]float64{1}, []float64{1}, DefaultConfig())
	assert.ErrorIs(t, err, fit.ErrInsufficientData)

	_, err = FitAll([]float64{1, math.Inf(1)}, []float64{1, 2}, DefaultConfig())
	assert.ErrorIs(t, err, fit.ErrInvalidSample)
	assert.True(t, fit.IsInputError(err))
}

func TestFitAll_FreshSetPerCall(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{2, 4, 6}

	a, err := FitAll(x, y, Config{})
	require.NoError(t, err)
	b, err := FitAll(x, y, Config{})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Entries(), b.Entries())

	x[0] = 100
	e, _ := a.Get(fit.ModelLinear)
	slope, _ := e.Result.Params.Get("slope")
	assert.InDelta(t, 2, slope, 1e-12)
}
