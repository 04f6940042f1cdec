package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curvefit/domain/fit"
)

func fitted(predicted ...float64) fit.Entry {
	return fit.Fitted(fit.FitResult{Model: fit.ModelLinear, Predicted: predicted})
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{4, 1, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.5, s.Median)
	assert.InDelta(t, 1.118034, s.StdDev, 1e-6)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestResiduals_FlagsOutlier(t *testing.T) {
	y := []float64{1, 2.1, 2.9, 4.05, 4.95, 16}
	e := fitted(1, 2, 3, 4, 5, 6)

	p, err := Residuals(e, y)
	require.NoError(t, err)

	assert.Equal(t, fit.ModelLinear, p.Model)
	assert.Equal(t, 6, p.Summary.Count)
	assert.Equal(t, 10.0, p.Summary.Max)
	assert.Equal(t, 1, p.Outliers)
	assert.Greater(t, p.Skewness, 0.0)
	assert.GreaterOrEqual(t, p.JarqueBeraP, 0.0)
	assert.LessOrEqual(t, p.JarqueBeraP, 1.0)
}

func TestResiduals_PerfectFit(t *testing.T) {
	p, err := Residuals(fitted(1, 2, 3), []float64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.Summary.StdDev)
	assert.Equal(t, 0.0, p.Skewness)
	assert.Equal(t, 0.0, p.Kurtosis)
	assert.Equal(t, 1.0, p.JarqueBeraP)
	assert.Equal(t, 0, p.Outliers)
}

func TestResiduals_Errors(t *testing.T) {
	_, err := Residuals(fit.Inapplicable(fit.ModelPower, "requires all x > 0"), []float64{1, 2})
	assert.ErrorIs(t, err, ErrNoFit)

	_, err = Residuals(fitted(1, 2), []float64{1, 2, 3})
	assert.ErrorIs(t, err, fit.ErrLengthMismatch)
}
