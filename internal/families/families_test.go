package families

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curvefit/domain/fit"
	"curvefit/internal/solvers"
	"curvefit/internal/testkit"
)

func sample(t *testing.T, x, y []float64) fit.Sample {
	t.Helper()
	s, err := fit.NewSample(x, y)
	require.NoError(t, err)
	return s
}

func param(t *testing.T, e fit.Entry, name string) float64 {
	t.Helper()
	require.True(t, e.OK(), "entry %s is %s: %s", e.Model, e.Status, e.Reason)
	v, ok := e.Result.Params.Get(name)
	require.True(t, ok, "missing parameter %s", name)
	return v
}

func TestLinear_ExactLine(t *testing.T) {
	e := Linear(sample(t, []float64{1, 2, 3, 4, 5}, []float64{5, 8, 11, 14, 17}))

	assert.InDelta(t, 2, param(t, e, "intercept"), 1e-6)
	assert.InDelta(t, 3, param(t, e, "slope"), 1e-6)
	assert.Greater(t, e.Result.Metrics.R2, 0.99)
	assert.Len(t, e.Result.Predicted, 5)
}

func TestLinear_ConstantX(t *testing.T) {
	e := Linear(sample(t, []float64{3, 3, 3}, []float64{1, 2, 6}))

	assert.Equal(t, 0.0, param(t, e, "slope"))
	assert.InDelta(t, 3, param(t, e, "intercept"), 1e-12)
}

func TestExponential(t *testing.T) {
	x, y := testkit.NewSampleGenerator(testkit.DefaultSampleConfig()).Exponential(2, 0.5)
	e := Exponential(sample(t, x, y))

	assert.InDelta(t, 2, param(t, e, "a"), 1e-9)
	assert.InDelta(t, 0.5, param(t, e, "b"), 1e-9)
	assert.InDelta(t, 1, e.Result.Metrics.R2, 1e-9)
}

func TestExponential_InapplicableForNonPositiveY(t *testing.T) {
	e := Exponential(sample(t, []float64{1, 2, 3, 4, 5}, []float64{1, -2, 3, 4, 5}))

	assert.Equal(t, fit.StatusInapplicable, e.Status)
	assert.Nil(t, e.Result)
	assert.NotEmpty(t, e.Reason)
}

func TestPower(t *testing.T) {
	x, y := testkit.NewSampleGenerator(testkit.DefaultSampleConfig()).Power(3, 2)
	e := Power(sample(t, x, y))

	assert.InDelta(t, 3, param(t, e, "a"), 1e-9)
	assert.InDelta(t, 2, param(t, e, "b"), 1e-9)
}

func TestLogarithmic(t *testing.T) {
	x, y := testkit.NewSampleGenerator(testkit.DefaultSampleConfig()).Logarithmic(1, 2)
	e := Logarithmic(sample(t, x, y))

	assert.InDelta(t, 1, param(t, e, "a"), 1e-9)
	assert.InDelta(t, 2, param(t, e, "b"), 1e-9)
}

func TestLogAndPower_InapplicableWithZeroX(t *testing.T) {
	s := sample(t, []float64{0, 1, 2, 3, 4}, []float64{1, 2, 3, 4, 5})

	for _, id := range []fit.ModelID{fit.ModelPower, fit.ModelLogarithmic} {
		e := Fit(id, s)
		assert.Equal(t, fit.StatusInapplicable, e.Status, "model %s", id)
		assert.Equal(t, id, e.Model)
	}
}

func TestPower_InapplicableWithNegativeY(t *testing.T) {
	e := Power(sample(t, []float64{1, 2, 3}, []float64{1, -1, 2}))
	assert.Equal(t, fit.StatusInapplicable, e.Status)
}

func TestQuadratic(t *testing.T) {
	e := Quadratic(sample(t, []float64{1, 2, 3, 4, 5}, []float64{6, 17, 34, 57, 86}))

	assert.InDelta(t, 1, param(t, e, "a"), 1e-6)
	assert.InDelta(t, 2, param(t, e, "b"), 1e-6)
	assert.InDelta(t, 3, param(t, e, "c"), 1e-6)
	assert.Greater(t, e.Result.Metrics.R2, 0.99)
}

func TestQuadratic_LargeOffsetX(t *testing.T) {
	x := []float64{2000, 2001, 2002, 2003, 2004}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = (v - 1999) * (v - 1999)
	}

	e := Quadratic(sample(t, x, y))

	require.True(t, e.OK())
	assert.Less(t, e.Result.Metrics.RMSE, 1e-6)
	assert.InDelta(t, 3996001, param(t, e, "a"), 1e-2)
	assert.InDelta(t, -3998, param(t, e, "b"), 1e-5)
	assert.InDelta(t, 1, param(t, e, "c"), 1e-8)
}

func TestQuadratic_TwoPointsInapplicable(t *testing.T) {
	e := Quadratic(sample(t, []float64{1, 2}, []float64{3, 5}))

	assert.Equal(t, fit.StatusInapplicable, e.Status)
	assert.Contains(t, e.Reason, "at least 3 points")
}

func TestQuadratic_ThreePointsInterpolate(t *testing.T) {
	y := []float64{3, 1, 9}
	e := Quadratic(sample(t, []float64{1, 2, 4}, y))

	require.True(t, e.OK())
	for i, v := range e.Result.Predicted {
		assert.InDelta(t, y[i], v, 1e-9)
	}
	assert.InDelta(t, 0, e.Result.Metrics.MSE, 1e-12)
}

func TestQuadratic_RankDeficientStillFits(t *testing.T) {
	// two distinct x values: infinitely many parabolas pass through the means
	e := Quadratic(sample(t, []float64{1, 1, 2, 2}, []float64{1, 3, 4, 6}))

	require.True(t, e.OK())
	assert.InDelta(t, 2, e.Result.Predicted[0], 1e-9)
	assert.InDelta(t, 5, e.Result.Predicted[2], 1e-9)
}

func TestFit_UnknownFamily(t *testing.T) {
	e := Fit("cubic", sample(t, []float64{1, 2}, []float64{1, 2}))
	assert.Equal(t, fit.StatusFailed, e.Status)
	assert.ErrorIs(t, e.Err, ErrUnknownFamily)
}

func TestFromEstimate_NonFiniteFails(t *testing.T) {
	id := fit.SolverModelID(fit.SolverSGD)
	e := FromEstimate(id, solvers.Estimate{Intercept: 1, Slope: math.Inf(1)}, []float64{1, 2}, []float64{1, 2})

	assert.Equal(t, fit.StatusFailed, e.Status)
	assert.Equal(t, id, e.Model)
	assert.True(t, fit.IsNumericalFailure(e.Err))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		id     fit.ModelID
		params fit.Params
		x      float64
		want   float64
	}{
		{"linear", fit.ModelLinear, fit.Params{{Name: "intercept", Value: 2}, {Name: "slope", Value: 3}}, 2, 8},
		{"solver", fit.SolverModelID(fit.SolverQR), fit.Params{{Name: "intercept", Value: 2}, {Name: "slope", Value: 3}}, 1, 5},
		{"exponential", fit.ModelExponential, fit.Params{{Name: "a", Value: 1}, {Name: "b", Value: 1}}, 0, 1},
		{"power", fit.ModelPower, fit.Params{{Name: "a", Value: 2}, {Name: "b", Value: 3}}, 2, 16},
		{"logarithmic", fit.ModelLogarithmic, fit.Params{{Name: "a", Value: 1}, {Name: "b", Value: 2}}, math.E, 3},
		{"quadratic", fit.ModelQuadratic, fit.Params{{Name: "a", Value: 1}, {Name: "b", Value: 2}, {Name: "c", Value: 3}}, 2, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.id, tt.params, tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := Evaluate(fit.ModelQuadratic, fit.Params{{Name: "a", Value: 1}, {Name: "b", Value: 2}}, 1)
	assert.Error(t, err)

	_, err = Evaluate("cubic", nil, 1)
	assert.ErrorIs(t, err, ErrUnknownFamily)
}
