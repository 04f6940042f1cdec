package families

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"curvefit/domain/fit"
	"curvefit/internal/metrics"
	"curvefit/internal/solvers"

	"gonum.org/v1/gonum/mat"
)

// ErrUnknownFamily is returned for model ids outside the family library
var ErrUnknownFamily = errors.New("unknown model family")

// QuadraticMinPoints is the smallest sample the quadratic family accepts
const QuadraticMinPoints = 3

// Fit estimates the named family on s.
// The result is always an entry: Fitted, Inapplicable when the sample is outside the
// family's domain, or Failed when estimation produced non-finite numbers.
func Fit(id fit.ModelID, s fit.Sample) fit.Entry {
	switch id {
	case fit.ModelLinear:
		return Linear(s)
	case fit.ModelExponential:
		return Exponential(s)
	case fit.ModelPower:
		return Power(s)
	case fit.ModelLogarithmic:
		return Logarithmic(s)
	case fit.ModelQuadratic:
		return Quadratic(s)
	default:
		return fit.Failed(id, fmt.Errorf("%w: %s", ErrUnknownFamily, id))
	}
}

// Linear fits y = intercept + slope·x with the reference OLS
func Linear(s fit.Sample) fit.Entry {
	x, y := s.X(), s.Y()
	est := solvers.OLS(x, y)
	return finish(fit.ModelLinear, est.Params(), x, y)
}

// Exponential fits y = a·e^(b·x) by regressing ln y on x
func Exponential(s fit.Sample) fit.Entry {
	x, y := s.X(), s.Y()
	if !allPositive(y) {
		return fit.Inapplicable(fit.ModelExponential, "requires all y > 0")
	}
	est := solvers.OLS(x, logs(y))
	return finish(fit.ModelExponential, fit.Params{
		{Name: "a", Value: math.Exp(est.Intercept)},
		{Name: "b", Value: est.Slope},
	}, x, y)
}

// Power fits y = a·x^b by regressing ln y on ln x
func Power(s fit.Sample) fit.Entry {
	x, y := s.X(), s.Y()
	if !allPositive(x) || !allPositive(y) {
		return fit.Inapplicable(fit.ModelPower, "requires all x > 0 and y > 0")
	}
	est := solvers.OLS(logs(x), logs(y))
	return finish(fit.ModelPower, fit.Params{
		{Name: "a", Value: math.Exp(est.Intercept)},
		{Name: "b", Value: est.Slope},
	}, x, y)
}

// Logarithmic fits y = a + b·ln(x)
func Logarithmic(s fit.Sample) fit.Entry {
	x, y := s.X(), s.Y()
	if !allPositive(x) {
		return fit.Inapplicable(fit.ModelLogarithmic, "requires all x > 0")
	}
	est := solvers.OLS(logs(x), y)
	return finish(fit.ModelLogarithmic, fit.Params{
		{Name: "a", Value: est.Intercept},
		{Name: "b", Value: est.Slope},
	}, x, y)
}

// Quadratic fits y = a + b·x + c·x² by least squares on [1, z, z²] with z the standardized x,
// then expands the coefficients back to x.
// Fewer than three distinct x values still yield the minimum-norm solution.
func Quadratic(s fit.Sample) fit.Entry {
	x, y := s.X(), s.Y()
	if len(x) < QuadraticMinPoints {
		return fit.Inapplicable(fit.ModelQuadratic, fmt.Sprintf("requires at least %d points", QuadraticMinPoints))
	}

	zs, mean, scale := solvers.Condition(x)
	design := mat.NewDense(len(zs), 3, nil)
	for i, z := range zs {
		design.Set(i, 0, 1)
		design.Set(i, 1, z)
		design.Set(i, 2, z*z)
	}

	theta, err := solvers.LeastSquares(design, y)
	if err != nil {
		return fit.Failed(fit.ModelQuadratic, fit.NewNumericalFailure(fit.ModelQuadratic, err))
	}

	// z = (x - mean)/scale
	c := theta[2] / (scale * scale)
	b := theta[1]/scale - 2*c*mean
	a := theta[0] - theta[1]*mean/scale + c*mean*mean
	return finish(fit.ModelQuadratic, fit.Params{
		{Name: "a", Value: a},
		{Name: "b", Value: b},
		{Name: "c", Value: c},
	}, x, y)
}

// FromEstimate scores a linear estimate produced by a solver strategy
func FromEstimate(model fit.ModelID, est solvers.Estimate, x, y []float64) fit.Entry {
	return finish(model, est.Params(), x, y)
}

// Evaluate computes a fitted family at x.
// Solver results reported under linear/<solver> evaluate as linear.
func Evaluate(id fit.ModelID, params fit.Params, x float64) (float64, error) {
	switch Base(id) {
	case fit.ModelLinear:
		intercept, slope, err := pair(params, "intercept", "slope")
		if err != nil {
			return 0, err
		}
		return intercept + slope*x, nil
	case fit.ModelExponential:
		a, b, err := pair(params, "a", "b")
		if err != nil {
			return 0, err
		}
		return a * math.Exp(b*x), nil
	case fit.ModelPower:
		a, b, err := pair(params, "a", "b")
		if err != nil {
			return 0, err
		}
		return a * math.Pow(x, b), nil
	case fit.ModelLogarithmic:
		a, b, err := pair(params, "a", "b")
		if err != nil {
			return 0, err
		}
		return a + b*math.Log(x), nil
	case fit.ModelQuadratic:
		a, b, err := pair(params, "a", "b")
		if err != nil {
			return 0, err
		}
		c, ok := params.Get("c")
		if !ok {
			return 0, fmt.Errorf("quadratic: missing parameter c")
		}
		return a + b*x + c*x*x, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFamily, id)
	}
}

// Predict evaluates a fitted family at every x
func Predict(id fit.ModelID, params fit.Params, xs []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		v, err := Evaluate(id, params, x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func finish(model fit.ModelID, params fit.Params, x, y []float64) fit.Entry {
	if !params.Finite() {
		return fit.Failed(model, fit.NewNumericalFailure(model, errors.New("non-finite parameters")))
	}

	predicted, err := Predict(model, params, x)
	if err != nil {
		return fit.Failed(model, fit.NewNumericalFailure(model, err))
	}
	for i, v := range predicted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fit.Failed(model, fit.NewNumericalFailure(model, fmt.Errorf("non-finite prediction at x=%g", x[i])))
		}
	}

	m, err := metrics.Evaluate(y, predicted)
	if err != nil {
		return fit.Failed(model, fit.NewNumericalFailure(model, err))
	}
	if !m.Finite() {
		return fit.Failed(model, fit.NewNumericalFailure(model, errors.New("non-finite metrics")))
	}

	return fit.Fitted(fit.FitResult{
		Model:     model,
		Params:    params,
		Predicted: predicted,
		Metrics:   m,
	})
}

// Base strips a solver suffix: "linear/qr" belongs to the "linear" family
func Base(id fit.ModelID) fit.ModelID {
	family, _, _ := strings.Cut(string(id), "/")
	return fit.ModelID(family)
}

func pair(params fit.Params, first, second string) (float64, float64, error) {
	a, ok := params.Get(first)
	if !ok {
		return 0, 0, fmt.Errorf("missing parameter %s", first)
	}
	b, ok := params.Get(second)
	if !ok {
		return 0, 0, fmt.Errorf("missing parameter %s", second)
	}
	return a, b, nil
}

func allPositive(v []float64) bool {
	for _, x := range v {
		if x <= 0 {
			return false
		}
	}
	return true
}

func logs(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Log(x)
	}
	return out
}
