package solvers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"curvefit/domain/fit"
)

// DefaultAlpha replaces any invalid regularization strength
const DefaultAlpha = 1.0

// Solver failure causes. Every failure also matches fit.ErrNumericalFailure.
var (
	ErrSingular      = errors.New("singular or ill-conditioned system")
	ErrDiverged      = errors.New("gradient descent diverged")
	ErrNonFinite     = errors.New("non-finite estimate")
	ErrUnknownSolver = errors.New("unknown solver")
)

// Options tunes the iterative and regularized strategies
type Options struct {
	Alpha           float64 // penalty for ridge, lasso and elastic net
	L1Ratio         float64 // elastic net L1/L2 mix
	GDIterations    int
	GDLearningRate  float64
	SGDMaxEpochs    int
	SGDLearningRate float64
	SGDTolerance    float64 // early stop on relative parameter change per epoch
	Seed            int64   // SGD shuffling
	ConditionLimit  float64 // QR and LU reject systems above this condition number
}

// DefaultOptions returns the settings used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Alpha:           DefaultAlpha,
		L1Ratio:         0.5,
		GDIterations:    1000,
		GDLearningRate:  0.1,
		SGDMaxEpochs:    1000,
		SGDLearningRate: 0.01,
		SGDTolerance:    1e-12,
		Seed:            42,
		ConditionLimit:  1e12,
	}
}

// WithAlpha returns a copy using alpha, or DefaultAlpha when alpha is negative or not finite.
// The boolean reports whether the fallback was applied.
func (o Options) WithAlpha(alpha float64) (Options, bool) {
	if !validAlpha(alpha) {
		o.Alpha = DefaultAlpha
		return o, true
	}
	o.Alpha = alpha
	return o, false
}

// fill replaces unset tuning fields with defaults. Alpha is left alone since 0 is valid.
func (o Options) fill() Options {
	d := DefaultOptions()
	if o.L1Ratio <= 0 || o.L1Ratio > 1 {
		o.L1Ratio = d.L1Ratio
	}
	if o.GDIterations <= 0 {
		o.GDIterations = d.GDIterations
	}
	if o.GDLearningRate <= 0 {
		o.GDLearningRate = d.GDLearningRate
	}
	if o.SGDMaxEpochs <= 0 {
		o.SGDMaxEpochs = d.SGDMaxEpochs
	}
	if o.SGDLearningRate <= 0 {
		o.SGDLearningRate = d.SGDLearningRate
	}
	if o.SGDTolerance <= 0 {
		o.SGDTolerance = d.SGDTolerance
	}
	if o.ConditionLimit <= 0 {
		o.ConditionLimit = d.ConditionLimit
	}
	if !validAlpha(o.Alpha) {
		o.Alpha = DefaultAlpha
	}
	return o
}

// ParseAlpha reads a regularization strength from user text.
// Empty, non-numeric, negative or non-finite input yields DefaultAlpha and fellBack = true.
func ParseAlpha(text string) (alpha float64, fellBack bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !validAlpha(v) {
		return DefaultAlpha, true
	}
	return v, false
}

func validAlpha(a float64) bool {
	return a >= 0 && !math.IsInf(a, 0) && !math.IsNaN(a)
}

// Estimate is an (intercept, slope) answer from one strategy
type Estimate struct {
	Intercept  float64 `json:"intercept"`
	Slope      float64 `json:"slope"`
	Iterations int     `json:"iterations,omitempty"`
}

// Params returns the estimate as fitted-model coefficients
func (e Estimate) Params() fit.Params {
	return fit.Params{
		{Name: "intercept", Value: e.Intercept},
		{Name: "slope", Value: e.Slope},
	}
}

// Predict evaluates intercept + slope·x for every x
func (e Estimate) Predict(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = e.Intercept + e.Slope*v
	}
	return out
}

func (e Estimate) finite() bool {
	return !math.IsNaN(e.Intercept) && !math.IsInf(e.Intercept, 0) &&
		!math.IsNaN(e.Slope) && !math.IsInf(e.Slope, 0)
}

// Failure reports a strategy that could not produce a finite estimate
type Failure struct {
	Solver fit.SolverID
	Cause  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", fit.ErrNumericalFailure, f.Solver, f.Cause)
}

// Unwrap exposes both the numerical-failure class and the specific cause
func (f *Failure) Unwrap() []error {
	return []error{fit.ErrNumericalFailure, f.Cause}
}

// Outcome pairs a solver with its estimate or failure
type Outcome struct {
	Solver   fit.SolverID
	Estimate Estimate
	Err      error
}

type strategy func(x, y []float64, opts Options) (Estimate, error)

type registration struct {
	id    fit.SolverID
	solve strategy
}

// registry fixes the suite order; ranking ties resolve in this order
var registry = []registration{
	{fit.SolverOLS, solveOLS},
	{fit.SolverNormalEquation, solveNormalEquation},
	{fit.SolverSVD, solveSVD},
	{fit.SolverQR, solveQR},
	{fit.SolverLU, solveLU},
	{fit.SolverBatchGD, solveBatchGD},
	{fit.SolverSGD, solveSGD},
	{fit.SolverRidge, solveRidge},
	{fit.SolverLasso, solveLasso},
	{fit.SolverElasticNet, solveElasticNet},
}

// Suite runs the interchangeable strategies with one set of options
type Suite struct {
	opts Options
}

// NewSuite creates a suite; unset tuning fields take their defaults
func NewSuite(opts Options) *Suite {
	return &Suite{opts: opts.fill()}
}

// Options returns the effective options
func (s *Suite) Options() Options {
	return s.opts
}

// IDs lists every solver in suite order
func IDs() []fit.SolverID {
	ids := make([]fit.SolverID, len(registry))
	for i, r := range registry {
		ids[i] = r.id
	}
	return ids
}

// IDs lists every solver in suite order
func (s *Suite) IDs() []fit.SolverID {
	return IDs()
}

// Solve runs a single strategy.
// Input errors are returned as-is; numerical breakdowns come back as *Failure.
func (s *Suite) Solve(id fit.SolverID, x, y []float64) (Estimate, error) {
	if err := checkInput(x, y); err != nil {
		return Estimate{}, err
	}
	for _, r := range registry {
		if r.id == id {
			return run(r, x, y, s.opts)
		}
	}
	return Estimate{}, fmt.Errorf("%w: %s", ErrUnknownSolver, id)
}

// SolveAll runs every strategy in suite order. A failure in one never stops the others.
func (s *Suite) SolveAll(x, y []float64) []Outcome {
	outcomes := make([]Outcome, len(registry))
	inputErr := checkInput(x, y)
	for i, r := range registry {
		outcomes[i].Solver = r.id
		if inputErr != nil {
			outcomes[i].Err = inputErr
			continue
		}
		outcomes[i].Estimate, outcomes[i].Err = run(r, x, y, s.opts)
	}
	return outcomes
}

func run(r registration, x, y []float64, opts Options) (Estimate, error) {
	est, err := r.solve(x, y, opts)
	if err != nil {
		return Estimate{}, &Failure{Solver: r.id, Cause: err}
	}
	if !est.finite() {
		return Estimate{}, &Failure{Solver: r.id, Cause: ErrNonFinite}
	}
	return est, nil
}

func checkInput(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d x values, %d y values", fit.ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("%w: need at least 2 pairs, got %d", fit.ErrInsufficientData, len(x))
	}
	return nil
}
