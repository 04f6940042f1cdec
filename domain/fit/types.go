package fit

import (
	"fmt"
	"math"
)

// ModelID identifies one candidate in a ResultSet
type ModelID string

// Model family identifiers
const (
	ModelLinear      ModelID = "linear"
	ModelExponential ModelID = "exponential"
	ModelPower       ModelID = "power"
	ModelLogarithmic ModelID = "logarithmic"
	ModelQuadratic   ModelID = "quadratic"
)

// Families returns every model family in the order the aggregator fits them
func Families() []ModelID {
	return []ModelID{ModelLinear, ModelExponential, ModelPower, ModelLogarithmic, ModelQuadratic}
}

// SolverID names an estimation strategy for intercept + slope·x
type SolverID string

// Solver identifiers
const (
	SolverOLS            SolverID = "ols"
	SolverNormalEquation SolverID = "normal_equation"
	SolverSVD            SolverID = "svd"
	SolverQR             SolverID = "qr"
	SolverLU             SolverID = "lu"
	SolverBatchGD        SolverID = "batch_gd"
	SolverSGD            SolverID = "sgd"
	SolverRidge          SolverID = "ridge"
	SolverLasso          SolverID = "lasso"
	SolverElasticNet     SolverID = "elastic_net"
)

// SolverModelID is the ResultSet key under which a solver's linear fit is reported
func SolverModelID(id SolverID) ModelID {
	return ModelID(string(ModelLinear) + "/" + string(id))
}

// Sample is a validated, immutable (x, y) pair of sequences
type Sample struct {
	x []float64
	y []float64
}

// NewSample validates and copies x and y.
// Lengths must match, n must be at least 2 and every value must be finite.
func NewSample(x, y []float64) (Sample, error) {
	if len(x) != len(y) {
		return Sample{}, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return Sample{}, fmt.Errorf("%w: need at least 2 pairs, got %d", ErrInsufficientData, len(x))
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return Sample{}, fmt.Errorf("%w: x[%d] is not finite", ErrInvalidSample, i)
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return Sample{}, fmt.Errorf("%w: y[%d] is not finite", ErrInvalidSample, i)
		}
	}
	return Sample{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
	}, nil
}

// Len returns the number of pairs
func (s Sample) Len() int { return len(s.x) }

// X returns a copy of the x values
func (s Sample) X() []float64 { return append([]float64(nil), s.x...) }

// Y returns a copy of the y values
func (s Sample) Y() []float64 { return append([]float64(nil), s.y...) }

// Param is one named coefficient of a fitted model
type Param struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Params is the ordered coefficient set of a fitted model
type Params []Param

// Get looks up a coefficient by name
func (p Params) Get(name string) (float64, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return 0, false
}

// Finite reports whether every coefficient is a finite number
func (p Params) Finite() bool {
	for _, param := range p {
		if math.IsNaN(param.Value) || math.IsInf(param.Value, 0) {
			return false
		}
	}
	return true
}

// Metrics holds goodness-of-fit measures
type Metrics struct {
	R2   float64 `json:"r2"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
}

// Finite reports whether all three measures are finite
func (m Metrics) Finite() bool {
	for _, v := range []float64{m.R2, m.MSE, m.RMSE} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FitResult is a successful fit of one model
type FitResult struct {
	Model     ModelID   `json:"model"`
	Params    Params    `json:"params"`
	Predicted []float64 `json:"predicted"`
	Metrics   Metrics   `json:"metrics"`
}

// Status tags the outcome of fitting one model
type Status int

const (
	StatusFitted Status = iota
	StatusInapplicable
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFitted:
		return "fitted"
	case StatusInapplicable:
		return "inapplicable"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusFitted, StatusInapplicable, StatusFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Entry is the outcome for one model id: exactly one of fitted, inapplicable or failed
type Entry struct {
	Model  ModelID    `json:"model"`
	Status Status     `json:"status"`
	Result *FitResult `json:"result,omitempty"`
	Reason string     `json:"reason,omitempty"`
	Err    error      `json:"-"`
}

// Fitted wraps a successful result
func Fitted(res FitResult) Entry {
	return Entry{Model: res.Model, Status: StatusFitted, Result: &res}
}

// Inapplicable marks a model whose domain the sample violates
func Inapplicable(model ModelID, reason string) Entry {
	return Entry{Model: model, Status: StatusInapplicable, Reason: reason}
}

// Failed marks a model whose estimation broke down numerically
func Failed(model ModelID, err error) Entry {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return Entry{Model: model, Status: StatusFailed, Reason: reason, Err: err}
}

// OK reports whether the entry carries a usable fit
func (e Entry) OK() bool {
	return e.Status == StatusFitted && e.Result != nil
}

// ResultSet maps model ids to entries, preserving insertion order.
// It is only built by ResultSetBuilder and never modified afterwards.
type ResultSet struct {
	entries       []Entry
	index         map[ModelID]int
	alpha         float64
	alphaFallback bool
}

// Get returns the entry for a model id
func (rs *ResultSet) Get(model ModelID) (Entry, bool) {
	if rs == nil {
		return Entry{}, false
	}
	i, ok := rs.index[model]
	if !ok {
		return Entry{}, false
	}
	return rs.entries[i], true
}

// Entries returns all entries in insertion order
func (rs *ResultSet) Entries() []Entry {
	if rs == nil {
		return nil
	}
	return append([]Entry(nil), rs.entries...)
}

// Len returns the number of entries
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.entries)
}

// Alpha is the regularization strength that was applied
func (rs *ResultSet) Alpha() float64 { return rs.alpha }

// AlphaFallback reports whether the requested alpha was invalid and replaced by the default
func (rs *ResultSet) AlphaFallback() bool { return rs.alphaFallback }

// ResultSetBuilder assembles a ResultSet; Build hands over ownership
type ResultSetBuilder struct {
	rs *ResultSet
}

// NewResultSetBuilder starts an empty set
func NewResultSetBuilder(alpha float64, alphaFallback bool) *ResultSetBuilder {
	return &ResultSetBuilder{rs: &ResultSet{
		index:         make(map[ModelID]int),
		alpha:         alpha,
		alphaFallback: alphaFallback,
	}}
}

// Add appends an entry. A repeated model id replaces the earlier entry in place.
func (b *ResultSetBuilder) Add(e Entry) {
	if i, ok := b.rs.index[e.Model]; ok {
		b.rs.entries[i] = e
		return
	}
	b.rs.index[e.Model] = len(b.rs.entries)
	b.rs.entries = append(b.rs.entries, e)
}

// Build returns the finished set; the builder must not be reused
func (b *ResultSetBuilder) Build() *ResultSet {
	rs := b.rs
	b.rs = nil
	return rs
}
