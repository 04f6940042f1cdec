package testkit

import (
	"math"
	"math/rand"

	"curvefit/domain/fit"
)

// SampleGeneratorConfig configures the synthetic regression sample generator
type SampleGeneratorConfig struct {
	Points int     `json:"points"`
	XMin   float64 `json:"x_min"`
	XMax   float64 `json:"x_max"`
	Noise  float64 `json:"noise"` // standard deviation of additive gaussian noise
	Seed   int64   `json:"seed"`
}

// DefaultSampleConfig returns a small noiseless sample on [1, 10]
func DefaultSampleConfig() SampleGeneratorConfig {
	return SampleGeneratorConfig{
		Points: 20,
		XMin:   1,
		XMax:   10,
		Noise:  0,
		Seed:   42,
	}
}

// SampleGenerator produces reproducible (x, y) samples following known curves
type SampleGenerator struct {
	config SampleGeneratorConfig
	rng    *rand.Rand
}

// NewSampleGenerator creates a generator seeded from config
func NewSampleGenerator(config SampleGeneratorConfig) *SampleGenerator {
	if config.Points < 2 {
		config.Points = 2
	}
	return &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Grid returns Points evenly spaced x values from XMin to XMax inclusive
func (g *SampleGenerator) Grid() []float64 {
	n := g.config.Points
	step := (g.config.XMax - g.config.XMin) / float64(n-1)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = g.config.XMin + float64(i)*step
	}
	return xs
}

// Curve evaluates f on the grid and adds noise
func (g *SampleGenerator) Curve(f func(float64) float64) (x, y []float64) {
	x = g.Grid()
	y = make([]float64, len(x))
	for i, v := range x {
		y[i] = f(v) + g.noise()
	}
	return x, y
}

// Linear generates y = intercept + slope·x
func (g *SampleGenerator) Linear(intercept, slope float64) (x, y []float64) {
	return g.Curve(func(v float64) float64 { return intercept + slope*v })
}

// Exponential generates y = a·e^(b·x)
func (g *SampleGenerator) Exponential(a, b float64) (x, y []float64) {
	return g.Curve(func(v float64) float64 { return a * math.Exp(b*v) })
}

// Power generates y = a·x^b
func (g *SampleGenerator) Power(a, b float64) (x, y []float64) {
	return g.Curve(func(v float64) float64 { return a * math.Pow(v, b) })
}

// Logarithmic generates y = a + b·ln(x)
func (g *SampleGenerator) Logarithmic(a, b float64) (x, y []float64) {
	return g.Curve(func(v float64) float64 { return a + b*math.Log(v) })
}

// Quadratic generates y = a + b·x + c·x²
func (g *SampleGenerator) Quadratic(a, b, c float64) (x, y []float64) {
	return g.Curve(func(v float64) float64 { return a + b*v + c*v*v })
}

// Sample wraps Linear output in a validated fit.Sample
func (g *SampleGenerator) Sample(intercept, slope float64) fit.Sample {
	x, y := g.Linear(intercept, slope)
	s, err := fit.NewSample(x, y)
	if err != nil {
		panic(err)
	}
	return s
}

func (g *SampleGenerator) noise() float64 {
	if g.config.Noise == 0 {
		return 0
	}
	return g.rng.NormFloat64() * g.config.Noise
}
