package engine

import (
	"math"

	"curvefit/domain/fit"
	"curvefit/internal/families"
	"curvefit/internal/solvers"
)

// Config controls one FitAll call
type Config struct {
	// Alpha is the shared ridge/lasso/elastic-net strength. Nil means solvers.DefaultAlpha;
	// negative or non-finite values fall back to it and the ResultSet records the fallback.
	Alpha *float64

	// IncludeSolvers adds every solver strategy as linear/<solver>
	IncludeSolvers bool

	// Solver tunes the iterative strategies; Alpha above overrides Solver.Alpha
	Solver solvers.Options
}

// DefaultConfig fits families and solvers with default settings
func DefaultConfig() Config {
	return Config{
		IncludeSolvers: true,
		Solver:         solvers.DefaultOptions(),
	}
}

// WithAlphaText parses user-supplied alpha text into the config.
// Unparseable text is carried as NaN so FitAll substitutes the default and reports it.
func (c Config) WithAlphaText(text string) Config {
	alpha, fellBack := solvers.ParseAlpha(text)
	if fellBack {
		alpha = math.NaN()
	}
	c.Alpha = &alpha
	return c
}

// FitAll fits every model family and, when configured, every solver strategy.
// Only invalid input is an error; per-model outcomes live in the returned set.
func FitAll(x, y []float64, cfg Config) (*fit.ResultSet, error) {
	sample, err := fit.NewSample(x, y)
	if err != nil {
		return nil, err
	}

	opts, fellBack := cfg.Solver.WithAlpha(solvers.DefaultAlpha)
	if cfg.Alpha != nil {
		opts, fellBack = cfg.Solver.WithAlpha(*cfg.Alpha)
	}

	b := fit.NewResultSetBuilder(opts.Alpha, fellBack)
	for _, id := range fit.Families() {
		b.Add(families.Fit(id, sample))
	}

	if cfg.IncludeSolvers {
		sx, sy := sample.X(), sample.Y()
		for _, out := range solvers.NewSuite(opts).SolveAll(sx, sy) {
			id := fit.SolverModelID(out.Solver)
			if out.Err != nil {
				b.Add(fit.Failed(id, out.Err))
				continue
			}
			b.Add(families.FromEstimate(id, out.Estimate, sx, sy))
		}
	}

	return b.Build(), nil
}
