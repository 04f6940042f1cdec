package solvers

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
)

// standardize returns (x - mean) / std using the population standard deviation.
// Constant x has zero spread, so the scale falls back to 1.
func standardize(x []float64) (scaled []float64, mean, scale float64) {
	mean = meanOf(x)
	scale = 1
	if !isConstant(x) {
		if sd, err := stats.StandardDeviationPopulation(x); err == nil && sd > 0 {
			scale = sd
		}
	}
	scaled = make([]float64, len(x))
	for i, v := range x {
		scaled[i] = (v - mean) / scale
	}
	return scaled, mean, scale
}

// destandardize maps weights learned on standardized x back to the original units
func destandardize(w, b, mean, scale float64) Estimate {
	slope := w / scale
	return Estimate{Intercept: b - slope*mean, Slope: slope}
}

func squaredLoss(xs, y []float64, w, b float64) float64 {
	var sum float64
	for i := range xs {
		r := w*xs[i] + b - y[i]
		sum += r * r
	}
	return sum / float64(len(xs))
}

// solveBatchGD runs a fixed number of full-gradient steps on the mean squared error.
// There is no convergence check; the step budget is the only stopping rule.
func solveBatchGD(x, y []float64, opts Options) (Estimate, error) {
	xs, mean, scale := standardize(x)
	n := float64(len(xs))
	lr := opts.GDLearningRate

	var w, b float64
	initial := squaredLoss(xs, y, w, b)

	for it := 0; it < opts.GDIterations; it++ {
		var gw, gb float64
		for i := range xs {
			r := w*xs[i] + b - y[i]
			gw += r * xs[i]
			gb += r
		}
		w -= lr * 2 / n * gw
		b -= lr * 2 / n * gb
	}

	final := squaredLoss(xs, y, w, b)
	if math.IsNaN(final) || math.IsInf(final, 0) || final > initial {
		return Estimate{}, ErrDiverged
	}

	est := destandardize(w, b, mean, scale)
	est.Iterations = opts.GDIterations
	return est, nil
}

// solveSGD updates on one shuffled sample at a time. Each epoch is a fresh permutation
// from a generator seeded with opts.Seed, so runs are reproducible. It stops early once
// no parameter moved by more than SGDTolerance (relative) over a whole epoch.
func solveSGD(x, y []float64, opts Options) (Estimate, error) {
	xs, mean, scale := standardize(x)
	lr := opts.SGDLearningRate
	rng := rand.New(rand.NewSource(opts.Seed))

	var w, b float64
	epochs := 0
	for epochs < opts.SGDMaxEpochs {
		epochs++
		prevW, prevB := w, b

		for _, i := range rng.Perm(len(xs)) {
			r := w*xs[i] + b - y[i]
			w -= lr * 2 * r * xs[i]
			b -= lr * 2 * r
		}

		if math.IsNaN(w) || math.IsInf(w, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
			return Estimate{}, ErrDiverged
		}

		ref := math.Max(1, math.Max(math.Abs(w), math.Abs(b)))
		if math.Max(math.Abs(w-prevW), math.Abs(b-prevB)) < opts.SGDTolerance*ref {
			break
		}
	}

	est := destandardize(w, b, mean, scale)
	est.Iterations = epochs
	return est, nil
}
