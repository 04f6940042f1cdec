package solvers

import "math"

// centered returns the means of x and y with Sxx = Σ(x-x̄)² and Sxy = Σ(x-x̄)(y-ȳ).
// Constant x reports exact zeros rather than rounding residue.
func centered(x, y []float64) (xMean, yMean, sxx, sxy float64) {
	xMean = meanOf(x)
	yMean = meanOf(y)
	if isConstant(x) {
		return xMean, yMean, 0, 0
	}
	for i := range x {
		dx := x[i] - xMean
		sxx += dx * dx
		sxy += dx * (y[i] - yMean)
	}
	return xMean, yMean, sxx, sxy
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	default:
		return 0
	}
}

// solveRidge minimizes Σr² + α·slope²; the intercept is not penalized
func solveRidge(x, y []float64, opts Options) (Estimate, error) {
	xMean, yMean, sxx, sxy := centered(x, y)
	slope := 0.0
	if d := sxx + opts.Alpha; d > 0 {
		slope = sxy / d
	}
	return Estimate{Intercept: yMean - slope*xMean, Slope: slope}, nil
}

// solveLasso minimizes (1/2n)Σr² + α|slope|.
// With a single feature one coordinate-descent sweep lands on the exact minimizer.
func solveLasso(x, y []float64, opts Options) (Estimate, error) {
	xMean, yMean, sxx, sxy := centered(x, y)
	n := float64(len(x))
	slope := 0.0
	if sxx > 0 {
		slope = softThreshold(sxy/n, opts.Alpha) / (sxx / n)
	}
	return Estimate{Intercept: yMean - slope*xMean, Slope: slope, Iterations: 1}, nil
}

// solveElasticNet minimizes (1/2n)Σr² + α·ρ|slope| + ½α(1-ρ)slope²
func solveElasticNet(x, y []float64, opts Options) (Estimate, error) {
	xMean, yMean, sxx, sxy := centered(x, y)
	n := float64(len(x))
	l1 := opts.Alpha * opts.L1Ratio
	l2 := opts.Alpha * (1 - opts.L1Ratio)

	slope := 0.0
	if d := sxx/n + l2; d > 0 && !math.IsInf(d, 0) {
		slope = softThreshold(sxy/n, l1) / d
	}
	return Estimate{Intercept: yMean - slope*xMean, Slope: slope, Iterations: 1}, nil
}
