package solvers

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// singularCutoff is the relative threshold below which singular values are treated as zero
const singularCutoff = 1e-12

// OLS is the reference ordinary least squares line.
// When every x is identical the slope is 0 and the intercept is mean(y), the minimum-norm answer.
func OLS(x, y []float64) Estimate {
	if isConstant(x) {
		return Estimate{Intercept: meanOf(y)}
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	return Estimate{Intercept: intercept, Slope: slope}
}

func solveOLS(x, y []float64, _ Options) (Estimate, error) {
	return OLS(x, y), nil
}

// Condition standardizes x ahead of a closed-form solve so that a large offset, such as
// calendar years, does not make the intercept column nearly parallel to x.
// Constant x is returned unchanged with mean 0 and scale 1, keeping the raw rank-deficient
// design and its minimum-norm answer.
func Condition(x []float64) (scaled []float64, mean, scale float64) {
	if isConstant(x) {
		return x, 0, 1
	}
	return standardize(x)
}

// solveNormalEquation computes θ = pinv(XᵀX)·Xᵀy on conditioned x
func solveNormalEquation(x, y []float64, _ Options) (Estimate, error) {
	xs, mean, scale := Condition(x)
	X := designMatrix(xs)
	yv := mat.NewVecDense(len(y), append([]float64(nil), y...))

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xty mat.VecDense
	xty.MulVec(X.T(), yv)

	pinv, err := pseudoInverse(&xtx)
	if err != nil {
		return Estimate{}, err
	}

	var theta mat.VecDense
	theta.MulVec(pinv, &xty)
	return destandardize(theta.AtVec(1), theta.AtVec(0), mean, scale), nil
}

// solveSVD decomposes the design matrix and applies singular value reciprocals,
// skipping values that are zero relative to the largest one.
func solveSVD(x, y []float64, _ Options) (Estimate, error) {
	xs, mean, scale := Condition(x)
	theta, err := LeastSquares(designMatrix(xs), y)
	if err != nil {
		return Estimate{}, err
	}
	return destandardize(theta[1], theta[0], mean, scale), nil
}

// solveQR solves R·θ = Qᵀy from a QR factorization of the design matrix
func solveQR(x, y []float64, opts Options) (Estimate, error) {
	xs, mean, scale := Condition(x)
	X := designMatrix(xs)

	var qr mat.QR
	qr.Factorize(X)
	if c := qr.Cond(); math.IsNaN(c) || c > opts.ConditionLimit {
		return Estimate{}, ErrSingular
	}

	var theta mat.VecDense
	yv := mat.NewVecDense(len(y), append([]float64(nil), y...))
	if err := qr.SolveVecTo(&theta, false, yv); err != nil {
		return Estimate{}, err
	}
	return destandardize(theta.AtVec(1), theta.AtVec(0), mean, scale), nil
}

// solveLU solves (XᵀX)·θ = Xᵀy through an LU factorization
func solveLU(x, y []float64, opts Options) (Estimate, error) {
	xs, mean, scale := Condition(x)
	X := designMatrix(xs)
	yv := mat.NewVecDense(len(y), append([]float64(nil), y...))

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xty mat.VecDense
	xty.MulVec(X.T(), yv)

	var lu mat.LU
	lu.Factorize(&xtx)
	if c := lu.Cond(); math.IsNaN(c) || c > opts.ConditionLimit {
		return Estimate{}, ErrSingular
	}

	var theta mat.VecDense
	if err := lu.SolveVecTo(&theta, false, &xty); err != nil {
		return Estimate{}, err
	}
	return destandardize(theta.AtVec(1), theta.AtVec(0), mean, scale), nil
}

// designMatrix builds the bias-augmented n×2 matrix [1, x]
func designMatrix(x []float64) *mat.Dense {
	X := mat.NewDense(len(x), 2, nil)
	for i, v := range x {
		X.Set(i, 0, 1)
		X.Set(i, 1, v)
	}
	return X
}

// pseudoInverse returns the Moore-Penrose inverse of a via SVD
func pseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSingular
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	cutoff := singularCutoff * values[0]
	inv := mat.NewDiagDense(len(values), nil)
	for i, s := range values {
		if s > cutoff {
			inv.SetDiag(i, 1/s)
		}
	}

	var vs mat.Dense
	vs.Mul(&v, inv)
	var pinv mat.Dense
	pinv.Mul(&vs, u.T())
	return &pinv, nil
}

// LeastSquares solves min ‖A·θ − b‖ through the thin SVD of A, θ = V·Σ⁺·Uᵀb.
// Singular values below the relative cutoff contribute nothing, so a rank-deficient A
// yields the minimum-norm solution instead of dividing by zero.
func LeastSquares(a *mat.Dense, b []float64) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSingular
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	var utb mat.VecDense
	utb.MulVec(u.T(), mat.NewVecDense(len(b), append([]float64(nil), b...)))

	cutoff := singularCutoff * values[0]
	scaled := mat.NewVecDense(len(values), nil)
	for i, s := range values {
		if s > cutoff {
			scaled.SetVec(i, utb.AtVec(i)/s)
		}
	}

	var theta mat.VecDense
	theta.MulVec(&v, scaled)
	out := make([]float64, theta.Len())
	for i := range out {
		out[i] = theta.AtVec(i)
	}
	return out, nil
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

func meanOf(v []float64) float64 {
	m, err := stats.Mean(v)
	if err != nil {
		return math.NaN()
	}
	return m
}
