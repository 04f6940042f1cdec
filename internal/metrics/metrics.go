package metrics

import (
	"fmt"
	"math"

	"curvefit/domain/fit"

	"github.com/montanaflynn/stats"
)

// Evaluate computes R², MSE and RMSE for a prediction.
//
// R² is defined as 0 when y_true has zero variance, rather than dividing by zero.
func Evaluate(yTrue, yPred []float64) (fit.Metrics, error) {
	if len(yTrue) != len(yPred) {
		return fit.Metrics{}, fmt.Errorf("metrics: %d observations but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return fit.Metrics{}, fmt.Errorf("metrics: no observations")
	}

	mean, err := stats.Mean(yTrue)
	if err != nil {
		return fit.Metrics{}, fmt.Errorf("metrics: %w", err)
	}

	var ssRes, ssTot float64
	for i := range yTrue {
		r := yTrue[i] - yPred[i]
		ssRes += r * r
		d := yTrue[i] - mean
		ssTot += d * d
	}

	mse := ssRes / float64(len(yTrue))
	r2 := 0.0
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	}

	return fit.Metrics{
		R2:   r2,
		MSE:  mse,
		RMSE: math.Sqrt(mse),
	}, nil
}

// MSE is the mean squared residual
func MSE(yTrue, yPred []float64) (float64, error) {
	m, err := Evaluate(yTrue, yPred)
	return m.MSE, err
}
