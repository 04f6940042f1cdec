package profiling

import (
	"errors"
	"fmt"
	"math"

	"curvefit/domain/fit"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrNoFit is returned when residuals are requested for an entry without a usable fit
	ErrNoFit = errors.New("entry has no fitted result")
	ErrEmpty = errors.New("empty series")
)

// Summary holds order and moment statistics of a series
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// ResidualProfile describes y - ŷ of one fitted model
type ResidualProfile struct {
	Model    fit.ModelID `json:"model"`
	Summary  Summary     `json:"summary"`
	Skewness float64     `json:"skewness"`
	Kurtosis float64     `json:"excess_kurtosis"`
	// JarqueBeraP is the p-value of the Jarque-Bera normality test
	JarqueBeraP float64 `json:"jarque_bera_p"`
	Outliers    int     `json:"outliers"`
}

// Summarize computes summary statistics of data
func Summarize(data []float64) (Summary, error) {
	s := Summary{Count: len(data)}
	if len(data) == 0 {
		return s, ErrEmpty
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if len(data) == 1 {
		s.Q25, s.Q75 = data[0], data[0]
		return s, nil
	}
	// halves-median quartiles stay defined for the two-point minimum sample
	q, err := stats.Quartile(data)
	if err != nil {
		return s, err
	}
	s.Q25, s.Q75 = q.Q1, q.Q3
	return s, nil
}

// Residuals profiles the residuals of a fitted entry against the observed y
func Residuals(e fit.Entry, y []float64) (ResidualProfile, error) {
	p := ResidualProfile{Model: e.Model}
	if !e.OK() {
		return p, fmt.Errorf("%w: %s is %s", ErrNoFit, e.Model, e.Status)
	}
	if len(y) != len(e.Result.Predicted) {
		return p, fmt.Errorf("%w: %d observations, %d predictions", fit.ErrLengthMismatch, len(y), len(e.Result.Predicted))
	}

	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - e.Result.Predicted[i]
	}

	summary, err := Summarize(residuals)
	if err != nil {
		return p, err
	}
	p.Summary = summary
	p.Skewness, p.Kurtosis = moments(residuals, summary.Mean, summary.StdDev)
	p.JarqueBeraP = jarqueBera(len(residuals), p.Skewness, p.Kurtosis)
	p.Outliers = countOutliers(residuals, summary.Q25, summary.Q75)
	return p, nil
}

// moments returns population skewness and excess kurtosis; both are 0 for a constant series
func moments(data []float64, mean, stdDev float64) (skewness, kurtosis float64) {
	if stdDev == 0 || len(data) < 3 {
		return 0, 0
	}
	n := float64(len(data))
	var m3, m4 float64
	for _, v := range data {
		d := (v - mean) / stdDev
		m3 += d * d * d
		m4 += d * d * d * d
	}
	return m3 / n, m4/n - 3
}

func jarqueBera(n int, skewness, kurtosis float64) float64 {
	jb := float64(n) / 6 * (skewness*skewness + kurtosis*kurtosis/4)
	p := 1 - distuv.ChiSquared{K: 2}.CDF(jb)
	if math.IsNaN(p) {
		return 1
	}
	return p
}

// countOutliers applies the 1.5·IQR fence
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower, upper := q25-1.5*iqr, q75+1.5*iqr

	count := 0
	for _, v := range data {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}
