package ranking

import (
	"sort"

	"curvefit/domain/fit"
)

// Best returns the fitted entry with the lowest RMSE.
// Ties go to the entry inserted first. The boolean is false when nothing was fitted.
func Best(rs *fit.ResultSet) (fit.Entry, bool) {
	var (
		best  fit.Entry
		found bool
	)
	for _, e := range rs.Entries() {
		if !e.OK() {
			continue
		}
		if !found || e.Result.Metrics.RMSE < best.Result.Metrics.RMSE {
			best, found = e, true
		}
	}
	return best, found
}

// Order lists the fitted entries by RMSE ascending, keeping insertion order among equals
func Order(rs *fit.ResultSet) []fit.Entry {
	var fitted []fit.Entry
	for _, e := range rs.Entries() {
		if e.OK() {
			fitted = append(fitted, e)
		}
	}
	sort.SliceStable(fitted, func(i, j int) bool {
		return fitted[i].Result.Metrics.RMSE < fitted[j].Result.Metrics.RMSE
	})
	return fitted
}
