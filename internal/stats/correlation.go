package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Pearson returns the correlation coefficient of paired samples. Fewer than
// two pairs or a zero-variance side yields 0.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// PairedFinite keeps the rows where both cells are finite numbers.
func PairedFinite(a, b []any) (xs, ys []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, okx := ToFloat(a[i])
		y, oky := ToFloat(b[i])
		if !okx || !oky || !isFinite(x) || !isFinite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}
