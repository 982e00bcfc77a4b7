package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalityPValue runs the D'Agostino-Pearson omnibus test: the skewness and
// kurtosis z-scores are squared and summed into K², which is chi-square
// distributed with 2 degrees of freedom under normality. Any non-finite
// intermediate yields nil.
func NormalityPValue(data []float64) *float64 {
	if len(data) < 8 {
		return nil
	}
	zs := skewZ(data)
	zk := kurtosisZ(data)
	k2 := zs*zs + zk*zk
	if !isFinite(k2) {
		return nil
	}
	p := distuv.ChiSquared{K: 2}.Survival(k2)
	if !isFinite(p) {
		return nil
	}
	return &p
}

func skewZ(data []float64) float64 {
	n := float64(len(data))
	b, _ := Moments(data)
	y := b * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	r := y / alpha
	return delta * math.Log(r+math.Sqrt(r*r+1))
}

func kurtosisZ(data []float64) float64 {
	n := float64(len(data))
	m2 := stat.Moment(2, data, nil)
	m4 := stat.Moment(4, data, nil)
	b2 := m4 / (m2 * m2)

	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(v)

	sb1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sb1*(2/sb1+math.Sqrt(1+4/(sb1*sb1)))
	t1 := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den == 0 {
		return math.NaN()
	}
	t2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(den)), den)
	return (t1 - t2) / math.Sqrt(2/(9*a))
}
