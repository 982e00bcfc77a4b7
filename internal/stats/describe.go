package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
)

// Describe computes the statistics block for a column. It returns nil when
// fewer than two finite numeric values exist, or when the core statistics
// overflow, which is a valid result.
func Describe(values []any) *profile.NumericStats {
	data := Finite(values)
	if len(data) < heuristics.MinStatValues {
		return nil
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mean, err := mstats.Mean(data)
	if err != nil {
		return nil
	}
	median, err := mstats.Median(data)
	if err != nil {
		return nil
	}
	std, err := mstats.StandardDeviationSample(data)
	if err != nil {
		return nil
	}
	variance, err := mstats.SampleVariance(data)
	if err != nil {
		return nil
	}
	min, err := mstats.Min(data)
	if err != nil {
		return nil
	}
	max, err := mstats.Max(data)
	if err != nil {
		return nil
	}
	// Finite inputs near the float64 limit can still overflow the sums.
	if !allFinite(mean, median, std, variance, max-min) {
		return nil
	}

	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1

	s := &profile.NumericStats{
		Count:    len(data),
		Mean:     mean,
		Median:   median,
		Std:      std,
		Variance: variance,
		Min:      min,
		Max:      max,
		Q1:       q1,
		Q3:       q3,
		IQR:      iqr,
		Range:    max - min,
	}

	if len(data) >= heuristics.MinMomentValues && std > heuristics.MinMomentStd {
		skew, kurt := Moments(data)
		if isFinite(skew) && isFinite(kurt) {
			s.Skewness = &skew
			s.Kurtosis = &kurt
		}
	}

	s.LowerBound = q1 - heuristics.IQRMultiplier*iqr
	s.UpperBound = q3 + heuristics.IQRMultiplier*iqr
	for _, x := range data {
		if x < s.LowerBound || x > s.UpperBound {
			s.OutlierCount++
		}
	}
	s.OutlierPercentage = float64(s.OutlierCount) / float64(len(data)) * 100

	if len(data) >= heuristics.MinNormalityValues {
		s.NormalityPValue = NormalityPValue(data)
	}

	return s
}

// Moments returns the biased sample skewness and excess kurtosis
// (population moment estimators, no small-sample correction).
func Moments(data []float64) (skewness, kurtosis float64) {
	m2 := stat.Moment(2, data, nil)
	m3 := stat.Moment(3, data, nil)
	m4 := stat.Moment(4, data, nil)
	skewness = m3 / math.Pow(m2, 1.5)
	kurtosis = m4/(m2*m2) - 3
	return skewness, kurtosis
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func allFinite(fs ...float64) bool {
	for _, f := range fs {
		if !isFinite(f) {
			return false
		}
	}
	return true
}
