package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomlready/domain/advice"
	"gomlready/domain/profile"
	"gomlready/domain/task"
)

func f64(v float64) *float64 { return &v }

func techniques(items []advice.FeatureSuggestion, column string) []string {
	var out []string
	for _, s := range items {
		if s.Column == column {
			out = append(out, s.Technique)
		}
	}
	return out
}

func find(t *testing.T, items []advice.FeatureSuggestion, column, technique string) advice.FeatureSuggestion {
	t.Helper()
	for _, s := range items {
		if s.Column == column && s.Technique == technique {
			return s
		}
	}
	t.Fatalf("no %q suggestion for column %q", technique, column)
	return advice.FeatureSuggestion{}
}

func report(profiles ...profile.ColumnProfile) *profile.QualityReport {
	return &profile.QualityReport{Profiles: profiles}
}

func TestIdentifierOnlyDropped(t *testing.T) {
	got := Suggest(report(profile.ColumnProfile{Name: "id", Type: profile.TypeIdentifier, Unique: 1000, NullPercentage: 30}), nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Drop Column", got[0].Technique)
	assert.Equal(t, advice.PriorityHigh, got[0].Priority)
	assert.Equal(t, "ID column with no predictive value", got[0].Reason)
	assert.Equal(t, "drop_column", got[0].Snippet.Operation)
}

func TestNumericMissingUsesMeanWithoutOutliers(t *testing.T) {
	p := profile.ColumnProfile{
		Name: "income", Type: profile.TypeNumeric, Unique: 8, NullPercentage: 25,
		Stats: &profile.NumericStats{OutlierPercentage: 0},
	}
	got := Suggest(report(p), nil)

	imputation := find(t, got, "income", "Imputation (mean)")
	assert.Equal(t, advice.PriorityHigh, imputation.Priority)
	assert.Equal(t, "25.0% missing, mean suitable for normal distribution", imputation.Reason)
	assert.Equal(t, "mean", imputation.Snippet.Params["strategy"])

	indicator := find(t, got, "income", "Missing Value Indicator")
	assert.Equal(t, advice.PriorityMedium, indicator.Priority)
	assert.NotContains(t, techniques(got, "income"), "Imputation (median)")
}

func TestNumericMissingPriorityAndMedian(t *testing.T) {
	p := profile.ColumnProfile{
		Name: "x", Type: profile.TypeContinuous, Unique: 40, NullPercentage: 10,
		Stats: &profile.NumericStats{OutlierPercentage: 7.5},
	}
	got := Suggest(report(p), nil)

	imputation := find(t, got, "x", "Imputation (median)")
	assert.Equal(t, advice.PriorityMedium, imputation.Priority)
	robust := find(t, got, "x", "Robust Scaling")
	assert.Equal(t, advice.PriorityHigh, robust.Priority)
	assert.Equal(t, "7.5% outliers detected", robust.Reason)
}

func TestMostlyMissingStillGetsTypeAdvice(t *testing.T) {
	p := profile.ColumnProfile{
		Name: "sparse", Type: profile.TypeNumeric, Unique: 5, NullPercentage: 60,
		Stats: &profile.NumericStats{},
	}
	got := Suggest(report(p), nil)

	drop := find(t, got, "sparse", "Consider Dropping")
	assert.Equal(t, advice.PriorityHigh, drop.Priority)
	assert.Equal(t, "60.0% missing values - may be unreliable", drop.Reason)
	assert.Equal(t, []string{"Consider Dropping", "Standard Scaling", "Polynomial Features"}, techniques(got, "sparse"))
}

func TestCategoricalEncodingByCardinality(t *testing.T) {
	tests := []struct {
		unique   int
		taskType *task.Type
		want     string
	}{
		{2, nil, "Label Encoding"},
		{7, nil, "One-Hot Encoding"},
		{30, task.Classification.Ptr(), "Target Encoding"},
		{30, task.Regression.Ptr(), "Frequency Encoding"},
		{30, nil, "Frequency Encoding"},
		{120, nil, "Top Categories + Frequency Encoding"},
	}

	for _, tt := range tests {
		got := Suggest(report(profile.ColumnProfile{Name: "c", Type: profile.TypeCategorical, Unique: tt.unique}), tt.taskType)
		if assert.Len(t, got, 1) {
			assert.Equal(t, tt.want, got[0].Technique, "unique=%d", tt.unique)
			assert.Equal(t, advice.PriorityHigh, got[0].Priority)
		}
	}
}

func TestCategoricalMissingUsesMode(t *testing.T) {
	got := Suggest(report(profile.ColumnProfile{Name: "c", Type: profile.TypeBinary, Unique: 2, NullPercentage: 12.5}), nil)
	assert.Equal(t, []string{"Imputation (mode) + Indicator", "Label Encoding (0/1)"}, techniques(got, "c"))
}

func TestSkewCorrection(t *testing.T) {
	pos := profile.ColumnProfile{Name: "pos", Type: profile.TypeContinuous, Unique: 80,
		Stats: &profile.NumericStats{Skewness: f64(2.346)}}
	neg := profile.ColumnProfile{Name: "neg", Type: profile.TypeOrdinal, Unique: 4,
		Stats: &profile.NumericStats{Skewness: f64(-1.5)}}
	got := Suggest(report(pos, neg), nil)

	assert.Equal(t, "Positive skewness (2.35)", find(t, got, "pos", "Log Transformation").Reason)
	assert.Equal(t, "yeo-johnson", find(t, got, "neg", "Power Transformation").Snippet.Params["method"])
	find(t, got, "pos", "Quantile Binning")
	find(t, got, "pos", "Interaction Features")
	assert.NotContains(t, techniques(got, "neg"), "Polynomial Features")
	assert.NotContains(t, techniques(got, "neg"), "Interaction Features")
}

func TestDatetimeExtraction(t *testing.T) {
	got := Suggest(report(profile.ColumnProfile{Name: "when", Type: profile.TypeDatetime}), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "DateTime Feature Extraction", got[0].Technique)
	assert.Contains(t, got[0].Snippet.Params["parts"], "is_weekend")
}

func TestSuggestionsSortedByPriority(t *testing.T) {
	got := Suggest(report(
		profile.ColumnProfile{Name: "a", Type: profile.TypeContinuous, Unique: 80, NullPercentage: 5, Stats: &profile.NumericStats{Skewness: f64(3)}},
		profile.ColumnProfile{Name: "b", Type: profile.TypeCategorical, Unique: 4},
		profile.ColumnProfile{Name: "c", Type: profile.TypeIdentifier},
	), task.Classification.Ptr())

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Priority.Weight(), got[i].Priority.Weight())
	}
	// Stable: within the high tier, column order is preserved.
	assert.Equal(t, "b", got[0].Column)
	assert.Equal(t, "c", got[1].Column)
}

func TestSuggestNilReport(t *testing.T) {
	assert.Empty(t, Suggest(nil, nil))
}
