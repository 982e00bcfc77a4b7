package quality

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomlready/domain/dataset"
	"gomlready/domain/profile"
)

func build(columns []string, n int, cell func(col string, i int) any) *dataset.Dataset {
	rows := make([]dataset.Row, n)
	for i := range rows {
		r := dataset.Row{}
		for _, c := range columns {
			r[c] = cell(c, i)
		}
		rows[i] = r
	}
	return &dataset.Dataset{Columns: columns, Rows: rows}
}

// correlated returns x and y with Pearson r of roughly 0.94.
func correlated(col string, i int) any {
	x := float64(i) + 0.5
	if col == "x" {
		return x
	}
	if i%2 == 0 {
		return x + 2
	}
	return x - 2
}

func issuesOfKind(r *profile.QualityReport, kind profile.IssueKind) []profile.QualityIssue {
	var out []profile.QualityIssue
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	report, err := Analyze(context.Background(), &dataset.Dataset{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.QualityScore)
	assert.Empty(t, report.Profiles)
	assert.Empty(t, report.Issues)
}

func TestAnalyzeStrongCorrelation(t *testing.T) {
	ds := build([]string{"x", "y"}, 20, correlated)

	report, err := Analyze(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, report.Correlations, 1)
	pair := report.Correlations[0]
	assert.Equal(t, "x", pair.Col1)
	assert.Equal(t, "y", pair.Col2)
	assert.Greater(t, pair.Correlation, 0.9)

	corr := issuesOfKind(report, profile.IssueCorrelation)
	require.Len(t, corr, 1)
	assert.Equal(t, profile.SeverityMedium, corr[0].Severity)
	assert.Equal(t, "x & y", corr[0].Column)
	assert.Equal(t, []string{"x", "y"}, corr[0].Columns)
	assert.Equal(t, 1, report.Summary.HighCorrelations)
}

func TestCorrelationSymmetric(t *testing.T) {
	forward := build([]string{"x", "y"}, 20, correlated)
	reverse := build([]string{"y", "x"}, 20, correlated)

	a, err := Analyze(context.Background(), forward)
	require.NoError(t, err)
	b, err := Analyze(context.Background(), reverse)
	require.NoError(t, err)

	require.Len(t, a.Correlations, 1)
	require.Len(t, b.Correlations, 1)
	assert.Equal(t, a.Correlations[0].Correlation, b.Correlations[0].Correlation)
	assert.Equal(t, "y", b.Correlations[0].Col1)
}

func TestAnalyzeConstantColumn(t *testing.T) {
	ds := build([]string{"const", "label"}, 12, func(col string, i int) any {
		if col == "const" {
			return 5.0
		}
		return fmt.Sprintf("v%d", i%3)
	})

	report, err := Analyze(context.Background(), ds)
	require.NoError(t, err)

	constant := issuesOfKind(report, profile.IssueConstant)
	require.Len(t, constant, 1)
	assert.Equal(t, "const", constant[0].Column)
	assert.Equal(t, profile.SeverityHigh, constant[0].Severity)
	assert.Empty(t, issuesOfKind(report, profile.IssueVariance))
}

func TestAnalyzeMissingValues(t *testing.T) {
	ds := build([]string{"sparse", "half"}, 10, func(col string, i int) any {
		switch {
		case col == "sparse" && i < 6:
			return nil
		case col == "half" && i < 3:
			return nil
		}
		return fmt.Sprintf("c%d", i%2)
	})

	report, err := Analyze(context.Background(), ds)
	require.NoError(t, err)

	missing := issuesOfKind(report, profile.IssueMissing)
	require.Len(t, missing, 2)
	assert.Equal(t, profile.SeverityHigh, missing[0].Severity)
	assert.Equal(t, "Critical: 60.0% missing values", missing[0].Message)
	assert.Equal(t, profile.SeverityMedium, missing[1].Severity)
	assert.Equal(t, 2, report.Summary.ColumnsWithMissing)

	p, ok := report.Profile("sparse")
	require.True(t, ok)
	assert.Equal(t, 60.0, p.NullPercentage)
	assert.Equal(t, 4, p.NonNullCount)
}

func TestAnalyzeOutliers(t *testing.T) {
	var values []any
	for i := 0; i < 16; i++ {
		values = append(values, float64(i)+0.5)
	}
	values = append(values, 1000.0, 1000.0, 1000.0, 1000.0)
	ds := build([]string{"v"}, len(values), func(_ string, i int) any { return values[i] })

	report, err := Analyze(context.Background(), ds)
	require.NoError(t, err)

	outliers := issuesOfKind(report, profile.IssueOutliers)
	require.Len(t, outliers, 1)
	assert.Equal(t, profile.SeverityMedium, outliers[0].Severity)
	assert.Equal(t, "4 outliers (20.0%) detected", outliers[0].Message)
	assert.Len(t, issuesOfKind(report, profile.IssueDistribution), 1)
}

func TestAnalyzeWorkerCountDoesNotChangeReport(t *testing.T) {
	ds := build([]string{"x", "y", "cat", "id"}, 50, func(col string, i int) any {
		switch col {
		case "cat":
			return []string{"red", "green", "blue"}[i%3]
		case "id":
			return i + 1
		}
		return correlated(col, i)
	})

	serial, err := NewAnalyzer(1).Analyze(context.Background(), ds)
	require.NoError(t, err)
	parallel, err := NewAnalyzer(8).Analyze(context.Background(), ds)
	require.NoError(t, err)

	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("report differs between worker counts (-serial +parallel):\n%s", diff)
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds := build([]string{"x", "y"}, 20, correlated)

	_, err := Analyze(ctx, ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreClampsAndPenalizes(t *testing.T) {
	profiles := []profile.ColumnProfile{{Name: "a", NullPercentage: 60}, {Name: "b", NullPercentage: 25}}
	issues := []profile.QualityIssue{
		{Severity: profile.SeverityHigh},
		{Severity: profile.SeverityMedium},
		{Severity: profile.SeverityLow},
	}
	assert.Equal(t, 100-5-2-0.5-10-5.0, Score(profiles, issues))

	many := make([]profile.QualityIssue, 40)
	for i := range many {
		many[i].Severity = profile.SeverityHigh
	}
	assert.Equal(t, 0.0, Score(profiles, many))
	assert.Equal(t, 100.0, Score(nil, many))
}
