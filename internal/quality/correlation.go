package quality

import (
	"fmt"
	"math"

	"gomlready/domain/dataset"
	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
	"gomlready/internal/stats"
)

// Correlations scans every unordered pair of numeric-like columns once, in
// column order, and reports the pairs with |r| above the reporting cut.
func Correlations(ds *dataset.Dataset, profiles []profile.ColumnProfile) ([]profile.CorrelationPair, []profile.QualityIssue) {
	var numeric []string
	for _, p := range profiles {
		if p.Type.IsNumericLike() {
			numeric = append(numeric, p.Name)
		}
	}

	columns := make(map[string][]any, len(numeric))
	for _, c := range numeric {
		columns[c] = ds.Values(c)
	}

	var pairs []profile.CorrelationPair
	var issues []profile.QualityIssue
	for i, a := range numeric {
		for _, b := range numeric[i+1:] {
			r := stats.Pearson(stats.PairedFinite(columns[a], columns[b]))
			if math.Abs(r) <= heuristics.CorrelationReport {
				continue
			}
			pairs = append(pairs, profile.CorrelationPair{Col1: a, Col2: b, Correlation: round(r, 3)})

			sev := profile.SeverityLow
			if math.Abs(r) > heuristics.CorrelationMedium {
				sev = profile.SeverityMedium
			}
			issues = append(issues, profile.QualityIssue{
				Severity:       sev,
				Column:         a + " & " + b,
				Columns:        []string{a, b},
				Kind:           profile.IssueCorrelation,
				Message:        fmt.Sprintf("High correlation: %.3f", r),
				Recommendation: "Consider removing one to reduce multicollinearity",
			})
		}
	}
	return pairs, issues
}
