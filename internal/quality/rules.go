package quality

import (
	"fmt"
	"math"

	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
)

// ColumnIssues applies the per-column rules. Each rule triggers
// independently; the order below is the order issues are reported in.
func ColumnIssues(p profile.ColumnProfile) []profile.QualityIssue {
	var issues []profile.QualityIssue
	add := func(sev profile.Severity, kind profile.IssueKind, msg, rec string) {
		issues = append(issues, profile.QualityIssue{
			Severity:       sev,
			Column:         p.Name,
			Columns:        []string{p.Name},
			Kind:           kind,
			Message:        msg,
			Recommendation: rec,
		})
	}

	if s := p.Stats; s != nil && p.Type.IsNumericLike() {
		if s.OutlierCount > 0 {
			msg := fmt.Sprintf("%d outliers (%.1f%%) detected", s.OutlierCount, s.OutlierPercentage)
			switch {
			case s.OutlierPercentage > heuristics.OutlierHighPct:
				add(profile.SeverityHigh, profile.IssueOutliers, msg,
					"Investigate extreme values; consider robust scaling or winsorization")
			case s.OutlierPercentage > heuristics.OutlierMediumPct:
				add(profile.SeverityMedium, profile.IssueOutliers, msg,
					"Consider robust scaling methods")
			}
		}
		if s.Skewness != nil && math.Abs(*s.Skewness) > heuristics.SkewThreshold {
			add(profile.SeverityLow, profile.IssueDistribution,
				fmt.Sprintf("High skewness (%.2f)", *s.Skewness),
				"Consider log or Box-Cox transformation")
		}
		// A zero std is a constant column and is reported as such below.
		if s.Std > 0 && s.Std < heuristics.LowVarianceStd {
			add(profile.SeverityMedium, profile.IssueVariance, "Very low variance",
				"Column may not be useful for modeling")
		}
	}

	missing := rawNullPercentage(p)
	switch {
	case missing > heuristics.MissingHighPct:
		add(profile.SeverityHigh, profile.IssueMissing,
			fmt.Sprintf("Critical: %.1f%% missing values", missing),
			"Consider dropping column or advanced imputation")
	case missing > heuristics.MissingMediumPct:
		add(profile.SeverityMedium, profile.IssueMissing,
			fmt.Sprintf("%.1f%% missing values", missing),
			"Use appropriate imputation strategy")
	}

	if p.Type == profile.TypeCategorical && p.Unique > heuristics.HighCardinality {
		add(profile.SeverityMedium, profile.IssueCardinality,
			fmt.Sprintf("High cardinality: %d unique values", p.Unique),
			"Consider target encoding or grouping rare categories")
	}

	if p.Type == profile.TypeIdentifier {
		add(profile.SeverityLow, profile.IssueIdentifier, "Appears to be an ID column", "Exclude from modeling")
	}

	if p.Unique == 1 && p.NonNullCount > 0 {
		add(profile.SeverityHigh, profile.IssueConstant, "Constant value", "Remove column - no predictive value")
	}

	return issues
}

func rawNullPercentage(p profile.ColumnProfile) float64 {
	total := p.NullCount + p.NonNullCount
	if total == 0 {
		return 0
	}
	return float64(p.NullCount) / float64(total) * 100
}
