package quality

import (
	"math"

	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
)

// Score starts at 100, subtracts per-issue penalties by severity plus a
// missingness penalty per column, and clamps to [0,100]. No columns scores 100.
func Score(profiles []profile.ColumnProfile, issues []profile.QualityIssue) float64 {
	if len(profiles) == 0 {
		return heuristics.MaxScore
	}
	score := heuristics.MaxScore
	for _, issue := range issues {
		switch issue.Severity {
		case profile.SeverityHigh:
			score -= heuristics.PenaltyHigh
		case profile.SeverityMedium:
			score -= heuristics.PenaltyMedium
		default:
			score -= heuristics.PenaltyLow
		}
	}
	for _, p := range profiles {
		switch {
		case p.NullPercentage > heuristics.MissingHighPct:
			score -= heuristics.PenaltyMissingHigh
		case p.NullPercentage > heuristics.MissingMediumPct:
			score -= heuristics.PenaltyMissingMedium
		}
	}
	return math.Max(0, math.Min(heuristics.MaxScore, score))
}

// Summarize counts issues by severity, missingness and strong correlations.
func Summarize(r *profile.QualityReport) profile.QualitySummary {
	s := profile.QualitySummary{
		TotalIssues:     len(r.Issues),
		ColumnsAnalyzed: len(r.Profiles),
	}
	for _, issue := range r.Issues {
		switch issue.Severity {
		case profile.SeverityHigh:
			s.HighIssues++
		case profile.SeverityMedium:
			s.MediumIssues++
		case profile.SeverityLow:
			s.LowIssues++
		}
	}
	for _, p := range r.Profiles {
		if p.NullPercentage > 0 {
			s.ColumnsWithMissing++
		}
	}
	for _, c := range r.Correlations {
		if math.Abs(c.Correlation) > heuristics.CorrelationMedium {
			s.HighCorrelations++
		}
	}
	return s
}
