// Package features proposes preprocessing and feature-engineering actions
// for each profiled column.
package features

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gomlready/domain/advice"
	"gomlready/domain/profile"
	"gomlready/domain/task"
	"gomlready/internal/heuristics"
)

var datetimeParts = []string{"year", "month", "day", "dayofweek", "hour", "quarter", "is_weekend"}

// Suggest returns suggestions for every column, stable-sorted by priority
// weight. taskType may be nil; encoding advice is then task-agnostic.
func Suggest(report *profile.QualityReport, taskType *task.Type) []advice.FeatureSuggestion {
	out := []advice.FeatureSuggestion{}
	if report == nil {
		return out
	}
	for i := range report.Profiles {
		out = append(out, suggestColumn(&report.Profiles[i], taskType)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Weight() > out[j].Priority.Weight()
	})
	return out
}

type collector struct {
	column string
	items  []advice.FeatureSuggestion
}

func (c *collector) add(technique string, priority advice.Priority, impact advice.Impact, reason, op string, params map[string]any) {
	if params == nil {
		params = map[string]any{}
	}
	params["column"] = c.column
	c.items = append(c.items, advice.FeatureSuggestion{
		Column:    c.column,
		Technique: technique,
		Priority:  priority,
		Reason:    reason,
		Impact:    impact,
		Snippet:   advice.Snippet{Operation: op, Params: params},
	})
}

func suggestColumn(p *profile.ColumnProfile, taskType *task.Type) []advice.FeatureSuggestion {
	c := &collector{column: p.Name}

	if p.Type == profile.TypeIdentifier {
		c.add("Drop Column", advice.PriorityHigh, advice.ImpactHigh,
			"ID column with no predictive value", "drop_column", nil)
		return c.items
	}

	missingHandling(c, p)

	switch {
	case p.Type.IsNumericLike():
		numericTransforms(c, p)
	case p.Type == profile.TypeCategorical:
		categoricalEncoding(c, p, taskType)
	case p.Type == profile.TypeBinary:
		c.add("Label Encoding (0/1)", advice.PriorityHigh, advice.ImpactHigh,
			"Binary variable - convert to 0/1", "label_encode", map[string]any{"values": []any{0, 1}})
	case p.Type == profile.TypeDatetime:
		c.add("DateTime Feature Extraction", advice.PriorityHigh, advice.ImpactHigh,
			"Extract temporal patterns", "extract_datetime", map[string]any{"parts": toAny(datetimeParts)})
	}

	if p.Type.IsMeasure() && p.Unique > heuristics.InteractionMinUnique {
		c.add("Interaction Features", advice.PriorityLow, advice.ImpactMedium,
			"Capture feature interactions", "interaction_features", map[string]any{"operations": []any{"multiply", "divide"}})
	}
	return c.items
}

// missingHandling emits at most one strategy. Above the drop threshold it
// only advises dropping; the type-specific suggestions still follow.
func missingHandling(c *collector, p *profile.ColumnProfile) {
	pct := p.NullPercentage
	if pct == 0 {
		return
	}
	if pct > heuristics.DropMissingPct {
		c.add("Consider Dropping", advice.PriorityHigh, advice.ImpactHigh,
			fmt.Sprintf("%s%% missing values - may be unreliable", pctString(pct)), "drop_column",
			map[string]any{"condition": "unless critical"})
		return
	}

	switch {
	case p.Type.IsNumericLike():
		strategy, why := "mean", "mean suitable for normal distribution"
		if p.OutlierPercentage() > heuristics.RobustOutlierPct {
			strategy, why = "median", "median robust to outliers"
		}
		priority := advice.PriorityMedium
		if pct > heuristics.HighPriorityMissingPct {
			priority = advice.PriorityHigh
		}
		c.add(fmt.Sprintf("Imputation (%s)", strategy), priority, advice.ImpactHigh,
			fmt.Sprintf("%s%% missing, %s", pctString(pct), why), "impute",
			map[string]any{"strategy": strategy})
		c.add("Missing Value Indicator", advice.PriorityMedium, advice.ImpactMedium,
			"Preserve missingness pattern as feature", "missing_indicator", nil)
	case p.Type.IsCategoryLike():
		c.add("Imputation (mode) + Indicator", advice.PriorityHigh, advice.ImpactHigh,
			fmt.Sprintf("%s%% missing in categorical variable", pctString(pct)), "impute",
			map[string]any{"strategy": "most_frequent", "add_indicator": true})
	}
}

func numericTransforms(c *collector, p *profile.ColumnProfile) {
	if outliers := p.OutlierPercentage(); outliers > heuristics.RobustOutlierPct {
		c.add("Robust Scaling", advice.PriorityHigh, advice.ImpactHigh,
			fmt.Sprintf("%.1f%% outliers detected", outliers), "robust_scale", nil)
	} else {
		c.add("Standard Scaling", advice.PriorityMedium, advice.ImpactMedium,
			"Normalize for distance-based algorithms", "standard_scale", nil)
	}

	if skew := p.Skewness(); skew != nil && math.Abs(*skew) > heuristics.SkewThreshold {
		if *skew > 0 {
			c.add("Log Transformation", advice.PriorityMedium, advice.ImpactMedium,
				fmt.Sprintf("Positive skewness (%.2f)", *skew), "log1p", nil)
		} else {
			c.add("Power Transformation", advice.PriorityMedium, advice.ImpactMedium,
				fmt.Sprintf("Negative skewness (%.2f)", *skew), "power_transform",
				map[string]any{"method": "yeo-johnson"})
		}
	}

	if p.Unique > heuristics.BinningMinUnique && p.Type == profile.TypeContinuous {
		c.add("Quantile Binning", advice.PriorityLow, advice.ImpactLow,
			fmt.Sprintf("%d unique values - create categorical bins", p.Unique), "quantile_bin",
			map[string]any{"bins": 5, "labels": []any{"very_low", "low", "medium", "high", "very_high"}})
	}

	if p.Type.IsMeasure() {
		c.add("Polynomial Features", advice.PriorityLow, advice.ImpactMedium,
			"Capture non-linear relationships", "polynomial_features", map[string]any{"degrees": []any{2, 3}})
	}
}

func categoricalEncoding(c *collector, p *profile.ColumnProfile, taskType *task.Type) {
	n := p.Unique
	switch {
	case n <= heuristics.LabelEncodingMax:
		c.add("Label Encoding", advice.PriorityHigh, advice.ImpactHigh,
			"Binary categorical - simple encoding sufficient", "label_encode", nil)
	case n <= heuristics.OneHotMax:
		c.add("One-Hot Encoding", advice.PriorityHigh, advice.ImpactHigh,
			fmt.Sprintf("%d categories - creates sparse features", n), "one_hot_encode", nil)
	case n <= heuristics.TargetEncodingMax:
		if taskType != nil && *taskType == task.Classification {
			c.add("Target Encoding", advice.PriorityHigh, advice.ImpactHigh,
				fmt.Sprintf("%d categories - reduces dimensionality", n), "target_encode", nil)
		} else {
			c.add("Frequency Encoding", advice.PriorityHigh, advice.ImpactHigh,
				fmt.Sprintf("%d categories - preserves frequency info", n), "frequency_encode", nil)
		}
	default:
		c.add("Top Categories + Frequency Encoding", advice.PriorityHigh, advice.ImpactHigh,
			fmt.Sprintf("Very high cardinality (%d)", n), "group_rare_then_frequency_encode",
			map[string]any{"top": heuristics.TopCategories, "other_label": "Other"})
	}
}

// pctString prints a percentage the way the reports show it: shortest form,
// always with a decimal part (25.0, 33.33).
func pctString(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
