package recommend

import (
	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
)

// Complexity describes how much data a model family needs to shine.
type Complexity string

const (
	ComplexityHigh   Complexity = "high"
	ComplexityMedium Complexity = "medium"
	ComplexityLow    Complexity = "low"
)

// Score adjusts a family's base suitability for dataset size, outliers and
// high cardinality, clamped to [0,100].
func Score(base, size int, hasOutliers, hasHighCardinality bool, complexity Complexity) int {
	score := base
	switch complexity {
	case ComplexityHigh:
		switch {
		case size < 500:
			score -= 15
		case size < 1000:
			score -= 5
		case size > 10000:
			score += 5
		}
	case ComplexityMedium:
		switch {
		case size < 100:
			score -= 10
		case size > 50000:
			score -= 5
		}
	}
	if hasOutliers && complexity != ComplexityHigh && complexity != ComplexityMedium {
		score -= 10
	}
	if hasHighCardinality && complexity != ComplexityHigh {
		score -= 8
	}
	return max(0, min(100, score))
}

// Characteristics summarizes the dataset for model selection.
type Characteristics struct {
	NumericFeatures     int     `json:"numeric_features"`
	CategoricalFeatures int     `json:"categorical_features"`
	TotalFeatures       int     `json:"total_features"`
	FeatureRatio        float64 `json:"feature_ratio"`
	HasOutliers         bool    `json:"has_outliers"`
	HasHighCardinality  bool    `json:"has_high_cardinality"`
	HasMissing          bool    `json:"has_missing"`
	DataSize            int     `json:"data_size"`
	IsSmall             bool    `json:"is_small"`
	IsMedium            bool    `json:"is_medium"`
	IsLarge             bool    `json:"is_large"`
}

// Characterize derives the model-selection characteristics from a report.
func Characterize(report *profile.QualityReport, rows int) Characteristics {
	c := Characteristics{DataSize: rows}
	if report != nil {
		for _, p := range report.Profiles {
			switch {
			case p.Type.IsNumericLike():
				c.NumericFeatures++
				if p.OutlierPercentage() > heuristics.ModelOutlierPct {
					c.HasOutliers = true
				}
			case p.Type.IsCategoryLike():
				c.CategoricalFeatures++
				if p.Unique > heuristics.ModelHighCard {
					c.HasHighCardinality = true
				}
			}
			if p.NullPercentage > 0 {
				c.HasMissing = true
			}
		}
	}
	c.TotalFeatures = c.NumericFeatures + c.CategoricalFeatures
	if c.TotalFeatures > 0 {
		c.FeatureRatio = float64(c.NumericFeatures) / float64(c.TotalFeatures)
	}
	c.IsSmall = rows < heuristics.SmallDatasetRows
	c.IsMedium = rows >= heuristics.SmallDatasetRows && rows < heuristics.LargeDatasetRows
	c.IsLarge = rows >= heuristics.LargeDatasetRows
	return c
}
