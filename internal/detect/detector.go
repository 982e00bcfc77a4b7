// Package detect infers the prediction target and the task type.
package detect

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gomlready/domain/dataset"
	"gomlready/domain/profile"
	"gomlready/domain/task"
	"gomlready/internal/heuristics"
	"gomlready/internal/inference"
)

// Detect runs the last-column convention, falls back to candidate scoring
// when the convention finds nothing, then measures class balance for a
// classification target.
func Detect(ds *dataset.Dataset, report *profile.QualityReport) task.Detection {
	d := task.Detection{Reasoning: []string{}}
	if ds == nil || len(ds.Columns) == 0 {
		return d
	}

	conventionTarget(ds.Columns, report, &d)

	if d.TargetColumn == nil {
		d.PotentialTargets = PotentialTargets(ds.Columns, report)
		if len(d.PotentialTargets) > 0 {
			best := d.PotentialTargets[0]
			col := best.Column
			d.TargetColumn = &col
			d.TaskType = best.LikelyTask.Ptr()
			d.Confidence = float64(best.Score) / 100
			d.Reasoning = append(d.Reasoning,
				fmt.Sprintf("Column '%s' scored highest among potential targets (%d)", best.Column, best.Score))
		}
	}

	if d.Is(task.Classification) && d.TargetColumn != nil {
		d.BalanceRatio = BalanceRatio(ds.Values(*d.TargetColumn))
		d.IsImbalanced = d.BalanceRatio != nil && *d.BalanceRatio < heuristics.ImbalanceRatio
	}
	return d
}

// conventionTarget checks the last column only. The first matching rule
// wins, including the zero-missing fallback that picks the task by type.
func conventionTarget(columns []string, report *profile.QualityReport, d *task.Detection) {
	last := columns[len(columns)-1]
	p, ok := report.Profile(last)
	if !ok {
		return
	}

	adopt := func(t task.Type, confidence float64, reason string) {
		col := last
		d.TargetColumn = &col
		d.TaskType = t.Ptr()
		d.Confidence = confidence
		d.Reasoning = append(d.Reasoning, reason)
	}

	switch {
	case p.Type == profile.TypeBinary:
		adopt(task.Classification, heuristics.ConfidenceBinaryLast,
			fmt.Sprintf("Last column '%s' is binary (2 unique values)", last))
	case p.Type == profile.TypeCategorical && p.Unique <= heuristics.LastCategoricalMaxUnique:
		adopt(task.Classification, heuristics.ConfidenceCategoricalLast,
			fmt.Sprintf("Last column '%s' has %d categories", last, p.Unique))
		classes := p.Unique
		d.NumClasses = &classes
	case p.Type.IsMeasure() && p.UniqueRatio > heuristics.LastRegressionUniqueRatio:
		adopt(task.Regression, heuristics.ConfidenceRegressionLast,
			fmt.Sprintf("Last column '%s' is continuous with high uniqueness", last))
	case p.NullPercentage == 0:
		t := task.Classification
		if p.Type.IsMeasure() {
			t = task.Regression
		}
		adopt(t, heuristics.ConfidenceCompleteLast,
			fmt.Sprintf("Last column '%s' has no missing values", last))
	}
}

// PotentialTargets scores every eligible column and returns at most five,
// highest score first. Ties keep column order.
func PotentialTargets(columns []string, report *profile.QualityReport) []task.PotentialTarget {
	var out []task.PotentialTarget
	for i, col := range columns {
		p, ok := report.Profile(col)
		if !ok {
			continue
		}

		score := 0
		if i == len(columns)-1 {
			score += heuristics.ScoreLastColumn
		}

		var likely task.Type
		switch {
		case p.Type == profile.TypeBinary:
			score += heuristics.ScoreBinary
			likely = task.Classification
		case p.Type == profile.TypeCategorical && p.Unique >= heuristics.CandidateCatMin && p.Unique <= heuristics.CandidateCatMax:
			score += heuristics.ScoreCategorical
			likely = task.Classification
		case p.Type.IsMeasure() && p.Unique > heuristics.CandidateMeasureMin:
			score += heuristics.ScoreMeasure
			likely = task.Regression
		case p.Type == profile.TypeOrdinal && p.Unique > heuristics.CandidateOrdinalMin:
			score += heuristics.ScoreOrdinal
			likely = task.Classification
		default:
			continue
		}

		if p.NullPercentage == 0 {
			score += heuristics.ScoreComplete
		}
		name := strings.ToLower(col)
		if containsAny(name, heuristics.TargetKeywords) {
			score += heuristics.ScoreTargetKeyword
		}
		if containsAny(name, heuristics.ValueKeywords) {
			score += heuristics.ScoreValueKeyword
		}

		out = append(out, task.PotentialTarget{
			Column:         col,
			Type:           string(p.Type),
			Unique:         p.Unique,
			NullPercentage: p.NullPercentage,
			Score:          score,
			LikelyTask:     likely,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > heuristics.MaxPotentialTargets {
		out = out[:heuristics.MaxPotentialTargets]
	}
	return out
}

// BalanceRatio is minority over majority class count among non-null values,
// rounded to 3 places but never below 0.001. Nil with fewer than two classes.
func BalanceRatio(values []any) *float64 {
	counts := make(map[string]int)
	for _, v := range inference.NonNull(values) {
		counts[inference.Key(v)]++
	}
	if len(counts) < 2 {
		return nil
	}
	minCount, maxCount := math.MaxInt, 0
	for _, c := range counts {
		minCount = min(minCount, c)
		maxCount = max(maxCount, c)
	}
	ratio := math.Max(math.Round(float64(minCount)/float64(maxCount)*1000)/1000, heuristics.MinBalanceRatio)
	return &ratio
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
