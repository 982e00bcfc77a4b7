// Package inference classifies a column into one semantic type.
package inference

import (
	"unicode/utf8"

	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
	"gomlready/internal/stats"
)

// Inference is a semantic type with its confidence in [0,1].
type Inference struct {
	Type       profile.SemanticType `json:"type"`
	Confidence float64              `json:"confidence"`
}

// Infer walks the type ladder top to bottom; the first matching rung wins.
//
//	empty -> datetime -> numeric family -> binary -> categorical ->
//	identifier -> text -> unknown
func Infer(values []any) Inference {
	nonNull := NonNull(values)
	n := len(nonNull)
	if n == 0 {
		return Inference{Type: profile.TypeEmpty, Confidence: heuristics.CertainConfidence}
	}
	total := float64(n)

	dates := 0
	for _, v := range nonNull {
		if IsTimeLike(v) {
			dates++
		}
	}
	if ratio := float64(dates) / total; ratio > heuristics.DatetimeRatio {
		return Inference{Type: profile.TypeDatetime, Confidence: ratio}
	}

	numeric := 0
	for _, v := range nonNull {
		if _, ok := stats.ToFloat(v); ok {
			numeric++
		}
	}
	numericRatio := float64(numeric) / total
	if numericRatio > heuristics.NumericRatio {
		return inferNumeric(nonNull, numericRatio)
	}

	distinct := make(map[string]struct{}, n)
	runes := 0
	for _, v := range nonNull {
		distinct[normalized(v)] = struct{}{}
		runes += utf8.RuneCountInString(Text(v))
	}
	uniqueRatio := float64(len(distinct)) / total

	switch {
	case len(distinct) == heuristics.BinaryDistinct:
		return Inference{Type: profile.TypeBinary, Confidence: heuristics.CertainConfidence}
	case uniqueRatio < heuristics.CategoricalUniqueRatio && len(distinct) < heuristics.CategoricalMaxDistinct:
		return Inference{Type: profile.TypeCategorical, Confidence: 1 - uniqueRatio}
	case uniqueRatio > heuristics.IdentifierUniqueRatio && n > heuristics.IdentifierMinValues:
		return Inference{Type: profile.TypeIdentifier, Confidence: uniqueRatio}
	case float64(runes)/total > heuristics.TextMinMeanLength:
		return Inference{Type: profile.TypeText, Confidence: heuristics.TextConfidence}
	}
	return Inference{Type: profile.TypeUnknown, Confidence: heuristics.UnknownConfidence}
}

func inferNumeric(nonNull []any, numericRatio float64) Inference {
	unique := UniqueCount(nonNull)
	uniqueRatio := float64(unique) / float64(len(nonNull))

	// Checked before the continuous rung, which would otherwise claim row keys.
	if isSequence(nonNull) {
		return Inference{Type: profile.TypeIdentifier, Confidence: uniqueRatio}
	}

	switch {
	case uniqueRatio > heuristics.ContinuousUniqueRatio && unique > heuristics.ContinuousMinUnique:
		return Inference{Type: profile.TypeContinuous, Confidence: numericRatio}
	case uniqueRatio < heuristics.OrdinalUniqueRatio && unique < heuristics.OrdinalMaxUnique:
		return Inference{Type: profile.TypeOrdinal, Confidence: numericRatio}
	}
	return Inference{Type: profile.TypeNumeric, Confidence: numericRatio}
}

// isSequence detects row keys: more than SequenceMinValues integers, each
// exactly one above the previous in row order.
func isSequence(nonNull []any) bool {
	if len(nonNull) <= heuristics.SequenceMinValues {
		return false
	}
	var prev float64
	for i, v := range nonNull {
		if _, isBool := v.(bool); isBool {
			return false
		}
		f, ok := stats.ToFloat(v)
		if !ok || !isIntegral(f) {
			return false
		}
		if i > 0 && f != prev+1 {
			return false
		}
		prev = f
	}
	return true
}
