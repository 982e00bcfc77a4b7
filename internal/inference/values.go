package inference

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gomlready/domain/dataset"
	"gomlready/internal/stats"
)

// NonNull drops missing cells, keeping order.
func NonNull(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if !dataset.IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// Key is the identity used to count distinct raw values: numerically equal
// numbers and bools share a key, strings compare exactly and times by instant.
func Key(v any) string {
	switch t := v.(type) {
	case string:
		return "s:" + t
	case time.Time:
		return "t:" + strconv.FormatInt(t.UnixNano(), 10)
	}
	if f, ok := numberValue(v); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// UniqueCount counts distinct non-null raw values.
func UniqueCount(nonNull []any) int {
	seen := make(map[string]struct{}, len(nonNull))
	for _, v := range nonNull {
		seen[Key(v)] = struct{}{}
	}
	return len(seen)
}

// Samples returns up to limit distinct values in first-seen order.
func Samples(nonNull []any, limit int) []any {
	out := make([]any, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, v := range nonNull {
		if len(out) == limit {
			break
		}
		k := Key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Text renders a cell the way the text-like checks see it.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// numberValue accepts Go numeric kinds and bools but not strings.
func numberValue(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return stats.ToFloat(v)
}

func normalized(v any) string {
	return strings.ToLower(strings.TrimSpace(Text(v)))
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}
