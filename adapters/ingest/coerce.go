package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"gomlready/internal/inference"
)

// nullTokens are cell texts read as missing values.
var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

// IsNullToken reports whether a cell's text stands for a missing value.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// CoerceColumn converts one column of raw cells. A column whose non-null
// cells all parse as timestamps becomes time.Time, else one whose cells all
// parse as numbers becomes float64, else the cells stay trimmed strings.
// Infinite numbers become nil.
func CoerceColumn(cells []string) []any {
	out := make([]any, len(cells))
	if times, ok := allTimes(cells); ok {
		for i, t := range times {
			if !t.IsZero() {
				out[i] = t
			}
		}
		return out
	}
	if nums, ok := allNumbers(cells); ok {
		for i, f := range nums {
			if f != nil && !math.IsInf(*f, 0) && !math.IsNaN(*f) {
				out[i] = *f
			}
		}
		return out
	}
	for i, c := range cells {
		if !IsNullToken(c) {
			out[i] = strings.TrimSpace(c)
		}
	}
	return out
}

func allTimes(cells []string) ([]time.Time, bool) {
	times := make([]time.Time, len(cells))
	seen := false
	for i, c := range cells {
		if IsNullToken(c) {
			continue
		}
		t, ok := inference.ParseTime(c)
		if !ok {
			return nil, false
		}
		times[i] = t
		seen = true
	}
	return times, seen
}

func allNumbers(cells []string) ([]*float64, bool) {
	nums := make([]*float64, len(cells))
	seen := false
	for i, c := range cells {
		if IsNullToken(c) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, false
		}
		nums[i] = &f
		seen = true
	}
	return nums, seen
}
