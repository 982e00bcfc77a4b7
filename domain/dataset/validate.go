package dataset

import (
	"fmt"
	"math"
	"time"
)

const (
	MinColumns           = 2
	MinRows              = 10
	MaxMissingPercentage = 90.0
)

// Validate returns the reasons the dataset is too thin for a meaningful
// analysis. An empty slice means the dataset passes.
func (d *Dataset) Validate() []string {
	var problems []string
	if d.RowCount() == 0 || d.ColumnCount() == 0 {
		return []string{"Dataset is empty"}
	}
	if d.ColumnCount() < MinColumns {
		problems = append(problems, fmt.Sprintf("Dataset must have at least %d columns", MinColumns))
	}
	if d.RowCount() < MinRows {
		problems = append(problems, fmt.Sprintf("Dataset must have at least %d rows for meaningful analysis", MinRows))
	}

	worst := 0.0
	for _, c := range d.Columns {
		missing := 0
		for _, r := range d.Rows {
			if IsNull(r[c]) {
				missing++
			}
		}
		pct := float64(missing) / float64(d.RowCount()) * 100
		if pct > worst {
			worst = pct
		}
	}
	if worst > MaxMissingPercentage {
		problems = append(problems, fmt.Sprintf("One or more columns have %.1f%% missing values", worst))
	}
	return problems
}

// IsNull reports whether a cell counts as missing: nil, NaN, a zero time or
// a nil float pointer.
func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	case *float64:
		return t == nil || math.IsNaN(*t)
	case time.Time:
		return t.IsZero()
	}
	return false
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
