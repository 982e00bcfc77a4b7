package dataset

import (
	"fmt"
	"time"
	"unsafe"

	"gomlready/domain/core"
)

// Row maps a column name to a scalar cell value. A missing key or a nil value
// is a null cell.
type Row map[string]any

// Dataset is an in-memory table: an ordered, unique column list plus rows.
// Column order is significant (the last column is the conventional target).
type Dataset struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New builds a dataset and rejects duplicate or empty column names.
func New(name string, columns []string, rows []Row) (*Dataset, error) {
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, core.NewValidationError("columns", fmt.Sprintf("column %d has an empty name", i))
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w %q", core.ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}
	}
	return &Dataset{Name: name, Columns: columns, Rows: rows}, nil
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values returns the column's cells in row order, nil for missing keys.
func (d *Dataset) Values(column string) []any {
	out := make([]any, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r[column]
	}
	return out
}

// Summary is the dataset block of an analysis result.
type Summary struct {
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	Headers       []string `json:"headers"`
	MemoryUsageMB float64  `json:"memory_usage_mb"`
}

// Summarize describes the dataset's shape.
func (d *Dataset) Summarize() Summary {
	headers := make([]string, len(d.Columns))
	copy(headers, d.Columns)
	return Summary{
		Rows:          d.RowCount(),
		Columns:       d.ColumnCount(),
		Headers:       headers,
		MemoryUsageMB: round(float64(d.MemoryBytes())/(1024*1024), 2),
	}
}

// MemoryBytes approximates the in-memory footprint of the cell values.
func (d *Dataset) MemoryBytes() int64 {
	var total int64
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			total += cellSize(r[c])
		}
	}
	return total
}

func cellSize(v any) int64 {
	const ifaceSize = int64(unsafe.Sizeof(any(nil)))
	switch t := v.(type) {
	case nil:
		return ifaceSize
	case string:
		return ifaceSize + int64(unsafe.Sizeof(t)) + int64(len(t))
	case time.Time:
		return ifaceSize + int64(unsafe.Sizeof(t))
	default:
		return ifaceSize + 8
	}
}

// Stats are whole-table missingness figures.
type Stats struct {
	TotalCells        int     `json:"total_cells"`
	MissingCells      int     `json:"missing_cells"`
	MissingPercentage float64 `json:"missing_percentage"`
	MemoryUsageMB     float64 `json:"memory_usage_mb"`
}

// Stats counts total and missing cells.
func (d *Dataset) Stats() Stats {
	s := Stats{TotalCells: d.RowCount() * d.ColumnCount()}
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			if IsNull(r[c]) {
				s.MissingCells++
			}
		}
	}
	if s.TotalCells > 0 {
		s.MissingPercentage = round(float64(s.MissingCells)/float64(s.TotalCells)*100, 2)
	}
	s.MemoryUsageMB = round(float64(d.MemoryBytes())/(1024*1024), 2)
	return s
}
