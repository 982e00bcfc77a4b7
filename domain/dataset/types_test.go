package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomlready/domain/core"
)

func sampleRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"a": float64(i), "b": "x"}
	}
	return rows
}

func TestNewRejectsBadColumns(t *testing.T) {
	_, err := New("t", []string{"a", "a"}, nil)
	assert.ErrorIs(t, err, core.ErrDuplicateColumn)

	_, err = New("t", []string{"a", ""}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	ds, err := New("t", []string{"a", "b"}, sampleRows(3))
	require.NoError(t, err)
	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
	assert.True(t, ds.HasColumn("b"))
	assert.False(t, ds.HasColumn("c"))
}

func TestValuesFillsMissingKeys(t *testing.T) {
	ds := &Dataset{Columns: []string{"a", "b"}, Rows: []Row{{"a": 1.0}, {"b": "y"}}}
	assert.Equal(t, []any{1.0, nil}, ds.Values("a"))
	assert.Equal(t, []any{nil, "y"}, ds.Values("b"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		ds       *Dataset
		problems int
	}{
		{"empty", &Dataset{}, 1},
		{"valid", &Dataset{Columns: []string{"a", "b"}, Rows: sampleRows(12)}, 0},
		{"too few rows", &Dataset{Columns: []string{"a", "b"}, Rows: sampleRows(5)}, 1},
		{"one column", &Dataset{Columns: []string{"a"}, Rows: sampleRows(12)}, 1},
		{"mostly missing", &Dataset{Columns: []string{"a", "c"}, Rows: sampleRows(12)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.ds.Validate(), tt.problems)
		})
	}
}

func TestStats(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"a", "b"},
		Rows: []Row{
			{"a": 1.0, "b": nil},
			{"a": math.NaN(), "b": "x"},
		},
	}
	s := ds.Stats()
	assert.Equal(t, 4, s.TotalCells)
	assert.Equal(t, 2, s.MissingCells)
	assert.Equal(t, 50.0, s.MissingPercentage)
}

func TestSummarize(t *testing.T) {
	ds := &Dataset{Columns: []string{"a", "b"}, Rows: sampleRows(4)}
	s := ds.Summarize()
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.Columns)
	assert.Equal(t, []string{"a", "b"}, s.Headers)
	assert.GreaterOrEqual(t, s.MemoryUsageMB, 0.0)
	assert.Greater(t, ds.MemoryBytes(), int64(0))
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(math.NaN()))
	assert.True(t, IsNull(time.Time{}))
	assert.False(t, IsNull(0.0))
	assert.False(t, IsNull(""))
	assert.False(t, IsNull(false))
}
