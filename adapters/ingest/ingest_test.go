package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gomlready/domain/core"
	"gomlready/internal"
)

func reader() *Reader { return NewReader(internal.NewLogger(internal.LogLevelError)) }

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("Sales.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatOf("book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatOf("data.parquet")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestReadCSVCoercesColumns(t *testing.T) {
	src := "\xef\xbb\xbf id , signup ,score,city,amount\n" +
		"1,2024-01-05,3.5,paris,inf\n" +
		"2,2024-02-10,,lyon,12\n" +
		"3,NA,4,NA,7\n"

	ds, err := reader().Read("users.csv", strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "users.csv", ds.Name)
	assert.Equal(t, []string{"id", "signup", "score", "city", "amount"}, ds.Columns)
	require.Equal(t, 3, ds.RowCount())

	assert.Equal(t, []any{1.0, 2.0, 3.0}, ds.Values("id"))
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ds.Rows[0]["signup"])
	assert.Nil(t, ds.Rows[2]["signup"])
	assert.Equal(t, []any{3.5, nil, 4.0}, ds.Values("score"))
	assert.Equal(t, []any{"paris", "lyon", nil}, ds.Values("city"))
	assert.Equal(t, []any{nil, 12.0, 7.0}, ds.Values("amount"))
}

func TestReadCSVRejectsLongRows(t *testing.T) {
	_, err := reader().Read("bad.csv", strings.NewReader("a,b\n1,2,3\n"))
	assert.ErrorIs(t, err, core.ErrMalformedRow)
}

func TestReadCSVPadsShortRows(t *testing.T) {
	ds, err := reader().Read("short.csv", strings.NewReader("a,b\n1\n2,x\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{nil, "x"}, ds.Values("b"))
}

func TestReadCSVDuplicateHeader(t *testing.T) {
	_, err := reader().Read("dup.csv", strings.NewReader("a, a\n1,2\n"))
	assert.ErrorIs(t, err, core.ErrDuplicateColumn)
}

func TestReadEmpty(t *testing.T) {
	_, err := reader().Read("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestReadXLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"name", "qty"},
		{"bolt", 4},
		{"nut", 10},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	path := filepath.Join(t.TempDir(), "parts.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ds, err := reader().ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "parts.xlsx", ds.Name)
	assert.Equal(t, []string{"name", "qty"}, ds.Columns)
	assert.Equal(t, []any{"bolt", "nut"}, ds.Values("name"))
	assert.Equal(t, []any{4.0, 10.0}, ds.Values("qty"))
}

func TestCoerceColumn(t *testing.T) {
	assert.Equal(t, []any{nil, nil}, CoerceColumn([]string{"", "null"}))
	assert.Equal(t, []any{"2024", "abc"}, CoerceColumn([]string{"2024", "abc"}))
	assert.Equal(t, []any{2024.0, 1999.0}, CoerceColumn([]string{"2024", "1999"}))
}

func TestParseJSONPayload(t *testing.T) {
	body := []byte(`{"name":"orders","columns":["b","a"],"rows":[{"a":1,"b":"x"},{"a":2.5,"b":null,"c":true}]}`)

	ds, err := ParseJSON(body, "")
	require.NoError(t, err)
	assert.Equal(t, "orders", ds.Name)
	assert.Equal(t, []string{"b", "a"}, ds.Columns)
	assert.Equal(t, []any{int64(1), 2.5}, ds.Values("a"))
	assert.Equal(t, []any{"x", nil}, ds.Values("b"))
}

func TestParseJSONDefaultsColumnsToFirstRowOrder(t *testing.T) {
	body := []byte(`{"rows":[{"z":1,"y":false,"x":{"k":1}}]}`)

	ds, err := ParseJSON(body, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, ds.Columns)
	assert.Equal(t, false, ds.Rows[0]["y"])
	assert.Equal(t, `{"k":1}`, ds.Rows[0]["x"])
}

func TestParseJSONSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"not json":         `{"rows": [`,
		"missing rows":     `{"columns": ["a"]}`,
		"rows not objects": `{"rows": [1, 2]}`,
		"duplicate column": `{"columns": ["a", "a"], "rows": []}`,
		"top-level array":  `[{"a": 1}]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(body), "")
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}

func TestParseJSONDataPath(t *testing.T) {
	body := []byte(`{"meta":{"page":1},"data":{"items":[{"id":1,"v":"a"},{"id":2,"v":"b"}]}}`)

	ds, err := ParseJSON(body, "data.items")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "v"}, ds.Columns)
	assert.Equal(t, 2, ds.RowCount())

	_, err = ParseJSON(body, "data.missing")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = ParseJSON(body, "meta.page")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	single, err := ParseJSON(body, "meta")
	require.NoError(t, err)
	assert.Equal(t, 1, single.RowCount())
}
