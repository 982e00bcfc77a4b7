// Package ingest turns uploaded files and JSON payloads into datasets.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gomlready/domain/core"
	"gomlready/domain/dataset"
	"gomlready/internal"
)

// Format is a supported tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", core.ErrUnsupportedFormat, filepath.Ext(name))
}

// Reader reads CSV and Excel files.
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a reader. A nil logger uses the default one.
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Reader{logger: logger.With("Ingest")}
}

// ReadFile opens path and reads it by extension.
func (r *Reader) ReadFile(path string) (*dataset.Dataset, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(filepath.Base(path), f)
}

// Read parses an upload named name. The name only selects the format and
// becomes the dataset name.
func (r *Reader) Read(name string, src io.Reader) (*dataset.Dataset, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(src)
	case FormatXLSX:
		records, err = readXLSX(src)
	}
	if err != nil {
		return nil, err
	}

	ds, err := fromRecords(name, records)
	if err != nil {
		return nil, err
	}
	r.logger.Info("%s read in %.2fms (%d columns, %d rows)",
		name, float64(time.Since(start).Nanoseconds())/1e6, ds.ColumnCount(), ds.RowCount())
	return ds, nil
}

func readCSV(src io.Reader) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	// Excel likes to prefix CSV exports with a byte order mark.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedRow, err)
	}
	return records, nil
}

// readXLSX reads the first sheet of the workbook.
func readXLSX(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptyDataset
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// fromRecords treats the first record as the header and coerces each column.
func fromRecords(name string, records [][]string) (*dataset.Dataset, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyDataset
	}

	header := records[0]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
		if columns[i] == "" {
			columns[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	body := records[1:]
	cells := make([][]string, len(columns))
	for c := range cells {
		cells[c] = make([]string, len(body))
	}
	for i, rec := range body {
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", core.ErrMalformedRow, i+2, len(rec), len(columns))
		}
		for c, cell := range rec {
			cells[c][i] = cell
		}
	}

	rows := make([]dataset.Row, len(body))
	for i := range rows {
		rows[i] = make(dataset.Row, len(columns))
	}
	for c, col := range columns {
		for i, v := range CoerceColumn(cells[c]) {
			rows[i][col] = v
		}
	}
	return dataset.New(name, columns, rows)
}
