package testkit

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomlready/domain/dataset"
)

func TestCustomersDeterministic(t *testing.T) {
	cfg := DefaultCustomerConfig()
	if diff := cmp.Diff(Customers(cfg), Customers(cfg)); diff != "" {
		t.Errorf("same seed produced different data:\n%s", diff)
	}
}

func TestCustomersShape(t *testing.T) {
	cfg := DefaultCustomerConfig()
	cfg.MissingIncome = 0.3
	cfg.IncludeSignups = true
	ds := Customers(cfg)

	assert.Equal(t, cfg.Rows, ds.RowCount())
	assert.Equal(t, "churned", ds.Columns[len(ds.Columns)-1])
	assert.Contains(t, ds.Columns, "signup_date")

	nulls := 0
	for _, v := range ds.Values("income") {
		if dataset.IsNull(v) {
			nulls++
		}
	}
	assert.InDelta(t, 0.3*float64(cfg.Rows), float64(nulls), 25)
}

func TestCSV(t *testing.T) {
	cfg := DefaultCustomerConfig()
	cfg.Rows = 3
	ds := Customers(cfg)

	records, err := csv.NewReader(bytes.NewReader(CSV(ds))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, ds.Columns, records[0])
	assert.Equal(t, "1", records[1][0])
}
