package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"gomlready/domain/dataset"
)

// CustomerConfig configures the synthetic customer dataset
type CustomerConfig struct {
	Rows           int     `json:"rows"`
	MissingIncome  float64 `json:"missing_income"`  // fraction of null incomes
	OutlierSpend   float64 `json:"outlier_spend"`   // fraction of extreme spend values
	ChurnRate      float64 `json:"churn_rate"`      // fraction of "yes" labels
	IncludeSignups bool    `json:"include_signups"` // adds a date column
	Seed           int64   `json:"seed"`
}

// DefaultCustomerConfig returns a small, clean, roughly balanced dataset.
func DefaultCustomerConfig() CustomerConfig {
	return CustomerConfig{
		Rows:      200,
		ChurnRate: 0.4,
		Seed:      42,
	}
}

var (
	plans   = []string{"basic", "plus", "pro"}
	regions = []string{"north", "south", "east", "west"}
)

// Customers generates a deterministic customer table whose last column,
// churned, is a yes/no label.
func Customers(cfg CustomerConfig) *dataset.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	columns := []string{"customer_id", "age", "income", "monthly_spend", "plan", "region"}
	if cfg.IncludeSignups {
		columns = append(columns, "signup_date")
	}
	columns = append(columns, "churned")

	rows := make([]dataset.Row, cfg.Rows)
	for i := range rows {
		row := dataset.Row{
			"customer_id": i + 1,
			"age":         math.Round((18+rng.Float64()*60)*10) / 10,
			"income":      math.Round(20000 + rng.NormFloat64()*8000 + 40000),
			"plan":        plans[rng.Intn(len(plans))],
			"region":      regions[rng.Intn(len(regions))],
		}
		spend := math.Round((30+rng.Float64()*70)*100) / 100
		if rng.Float64() < cfg.OutlierSpend {
			spend *= 50
		}
		row["monthly_spend"] = spend
		if rng.Float64() < cfg.MissingIncome {
			row["income"] = nil
		}
		if cfg.IncludeSignups {
			row["signup_date"] = start.AddDate(0, 0, rng.Intn(365))
		}
		row["churned"] = "no"
		if rng.Float64() < cfg.ChurnRate {
			row["churned"] = "yes"
		}
		rows[i] = row
	}

	ds, err := dataset.New("customers", columns, rows)
	if err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}
	return ds
}

// CSV renders a dataset the way a spreadsheet export would.
func CSV(ds *dataset.Dataset) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(ds.Columns)
	for _, row := range ds.Rows {
		rec := make([]string, len(ds.Columns))
		for i, col := range ds.Columns {
			rec[i] = cell(row[col])
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return buf.Bytes()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}
