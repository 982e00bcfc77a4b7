// Package quality profiles every column of a dataset and scores its
// data-quality issues.
package quality

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"gomlready/domain/dataset"
	"gomlready/domain/profile"
	"gomlready/internal/heuristics"
	"gomlready/internal/inference"
	"gomlready/internal/stats"
)

// Analyzer builds quality reports. Columns are profiled concurrently with
// at most Workers goroutines; output order always follows column order.
type Analyzer struct {
	Workers int
}

// NewAnalyzer creates an analyzer; workers <= 0 means runtime.NumCPU().
func NewAnalyzer(workers int) *Analyzer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Analyzer{Workers: workers}
}

// Analyze is NewAnalyzer(0).Analyze.
func Analyze(ctx context.Context, ds *dataset.Dataset) (*profile.QualityReport, error) {
	return NewAnalyzer(0).Analyze(ctx, ds)
}

type columnResult struct {
	profile profile.ColumnProfile
	issues  []profile.QualityIssue
}

// Analyze profiles each column, applies the issue rules, scans numeric pairs
// for strong correlation and computes the aggregate score. Degenerate data
// never produces an error; only cancellation or an internal fault does.
func (a *Analyzer) Analyze(ctx context.Context, ds *dataset.Dataset) (*profile.QualityReport, error) {
	results := make([]columnResult, len(ds.Columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)
	for i, col := range ds.Columns {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("profiling column %q: %v", col, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			p := ProfileColumn(col, ds.Values(col))
			results[i] = columnResult{profile: p, issues: ColumnIssues(p)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &profile.QualityReport{
		Profiles:     make([]profile.ColumnProfile, 0, len(results)),
		Issues:       []profile.QualityIssue{},
		Correlations: []profile.CorrelationPair{},
	}
	for _, r := range results {
		report.Profiles = append(report.Profiles, r.profile)
		report.Issues = append(report.Issues, r.issues...)
	}

	pairs, pairIssues := Correlations(ds, report.Profiles)
	report.Correlations = append(report.Correlations, pairs...)
	report.Issues = append(report.Issues, pairIssues...)

	report.QualityScore = Score(report.Profiles, report.Issues)
	report.Summary = Summarize(report)
	return report, nil
}

// ProfileColumn merges type inference with optional numeric statistics.
func ProfileColumn(name string, values []any) profile.ColumnProfile {
	nonNull := inference.NonNull(values)
	inf := inference.Infer(values)

	p := profile.ColumnProfile{
		Name:           name,
		Type:           inf.Type,
		TypeConfidence: round(inf.Confidence, 2),
		NullCount:      len(values) - len(nonNull),
		NonNullCount:   len(nonNull),
		Unique:         inference.UniqueCount(nonNull),
		SampleValues:   inference.Samples(nonNull, heuristics.SampleValueLimit),
	}
	if len(values) > 0 {
		p.NullPercentage = round(float64(p.NullCount)/float64(len(values))*100, 2)
	}
	if len(nonNull) > 0 {
		p.UniqueRatio = round(float64(p.Unique)/float64(len(nonNull)), 3)
	}
	if inf.Type.IsNumericLike() {
		p.Stats = stats.Describe(values)
	}
	return p
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
