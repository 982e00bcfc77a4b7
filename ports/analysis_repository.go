package ports

import (
	"context"

	"gomlready/domain/analysis"
	"gomlready/domain/core"
)

// AnalysisRepository stores finished analysis results.
type AnalysisRepository interface {
	Save(ctx context.Context, res *analysis.Result) error
	// Get returns core.ErrAnalysisNotFound for unknown IDs.
	Get(ctx context.Context, id core.AnalysisID) (*analysis.Result, error)
	// List returns the most recent results first.
	List(ctx context.Context, limit int) ([]analysis.Summary, error)
	Close() error
}
