package app

import (
	"bytes"
	"context"
	"io"

	"golang.org/x/sync/semaphore"

	"gomlready/adapters/ingest"
	"gomlready/domain/analysis"
	"gomlready/domain/core"
	"gomlready/domain/dataset"
	"gomlready/domain/task"
	"gomlready/internal"
	"gomlready/internal/errors"
	"gomlready/internal/pipeline"
	"gomlready/ports"
)

// AnalysisService runs uploads through the pipeline and keeps the results
// when a repository is configured.
type AnalysisService struct {
	reader   *ingest.Reader
	pipeline *pipeline.Orchestrator
	repo     ports.AnalysisRepository
	sem      *semaphore.Weighted
	logger   *internal.Logger
}

// NewAnalysisService creates the service. repo may be nil, in which case
// results are returned but not stored. maxConcurrent bounds simultaneous
// pipeline runs.
func NewAnalysisService(reader *ingest.Reader, orchestrator *pipeline.Orchestrator, repo ports.AnalysisRepository, maxConcurrent int, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &AnalysisService{
		reader:   reader,
		pipeline: orchestrator,
		repo:     repo,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		logger:   logger.With("AnalysisService"),
	}
}

// ParseOptions validates caller overrides.
func ParseOptions(taskType, targetColumn string) (analysis.Options, error) {
	t, err := task.ParseType(taskType)
	if err != nil {
		return analysis.Options{}, errors.Wrap(err, "invalid task_type (expected classification or regression)")
	}
	return analysis.Options{TaskType: t, TargetColumn: targetColumn}, nil
}

// AnalyzeUpload reads a CSV or XLSX upload and analyzes it.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, filename string, body io.Reader, opts analysis.Options) (*analysis.Result, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	ds, err := s.reader.Read(filename, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	return s.analyze(ctx, ds, filename, core.NewHash(raw), opts)
}

// AnalyzeJSON parses a JSON document and analyzes it.
func (s *AnalysisService) AnalyzeJSON(ctx context.Context, body []byte, dataPath string, opts analysis.Options) (*analysis.Result, error) {
	ds, err := ingest.ParseJSON(body, dataPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON dataset")
	}
	source := ds.Name
	if source == "" {
		source = "json"
	}
	return s.analyze(ctx, ds, source, core.NewHash(body), opts)
}

// AnalyzeDataset waits for a pipeline slot, runs the analysis and stores
// the result. Validation problems become warnings. A failed save is logged
// and reported as a warning rather than failing the request.
func (s *AnalysisService) AnalyzeDataset(ctx context.Context, ds *dataset.Dataset, source string, opts analysis.Options) (*analysis.Result, error) {
	return s.analyze(ctx, ds, source, "", opts)
}

func (s *AnalysisService) analyze(ctx context.Context, ds *dataset.Dataset, source string, hash core.Hash, opts analysis.Options) (*analysis.Result, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Busy(err)
	}
	defer s.sem.Release(1)

	s.logger.Info("analyzing %s (%d rows, %d columns, content %s)", source, ds.RowCount(), ds.ColumnCount(), hash.Short())
	res := s.pipeline.Run(ctx, ds, opts)
	res.Source = source
	res.ContentHash = hash
	res.Warnings = append(res.Warnings, ds.Validate()...)

	if s.repo != nil {
		if err := s.repo.Save(ctx, res); err != nil {
			s.logger.Warn("failed to persist analysis %s: %v", res.ID, err)
			res.Warnings = append(res.Warnings, "Result could not be saved")
		}
	}
	return res, nil
}

// Validate reads an upload and returns its statistics and validation
// problems without analyzing it.
func (s *AnalysisService) Validate(filename string, body io.Reader) (dataset.Summary, dataset.Stats, []string, error) {
	ds, err := s.reader.Read(filename, body)
	if err != nil {
		return dataset.Summary{}, dataset.Stats{}, nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	return ds.Summarize(), ds.Stats(), ds.Validate(), nil
}

// Get loads a stored result.
func (s *AnalysisService) Get(ctx context.Context, rawID string) (*analysis.Result, error) {
	if s.repo == nil {
		return nil, errors.StoreUnavailable()
	}
	id, err := core.ParseAnalysisID(rawID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid analysis id")
	}
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load analysis %s", id)
	}
	return res, nil
}

// List returns recent stored results.
func (s *AnalysisService) List(ctx context.Context, limit int) ([]analysis.Summary, error) {
	if s.repo == nil {
		return nil, errors.StoreUnavailable()
	}
	if limit < 0 {
		return nil, errors.InvalidInput("limit cannot be negative")
	}
	summaries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return summaries, nil
}

// Persistent reports whether results are stored.
func (s *AnalysisService) Persistent() bool {
	return s.repo != nil
}
