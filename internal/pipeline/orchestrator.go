// Package pipeline sequences the advisory engines over one dataset and
// isolates failures per stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gomlready/domain/advice"
	"gomlready/domain/analysis"
	"gomlready/domain/core"
	"gomlready/domain/dataset"
	"gomlready/domain/profile"
	"gomlready/domain/task"
	"gomlready/internal"
	"gomlready/internal/detect"
	"gomlready/internal/features"
	"gomlready/internal/heuristics"
	"gomlready/internal/quality"
	"gomlready/internal/recommend"
)

// Orchestrator runs quality -> task -> features -> models. It holds no
// per-run state and is safe for concurrent use.
type Orchestrator struct {
	logger *internal.Logger

	profile   func(context.Context, *dataset.Dataset) (*profile.QualityReport, error)
	detect    func(*dataset.Dataset, *profile.QualityReport) task.Detection
	suggest   func(*profile.QualityReport, *task.Type) []advice.FeatureSuggestion
	recommend func(*profile.QualityReport, *task.Detection, int) []advice.ModelRecommendation
}

// New creates an orchestrator profiling columns with the given number of
// workers (<= 0 means one per CPU).
func New(workers int, logger *internal.Logger) *Orchestrator {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Orchestrator{
		logger:    logger.With("Pipeline"),
		profile:   quality.NewAnalyzer(workers).Analyze,
		detect:    detect.Detect,
		suggest:   features.Suggest,
		recommend: recommend.Recommend,
	}
}

// Run analyzes ds with default settings.
func Run(ctx context.Context, ds *dataset.Dataset, opts analysis.Options) *analysis.Result {
	return New(0, nil).Run(ctx, ds, opts)
}

// Run always returns a well-formed, normalized result. A failing stage is
// recorded as a stage error; stages that depend on it are skipped while
// independent ones still run.
func (o *Orchestrator) Run(ctx context.Context, ds *dataset.Dataset, opts analysis.Options) *analysis.Result {
	res := &analysis.Result{
		ID:        core.NewAnalysisID(),
		Success:   true,
		CreatedAt: core.Now(),
		Features:  []advice.FeatureSuggestion{},
		Models:    []advice.ModelRecommendation{},
		Stage:     analysis.StageQuality,
	}
	defer res.Normalize()

	if ds == nil {
		res.AddError(analysis.StageError{Stage: analysis.StageQuality, Code: analysis.CodeStageFailed, Message: core.ErrEmptyDataset.Error()})
		return res
	}
	res.DatasetInfo = ds.Summarize()

	qualityOK := o.stage(ctx, res, analysis.StageQuality, func() error {
		report, err := o.profile(ctx, ds)
		if err != nil {
			return err
		}
		res.Quality = report
		return nil
	})

	taskOK := false
	if o.requires(res, analysis.StageTask, map[analysis.StageName]bool{analysis.StageQuality: qualityOK}) {
		taskOK = o.stage(ctx, res, analysis.StageTask, func() error {
			d := o.detect(ds, res.Quality)
			res.Task = &d
			return nil
		})
		if taskOK {
			o.applyOverrides(ds, res, opts)
		}
	}

	if o.requires(res, analysis.StageFeatures, map[analysis.StageName]bool{analysis.StageQuality: qualityOK}) {
		o.stage(ctx, res, analysis.StageFeatures, func() error {
			var taskType *task.Type
			if res.Task != nil {
				taskType = res.Task.TaskType
			}
			res.Features = o.suggest(res.Quality, taskType)
			return nil
		})
	}

	if o.requires(res, analysis.StageModels, map[analysis.StageName]bool{analysis.StageQuality: qualityOK, analysis.StageTask: taskOK}) {
		o.stage(ctx, res, analysis.StageModels, func() error {
			res.Models = o.recommend(res.Quality, res.Task, ds.RowCount())
			return nil
		})
	}

	if res.Success {
		res.Stage = analysis.StageDone
	}
	res.PipelineReady = res.Success
	o.logger.Info("analysis %s finished: success=%v rows=%d columns=%d", res.ID, res.Success, res.DatasetInfo.Rows, res.DatasetInfo.Columns)
	return res
}

// requires records a skipped error naming the first failed dependency.
func (o *Orchestrator) requires(res *analysis.Result, stage analysis.StageName, deps map[analysis.StageName]bool) bool {
	for _, dep := range analysis.Stages {
		ok, needed := deps[dep]
		if needed && !ok {
			res.AddError(analysis.StageError{
				Stage:   stage,
				Code:    analysis.CodeStageSkipped,
				Message: fmt.Sprintf("skipped because stage %q failed", dep),
			})
			return false
		}
	}
	return true
}

// stage runs fn behind a recover boundary and records its timing.
func (o *Orchestrator) stage(ctx context.Context, res *analysis.Result, name analysis.StageName, fn func() error) (ok bool) {
	res.Stage = name
	if err := ctx.Err(); err != nil {
		res.AddError(analysis.StageError{Stage: name, Code: analysis.CodeCanceled, Message: err.Error()})
		return false
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("%v", core.NewStageError(string(name), fmt.Sprintf("panic: %v", r)))
			res.AddError(analysis.StageError{Stage: name, Code: analysis.CodeStagePanic, Message: fmt.Sprintf("%v", r)})
			ok = false
		}
		elapsed := time.Since(start)
		res.Timings = append(res.Timings, analysis.StageTiming{Stage: name, Success: ok, Duration: elapsed})
		o.logger.Debug("stage %s took %s (ok=%v)", name, elapsed, ok)
	}()

	if err := fn(); err != nil {
		code := analysis.CodeStageFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			code = analysis.CodeCanceled
		}
		o.logger.Warn("%v", core.NewStageError(string(name), err))
		res.AddError(analysis.StageError{Stage: name, Code: code, Message: err.Error()})
		return false
	}
	return true
}

// applyOverrides forces the caller's target column and task type onto the
// detection. An unknown target column is reported and the detected target
// is kept.
func (o *Orchestrator) applyOverrides(ds *dataset.Dataset, res *analysis.Result, opts analysis.Options) {
	d := res.Task
	changed := false

	if opts.TargetColumn != "" {
		if !ds.HasColumn(opts.TargetColumn) {
			err := core.NewTargetNotFoundError(opts.TargetColumn)
			res.AddError(analysis.StageError{Stage: analysis.StageTask, Code: analysis.CodeTargetNotFound, Message: err.Error()})
		} else {
			col := opts.TargetColumn
			d.TargetColumn = &col
			d.Confidence = heuristics.ConfidenceOverride
			d.NumClasses = nil
			d.TaskType = task.Classification.Ptr()
			if p, ok := res.Quality.Profile(col); ok {
				if p.Type.IsMeasure() {
					d.TaskType = task.Regression.Ptr()
				} else if p.Type.IsCategoryLike() {
					classes := p.Unique
					d.NumClasses = &classes
				}
			}
			d.Reasoning = append(d.Reasoning, fmt.Sprintf("Target column set to '%s'", col))
			changed = true
		}
	}

	if opts.TaskType != nil {
		t := *opts.TaskType
		d.TaskType = &t
		d.Confidence = heuristics.ConfidenceOverride
		d.Reasoning = append(d.Reasoning, fmt.Sprintf("Task type overridden to %s", t))
		changed = true
	}

	if changed {
		d.BalanceRatio = nil
		d.IsImbalanced = false
		if d.Is(task.Classification) && d.TargetColumn != nil {
			d.BalanceRatio = detect.BalanceRatio(ds.Values(*d.TargetColumn))
			d.IsImbalanced = d.BalanceRatio != nil && *d.BalanceRatio < heuristics.ImbalanceRatio
		}
	}
}
