package analysis

import (
	"errors"
	"strings"
	"time"

	"gomlready/domain/advice"
	"gomlready/domain/core"
	"gomlready/domain/dataset"
	"gomlready/domain/profile"
	"gomlready/domain/task"
)

// StageName represents a named stage in the pipeline
type StageName string

const (
	StageQuality  StageName = "quality"
	StageTask     StageName = "task"
	StageFeatures StageName = "features"
	StageModels   StageName = "models"
	StageDone     StageName = "done"
)

// Stages is the fixed execution order.
var Stages = []StageName{StageQuality, StageTask, StageFeatures, StageModels}

// Stage error codes
const (
	CodeStageFailed    = "stage_failed"
	CodeStagePanic     = "stage_panic"
	CodeStageSkipped   = "skipped"
	CodeTargetNotFound = "target_not_found"
	CodeCanceled       = "canceled"
)

// StageError is a failure captured at a stage boundary.
type StageError struct {
	Stage   StageName `json:"stage"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

func (e StageError) Error() string {
	return string(e.Stage) + ": " + e.Message
}

// Unwrap maps the code onto the matching core sentinel.
func (e StageError) Unwrap() error {
	switch e.Code {
	case CodeStageSkipped:
		return core.ErrStageSkipped
	case CodeTargetNotFound:
		return core.ErrTargetNotFound
	}
	return core.ErrStageFailed
}

// StageTiming records how long a stage ran.
type StageTiming struct {
	Stage    StageName     `json:"stage"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration_ns"`
}

// Options are caller overrides for one run.
type Options struct {
	TaskType     *task.Type `json:"task_type,omitempty"`
	TargetColumn string     `json:"target_column,omitempty"`
}

// Result is the aggregated output of one analysis. Fields of stages that did
// not complete stay nil.
type Result struct {
	ID            core.AnalysisID              `json:"id"`
	Source        string                       `json:"source,omitempty"`
	ContentHash   core.Hash                    `json:"content_hash,omitempty"`
	Success       bool                         `json:"success"`
	Error         string                       `json:"error,omitempty"`
	StageErrors   []StageError                 `json:"stage_errors,omitempty"`
	Timings       []StageTiming                `json:"timings,omitempty"`
	DatasetInfo   dataset.Summary              `json:"dataset_info"`
	Warnings      []string                     `json:"warnings,omitempty"`
	Quality       *profile.QualityReport       `json:"quality"`
	Task          *task.Detection              `json:"task"`
	Features      []advice.FeatureSuggestion   `json:"features"`
	Models        []advice.ModelRecommendation `json:"models"`
	PipelineReady bool                         `json:"pipeline_ready"`
	Stage         StageName                    `json:"stage"`
	CreatedAt     core.Timestamp               `json:"created_at"`
}

// Summary is the listing view of a stored result.
type Summary struct {
	ID           core.AnalysisID `json:"id" db:"id"`
	Source       string          `json:"source" db:"filename"`
	Rows         int             `json:"rows" db:"row_count"`
	Columns      int             `json:"columns" db:"column_count"`
	TaskType     *string         `json:"task_type" db:"task_type"`
	TargetColumn *string         `json:"target_column" db:"target_column"`
	QualityScore *float64        `json:"quality_score" db:"quality_score"`
	Success      bool            `json:"success" db:"success"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Summarize builds the listing view of r.
func (r *Result) Summarize() Summary {
	s := Summary{
		ID:        r.ID,
		Source:    r.Source,
		Rows:      r.DatasetInfo.Rows,
		Columns:   r.DatasetInfo.Columns,
		Success:   r.Success,
		CreatedAt: r.CreatedAt.Time(),
	}
	if r.Task != nil {
		if r.Task.TaskType != nil {
			name := string(*r.Task.TaskType)
			s.TaskType = &name
		}
		if r.Task.TargetColumn != nil {
			target := *r.Task.TargetColumn
			s.TargetColumn = &target
		}
	}
	if r.Quality != nil {
		score := r.Quality.QualityScore
		s.QualityScore = &score
	}
	return s
}

// AddError records a stage error and clears the success flag.
func (r *Result) AddError(e StageError) {
	r.StageErrors = append(r.StageErrors, e)
	r.Success = false
	msgs := make([]string, len(r.StageErrors))
	for i, se := range r.StageErrors {
		msgs[i] = se.Error()
	}
	r.Error = strings.Join(msgs, "; ")
}

// Err joins the recorded stage errors, or returns nil on a clean run.
func (r *Result) Err() error {
	if len(r.StageErrors) == 0 {
		return nil
	}
	errs := make([]error, len(r.StageErrors))
	for i, se := range r.StageErrors {
		errs[i] = se
	}
	return errors.Join(errs...)
}

// Failed reports whether the named stage recorded an error.
func (r *Result) Failed(stage StageName) bool {
	for _, e := range r.StageErrors {
		if e.Stage == stage {
			return true
		}
	}
	return false
}

// Normalize converts every loosely typed value (sample values,
// hyperparameters, snippet parameters) into portable scalars and drops
// non-finite optional statistics.
func (r *Result) Normalize() {
	if r.Quality != nil {
		for i := range r.Quality.Profiles {
			p := &r.Quality.Profiles[i]
			for j, v := range p.SampleValues {
				p.SampleValues[j] = core.Portable(v)
			}
			if p.Stats != nil {
				p.Stats.Skewness = core.FiniteOrNil(p.Stats.Skewness)
				p.Stats.Kurtosis = core.FiniteOrNil(p.Stats.Kurtosis)
				p.Stats.NormalityPValue = core.FiniteOrNil(p.Stats.NormalityPValue)
			}
		}
		r.Quality.QualityScore = core.Finite(r.Quality.QualityScore)
	}
	if r.Task != nil {
		r.Task.BalanceRatio = core.FiniteOrNil(r.Task.BalanceRatio)
	}
	for i := range r.Features {
		r.Features[i].Snippet.Params = portableMap(r.Features[i].Snippet.Params)
	}
	for i := range r.Models {
		r.Models[i].Hyperparameters = portableMap(r.Models[i].Hyperparameters)
		r.Models[i].Snippet.Params = portableMap(r.Models[i].Snippet.Params)
	}
}

func portableMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := core.Portable(m).(map[string]any)
	return out
}
