package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomlready/domain/analysis"
	"gomlready/domain/core"
	"gomlready/domain/dataset"
	"gomlready/domain/profile"
	"gomlready/domain/task"
	"gomlready/internal"
)

func quiet() *internal.Logger { return internal.NewLogger(internal.LogLevelError) }

// customers has an id key, a continuous age, a 3-level city and a yes/no
// label in the last column.
func customers(n int) *dataset.Dataset {
	rows := make([]dataset.Row, n)
	for i := range rows {
		label := "no"
		if i%3 == 0 {
			label = "yes"
		}
		rows[i] = dataset.Row{
			"id":     i + 1,
			"age":    18 + float64(i)*0.37,
			"city":   []string{"paris", "lyon", "nice"}[i%3],
			"bought": label,
		}
	}
	return &dataset.Dataset{Columns: []string{"id", "age", "city", "bought"}, Rows: rows}
}

func stageError(r *analysis.Result, stage analysis.StageName) *analysis.StageError {
	for i := range r.StageErrors {
		if r.StageErrors[i].Stage == stage {
			return &r.StageErrors[i]
		}
	}
	return nil
}

func TestRunEndToEnd(t *testing.T) {
	res := New(2, quiet()).Run(context.Background(), customers(60), analysis.Options{})

	require.True(t, res.Success, res.Error)
	assert.Empty(t, res.Error)
	assert.True(t, res.PipelineReady)
	assert.Equal(t, analysis.StageDone, res.Stage)
	assert.NotEmpty(t, res.ID.String())

	assert.Equal(t, 60, res.DatasetInfo.Rows)
	assert.Equal(t, []string{"id", "age", "city", "bought"}, res.DatasetInfo.Headers)

	require.NotNil(t, res.Quality)
	id, ok := res.Quality.Profile("id")
	require.True(t, ok)
	assert.Equal(t, profile.TypeIdentifier, id.Type)
	assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(4), int64(5)}, id.SampleValues)

	require.NotNil(t, res.Task)
	assert.True(t, res.Task.Is(task.Classification))
	assert.Equal(t, "bought", res.Task.Target())
	assert.Equal(t, 0.9, res.Task.Confidence)

	var idSuggestions []string
	for _, s := range res.Features {
		if s.Column == "id" {
			idSuggestions = append(idSuggestions, s.Technique)
		}
	}
	assert.Equal(t, []string{"Drop Column"}, idSuggestions)

	require.NotEmpty(t, res.Models)
	assert.True(t, sort.SliceIsSorted(res.Models, func(i, j int) bool { return res.Models[i].Score > res.Models[j].Score }))
	assert.Len(t, res.Timings, 4)
}

func TestRunIsDeterministic(t *testing.T) {
	ds := customers(80)
	a := New(1, quiet()).Run(context.Background(), ds, analysis.Options{})
	b := New(4, quiet()).Run(context.Background(), ds, analysis.Options{})

	ignore := cmpopts.IgnoreFields(analysis.Result{}, "ID", "CreatedAt", "Timings")
	if diff := cmp.Diff(a, b, ignore); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestRunTaskTypeOverride(t *testing.T) {
	opts := analysis.Options{TaskType: task.Regression.Ptr()}
	res := New(1, quiet()).Run(context.Background(), customers(60), opts)

	require.True(t, res.Success, res.Error)
	assert.True(t, res.Task.Is(task.Regression))
	assert.Equal(t, 0.95, res.Task.Confidence)
	assert.Equal(t, "Task type overridden to regression", res.Task.Reasoning[len(res.Task.Reasoning)-1])
	assert.Nil(t, res.Task.BalanceRatio)
	assert.False(t, res.Task.IsImbalanced)
	require.NotEmpty(t, res.Models)
	for _, m := range res.Models {
		assert.NotContains(t, m.Name, "Classifier")
	}
}

func TestRunTargetOverride(t *testing.T) {
	res := New(1, quiet()).Run(context.Background(), customers(60), analysis.Options{TargetColumn: "age"})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "age", res.Task.Target())
	assert.True(t, res.Task.Is(task.Regression))
	assert.Equal(t, 0.95, res.Task.Confidence)
	assert.Contains(t, res.Task.Reasoning, "Target column set to 'age'")
}

func TestRunTargetNotFound(t *testing.T) {
	res := New(1, quiet()).Run(context.Background(), customers(60), analysis.Options{TargetColumn: "missing"})

	assert.False(t, res.Success)
	assert.False(t, res.PipelineReady)
	se := stageError(res, analysis.StageTask)
	require.NotNil(t, se)
	assert.Equal(t, analysis.CodeTargetNotFound, se.Code)
	assert.Contains(t, res.Error, `"missing"`)

	// The detected target survives and downstream stages still run.
	assert.Equal(t, "bought", res.Task.Target())
	assert.NotEmpty(t, res.Features)
	assert.NotEmpty(t, res.Models)
}

func TestRunTaskStagePanicIsIsolated(t *testing.T) {
	o := New(1, quiet())
	o.detect = func(*dataset.Dataset, *profile.QualityReport) task.Detection {
		panic("malformed row")
	}

	res := o.Run(context.Background(), customers(30), analysis.Options{})

	assert.False(t, res.Success)
	require.NotNil(t, res.Quality)
	assert.Nil(t, res.Task)

	se := stageError(res, analysis.StageTask)
	require.NotNil(t, se)
	assert.Equal(t, analysis.CodeStagePanic, se.Code)
	assert.Contains(t, res.Error, "task: malformed row")

	// Features only need quality, so they run task-agnostic.
	assert.NotEmpty(t, res.Features)
	assert.Nil(t, stageError(res, analysis.StageFeatures))

	models := stageError(res, analysis.StageModels)
	require.NotNil(t, models)
	assert.Equal(t, analysis.CodeStageSkipped, models.Code)
	assert.Empty(t, res.Models)
}

func TestRunQualityFailureSkipsEverything(t *testing.T) {
	o := New(1, quiet())
	o.profile = func(context.Context, *dataset.Dataset) (*profile.QualityReport, error) {
		return nil, errors.New("disk on fire")
	}

	res := o.Run(context.Background(), customers(20), analysis.Options{})

	assert.False(t, res.Success)
	assert.Equal(t, 20, res.DatasetInfo.Rows)
	assert.Nil(t, res.Quality)
	require.Len(t, res.StageErrors, 4)
	assert.Equal(t, analysis.CodeStageFailed, res.StageErrors[0].Code)
	for _, se := range res.StageErrors[1:] {
		assert.Equal(t, analysis.CodeStageSkipped, se.Code, fmt.Sprint(se))
	}
	assert.ErrorIs(t, res.Err(), core.ErrStageFailed)
	assert.ErrorIs(t, res.Err(), core.ErrStageSkipped)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(1, quiet()).Run(ctx, customers(20), analysis.Options{})

	assert.False(t, res.Success)
	require.NotEmpty(t, res.StageErrors)
	assert.Equal(t, analysis.CodeCanceled, res.StageErrors[0].Code)
}

func TestRunNilDataset(t *testing.T) {
	res := Run(context.Background(), nil, analysis.Options{})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.NotNil(t, res.Features)
	assert.NotNil(t, res.Models)
}

func TestRunEmptyDataset(t *testing.T) {
	res := New(1, quiet()).Run(context.Background(), &dataset.Dataset{}, analysis.Options{})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, 100.0, res.Quality.QualityScore)
	assert.Nil(t, res.Task.TaskType)
	assert.Empty(t, res.Models)
}

func TestRunOverflowingColumnStillEncodes(t *testing.T) {
	ds := customers(20)
	ds.Columns = append(ds.Columns, "big")
	for i, row := range ds.Rows {
		row["big"] = math.MaxFloat64 * (0.9 + float64(i)/1000)
	}

	res := New(1, quiet()).Run(context.Background(), ds, analysis.Options{})
	require.True(t, res.Success, res.Error)

	big, ok := res.Quality.Profile("big")
	require.True(t, ok)
	assert.Nil(t, big.Stats)

	_, err := json.Marshal(res)
	assert.NoError(t, err)
}
