package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gomlready/adapters/ingest"
	"gomlready/domain/analysis"
	"gomlready/domain/core"
	"gomlready/domain/task"
	"gomlready/internal"
	"gomlready/internal/errors"
	"gomlready/internal/pipeline"
	"gomlready/internal/testkit"
	"gomlready/ports"
)

func newService(repo ports.AnalysisRepository, maxConcurrent int) *AnalysisService {
	logger := internal.NewLogger(internal.LogLevelError)
	return NewAnalysisService(ingest.NewReader(logger), pipeline.New(1, logger), repo, maxConcurrent, logger)
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(" Regression ", "price")
	require.NoError(t, err)
	assert.Equal(t, task.Regression, *opts.TaskType)
	assert.Equal(t, "price", opts.TargetColumn)

	opts, err = ParseOptions("", "")
	require.NoError(t, err)
	assert.Nil(t, opts.TaskType)

	_, err = ParseOptions("clustering", "")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalyzeUploadPersists(t *testing.T) {
	repo := &testkit.MockAnalysisRepository{}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(r *analysis.Result) bool {
		return r.Source == "customers.csv" && r.Success
	})).Return(nil).Once()

	svc := newService(repo, 2)
	body := testkit.CSV(testkit.Customers(testkit.DefaultCustomerConfig()))

	res, err := svc.AnalyzeUpload(context.Background(), "customers.csv", bytes.NewReader(body), analysis.Options{})
	require.NoError(t, err)
	assert.True(t, res.Success, res.Error)
	assert.Equal(t, "churned", res.Task.Target())
	assert.Equal(t, core.NewHash(body), res.ContentHash)
	assert.Empty(t, res.Warnings)
	repo.AssertExpectations(t)
}

func TestAnalyzeUploadSaveFailureIsAWarning(t *testing.T) {
	repo := &testkit.MockAnalysisRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(fmt.Errorf("connection refused"))

	svc := newService(repo, 1)
	body := testkit.CSV(testkit.Customers(testkit.DefaultCustomerConfig()))

	res, err := svc.AnalyzeUpload(context.Background(), "customers.csv", bytes.NewReader(body), analysis.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "Result could not be saved")
}

func TestAnalyzeUploadReportsValidationWarnings(t *testing.T) {
	svc := newService(nil, 1)
	res, err := svc.AnalyzeUpload(context.Background(), "tiny.csv", strings.NewReader("a,b\n1,x\n2,y\n"), analysis.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "Dataset must have at least 10 rows for meaningful analysis")
}

func TestAnalyzeUploadRejectsBadFiles(t *testing.T) {
	svc := newService(nil, 1)

	_, err := svc.AnalyzeUpload(context.Background(), "model.pkl", strings.NewReader("x"), analysis.Options{})
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))

	_, err = svc.AnalyzeUpload(context.Background(), "bad.csv", strings.NewReader("a\n1,2\n"), analysis.Options{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalyzeJSON(t *testing.T) {
	svc := newService(nil, 1)
	body := []byte(`{"name":"tiny","rows":[{"x":1,"y":"a"},{"x":2,"y":"b"}]}`)

	res, err := svc.AnalyzeJSON(context.Background(), body, "", analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, "tiny", res.Source)
	assert.Equal(t, 2, res.DatasetInfo.Rows)

	_, err = svc.AnalyzeJSON(context.Background(), []byte(`{"rows": 3}`), "", analysis.Options{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalyzeDatasetHonorsContextWhenBusy(t *testing.T) {
	svc := newService(nil, 1)
	require.True(t, svc.sem.TryAcquire(1))
	defer svc.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.AnalyzeDataset(ctx, testkit.Customers(testkit.DefaultCustomerConfig()), "x", analysis.Options{})
	assert.Equal(t, errors.CodeBusy, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	svc := newService(nil, 1)
	summary, stats, problems, err := svc.Validate("tiny.csv", strings.NewReader("a\n1\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Columns)
	assert.Equal(t, 1, stats.TotalCells)
	assert.Contains(t, problems, "Dataset must have at least 2 columns")
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()

	_, err := newService(nil, 1).Get(ctx, "anything")
	assert.Equal(t, errors.CodeStoreUnavailable, errors.GetCode(err))
	_, err = newService(nil, 1).List(ctx, 5)
	assert.Equal(t, errors.CodeStoreUnavailable, errors.GetCode(err))

	repo := &testkit.MockAnalysisRepository{}
	svc := newService(repo, 1)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	known := core.NewAnalysisID()
	missing := core.NewAnalysisID()
	repo.On("Get", mock.Anything, known).Return(&analysis.Result{ID: known}, nil)
	repo.On("Get", mock.Anything, missing).Return(nil, fmt.Errorf("%w: %s", core.ErrAnalysisNotFound, missing))
	repo.On("List", mock.Anything, 5).Return([]analysis.Summary{{ID: known}}, nil)

	res, err := svc.Get(ctx, known.String())
	require.NoError(t, err)
	assert.Equal(t, known, res.ID)

	_, err = svc.Get(ctx, missing.String())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	list, err := svc.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, -1)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
