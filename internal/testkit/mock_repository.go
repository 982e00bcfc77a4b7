package testkit

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gomlready/domain/analysis"
	"gomlready/domain/core"
)

// MockAnalysisRepository is a testify mock of ports.AnalysisRepository.
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Save(ctx context.Context, res *analysis.Result) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockAnalysisRepository) Get(ctx context.Context, id core.AnalysisID) (*analysis.Result, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*analysis.Result)
	return res, args.Error(1)
}

func (m *MockAnalysisRepository) List(ctx context.Context, limit int) ([]analysis.Summary, error) {
	args := m.Called(ctx, limit)
	summaries, _ := args.Get(0).([]analysis.Summary)
	return summaries, args.Error(1)
}

func (m *MockAnalysisRepository) Close() error {
	return m.Called().Error(0)
}
