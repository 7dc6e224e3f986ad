package backtest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/owl-tennis/internal/models"
)

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) UpsertBatch(ctx context.Context, matches []*models.Match) error {
	args := m.Called(ctx, matches)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByEventKey(ctx context.Context, eventKey string) (*models.Match, error) {
	args := m.Called(ctx, eventKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetFinishedByDay(ctx context.Context, day time.Time) ([]*models.Match, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetFinishedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Match, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetDateBounds(ctx context.Context) (time.Time, time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Get(1).(time.Time), args.Error(2)
}

type MockOddsRepository struct {
	mock.Mock
}

func (m *MockOddsRepository) UpsertBatch(ctx context.Context, odds []*models.MatchOdds) error {
	args := m.Called(ctx, odds)
	return args.Error(0)
}

func (m *MockOddsRepository) GetByEventKeys(ctx context.Context, eventKeys []string) (map[string]*models.MatchOdds, error) {
	args := m.Called(ctx, eventKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.MatchOdds), args.Error(1)
}

func (m *MockOddsRepository) GetByDateRange(ctx context.Context, start, end time.Time) (map[string]*models.MatchOdds, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.MatchOdds), args.Error(1)
}

type MockBacktestResultRepository struct {
	mock.Mock
}

func (m *MockBacktestResultRepository) Save(ctx context.Context, result *models.BacktestResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockBacktestResultRepository) DeleteByModelAndRange(ctx context.Context, modelID string, start, end time.Time) error {
	args := m.Called(ctx, modelID, start, end)
	return args.Error(0)
}

func (m *MockBacktestResultRepository) GetLatestByModel(ctx context.Context, modelID string, limit int) ([]*models.BacktestResult, error) {
	args := m.Called(ctx, modelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BacktestResult), args.Error(1)
}

type MockPredictionResultRepository struct {
	mock.Mock
}

func (m *MockPredictionResultRepository) InsertBatch(ctx context.Context, results []*models.PredictionResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockPredictionResultRepository) DeleteByModelAndRange(ctx context.Context, modelID string, start, end time.Time) error {
	args := m.Called(ctx, modelID, start, end)
	return args.Error(0)
}

func (m *MockPredictionResultRepository) GetByModel(ctx context.Context, modelID string) ([]*models.PredictionResult, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PredictionResult), args.Error(1)
}

func (m *MockPredictionResultRepository) GetByModelAndRange(ctx context.Context, modelID string, start, end time.Time) ([]*models.PredictionResult, error) {
	args := m.Called(ctx, modelID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PredictionResult), args.Error(1)
}
