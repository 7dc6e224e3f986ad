package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/predictor"
	"github.com/yourusername/owl-tennis/internal/repository"
)

// scriptedPredictor answers from a fixed table of event key to prediction.
type scriptedPredictor struct {
	id          string
	predictions map[string]*predictor.Prediction
	failures    map[string]error
}

func (s *scriptedPredictor) ModelID() string { return s.id }

func (s *scriptedPredictor) Predict(_ context.Context, match *models.Match, _ time.Time) (*predictor.Prediction, error) {
	if err, ok := s.failures[match.EventKey]; ok {
		return nil, err
	}
	pred, ok := s.predictions[match.EventKey]
	if !ok {
		return nil, errors.New("no scripted prediction")
	}
	return pred, nil
}

func testConfig() Config {
	return Config{
		ModelID:   "owl",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func fixtureMatches() []*models.Match {
	return []*models.Match{
		{
			EventKey: "m1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			FirstKey: "a", SecondKey: "b", Winner: "a",
		},
		{
			EventKey: "m2", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			FirstKey: "c", SecondKey: "d", Winner: models.WinnerSecondPlayer,
		},
		{
			EventKey: "m3", Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			FirstKey: "e", SecondKey: "f", Winner: "",
		},
		{
			EventKey: "m4", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			FirstKey: "g", SecondKey: "h", Winner: "g",
		},
	}
}

func fixtureOdds() map[string]*models.MatchOdds {
	return map[string]*models.MatchOdds{
		"m1": {EventKey: "m1", Home: 1.5, Away: 2.5, Bookmaker: "bet365"},
		"m2": {EventKey: "m2", Home: 2.0, Away: 1.8, Bookmaker: "bet365"},
	}
}

func fixturePredictor() *scriptedPredictor {
	return &scriptedPredictor{
		id: "owl",
		predictions: map[string]*predictor.Prediction{
			"m1": {
				EventKey: "m1", ModelID: "owl", PredictedWinnerKey: "a",
				Probabilities: map[string]float64{"a": 0.8, "b": 0.2},
				Confidence:    0.8,
			},
			"m2": {
				EventKey: "m2", ModelID: "owl", PredictedWinnerKey: "c",
				Probabilities: map[string]float64{"c": 0.6, "d": 0.4},
				Confidence:    0.6,
			},
		},
		failures: map[string]error{"m4": errors.New("model unavailable")},
	}
}

func setupEngine(t *testing.T, cfg Config) (*Engine, *MockBacktestResultRepository, *MockPredictionResultRepository) {
	t.Helper()

	matchRepo := new(MockMatchRepository)
	matchRepo.On("GetFinishedByDateRange", mock.Anything, cfg.StartDate, cfg.EndDate).
		Return(fixtureMatches(), nil)

	oddsRepo := new(MockOddsRepository)
	oddsRepo.On("GetByDateRange", mock.Anything, cfg.StartDate, cfg.EndDate).
		Return(fixtureOdds(), nil)

	resultRepo := new(MockBacktestResultRepository)
	resultRepo.On("DeleteByModelAndRange", mock.Anything, "owl", cfg.StartDate, cfg.EndDate).Return(nil)
	resultRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	predictionRepo := new(MockPredictionResultRepository)
	predictionRepo.On("DeleteByModelAndRange", mock.Anything, "owl", cfg.StartDate, cfg.EndDate).Return(nil)
	predictionRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)

	repos := &repository.Repositories{
		Match:            matchRepo,
		Odds:             oddsRepo,
		BacktestResult:   resultRepo,
		PredictionResult: predictionRepo,
	}

	catalog := predictor.NewCatalog(fixturePredictor())
	engine, err := NewEngine(cfg, repos, catalog, logrus.New())
	require.NoError(t, err)

	return engine, resultRepo, predictionRepo
}

func TestEngineRunAggregates(t *testing.T) {
	engine, resultRepo, predictionRepo := setupEngine(t, testConfig())

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalMatches)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
	// m3 has no winner, m4's prediction failed
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0.5, result.Accuracy)
	// Briers: (1-0.8)^2 = 0.04 and (1-0.4)^2 = 0.36
	assert.InDelta(t, 0.2, result.AvgBrierScore, 1e-9)

	assert.Equal(t, 2, result.MatchesWithOdds)
	assert.Equal(t, 2, result.BetsPlaced)
	assert.Equal(t, 2.0, result.TotalStake)
	// m1 won at 1.5 (+0.5), m2 lost (-1.0): -0.5 over a 2-unit stake.
	assert.InDelta(t, -0.5, result.TotalProfit, 1e-9)
	assert.InDelta(t, -25.0, result.ROI, 1e-9)

	require.Len(t, result.Records, 2)
	first := result.Records[0]
	assert.Equal(t, "m1", first.EventKey)
	assert.True(t, first.Correct)
	assert.True(t, first.BetPlaced)
	require.NotNil(t, first.PredictedOdds)
	assert.Equal(t, 1.5, *first.PredictedOdds)
	assert.InDelta(t, 0.04, first.BrierScore, 1e-9)

	resultRepo.AssertExpectations(t)
	predictionRepo.AssertExpectations(t)
}

func TestEngineRunOddsFilter(t *testing.T) {
	cfg := testConfig()
	cfg.MinOdds = 1.8
	engine, _, _ := setupEngine(t, cfg)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	// m1 at 1.5 falls below the filter; m2 at 2.0 still qualifies.
	assert.Equal(t, 1, result.BetsPlaced)
	assert.Equal(t, 1, result.BetsSkippedByFilter)
	assert.Equal(t, 1.0, result.TotalStake)
	assert.InDelta(t, -1.0, result.TotalProfit, 1e-9)

	// Scoring is unaffected by the betting filter.
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
}

func TestEngineRunNoPersist(t *testing.T) {
	engine, resultRepo, predictionRepo := setupEngine(t, testConfig())
	engine.SetPersist(false)

	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	resultRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	predictionRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestEngineRunUnknownModel(t *testing.T) {
	cfg := testConfig()
	cfg.ModelID = "missing"

	repos := &repository.Repositories{}
	engine, err := NewEngine(cfg, repos, predictor.NewCatalog(), logrus.New())
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrUnknownModel)
}

func TestEngineRunDeterministic(t *testing.T) {
	engine1, _, _ := setupEngine(t, testConfig())
	engine2, _, _ := setupEngine(t, testConfig())
	engine1.SetPersist(false)
	engine2.SetPersist(false)

	r1, err := engine1.Run(context.Background())
	require.NoError(t, err)
	r2, err := engine2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1.Accuracy, r2.Accuracy)
	assert.Equal(t, r1.AvgBrierScore, r2.AvgBrierScore)
	assert.Equal(t, r1.TotalProfit, r2.TotalProfit)
	assert.Equal(t, r1.Skipped, r2.Skipped)
}

func TestCompareModels(t *testing.T) {
	cfg := testConfig()

	matchRepo := new(MockMatchRepository)
	matchRepo.On("GetFinishedByDateRange", mock.Anything, cfg.StartDate, cfg.EndDate).
		Return(fixtureMatches(), nil)
	oddsRepo := new(MockOddsRepository)
	oddsRepo.On("GetByDateRange", mock.Anything, cfg.StartDate, cfg.EndDate).
		Return(fixtureOdds(), nil)
	resultRepo := new(MockBacktestResultRepository)
	predictionRepo := new(MockPredictionResultRepository)

	repos := &repository.Repositories{
		Match:            matchRepo,
		Odds:             oddsRepo,
		BacktestResult:   resultRepo,
		PredictionResult: predictionRepo,
	}

	// The rival model misses m1 but scores m2 and m4, so it must rank above
	// the scripted model's 0.5.
	rival := &scriptedPredictor{
		id: "rival",
		predictions: map[string]*predictor.Prediction{
			"m1": {EventKey: "m1", PredictedWinnerKey: "b", Probabilities: map[string]float64{"a": 0.3, "b": 0.7}, Confidence: 0.7},
			"m2": {EventKey: "m2", PredictedWinnerKey: "d", Probabilities: map[string]float64{"c": 0.3, "d": 0.7}, Confidence: 0.7},
			"m4": {EventKey: "m4", PredictedWinnerKey: "g", Probabilities: map[string]float64{"g": 0.7, "h": 0.3}, Confidence: 0.7},
		},
	}
	catalog := predictor.NewCatalog(fixturePredictor(), rival)

	engine, err := NewEngine(cfg, repos, catalog, logrus.New())
	require.NoError(t, err)

	results, err := engine.CompareModels(context.Background(), []string{"owl", "rival"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Contains(t, results, "owl")
	require.Contains(t, results, "rival")

	// rival scores m2 and m4 correct out of 3 scored matches.
	assert.InDelta(t, 2.0/3.0, results["rival"].Accuracy, 1e-9)
	assert.Equal(t, 0.5, results["owl"].Accuracy)

	ranked := RankResults(results)
	assert.Equal(t, "rival", ranked[0].ModelID)
	assert.Equal(t, "owl", ranked[1].ModelID)

	// Comparison runs never persist.
	resultRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	predictionRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestCompareModelsUnknownModelFails(t *testing.T) {
	cfg := testConfig()
	matchRepo := new(MockMatchRepository)
	matchRepo.On("GetFinishedByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Match{}, nil)
	oddsRepo := new(MockOddsRepository)
	oddsRepo.On("GetByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]*models.MatchOdds{}, nil)

	repos := &repository.Repositories{Match: matchRepo, Odds: oddsRepo}
	engine, err := NewEngine(cfg, repos, predictor.NewCatalog(fixturePredictor()), logrus.New())
	require.NoError(t, err)

	_, err = engine.CompareModels(context.Background(), []string{"owl", "missing"})
	assert.Error(t, err)
}
