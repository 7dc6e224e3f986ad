package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/owl-tennis/internal/backtest"
	"github.com/yourusername/owl-tennis/internal/datasource"
	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/repository"
)

type stubDataSource struct {
	fixtures []datasource.FixtureData
	odds     []datasource.OddsDocument
}

func (s *stubDataSource) FetchFixtures(context.Context, time.Time, time.Time) ([]datasource.FixtureData, error) {
	return s.fixtures, nil
}

func (s *stubDataSource) FetchOdds(context.Context, time.Time, time.Time) ([]datasource.OddsDocument, error) {
	return s.odds, nil
}

func (s *stubDataSource) Name() string    { return "stub" }
func (s *stubDataSource) IsEnabled() bool { return true }

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

func TestSyncServiceStoresFixturesAndOdds(t *testing.T) {
	source := &stubDataSource{
		fixtures: []datasource.FixtureData{
			{
				EventKey: "e1", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				FirstKey: "a", SecondKey: "b", Winner: "a",
			},
			// Missing participant keys: must be rejected by validation.
			{EventKey: "e2", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
		odds: []datasource.OddsDocument{
			{EventKey: "e1", Bookmakers: map[string]datasource.BookmakerOdds{
				"bet365": {Home: "1.60", Away: "2.30"},
			}},
			// No usable bookmaker.
			{EventKey: "e2", Bookmakers: map[string]datasource.BookmakerOdds{}},
		},
	}

	matchRepo := new(MockMatchRepository)
	matchRepo.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(matches []*models.Match) bool {
		return len(matches) == 1 && matches[0].EventKey == "e1"
	})).Return(nil)

	oddsRepo := new(MockOddsRepository)
	oddsRepo.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(odds []*models.MatchOdds) bool {
		return len(odds) == 1 && odds[0].EventKey == "e1" && odds[0].Bookmaker == "bet365"
	})).Return(nil)

	repos := &repository.Repositories{Match: matchRepo, Odds: oddsRepo}
	svc := NewSyncService(source, repos, "bet365", nil, logrus.New())

	stats, err := svc.Sync(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FixturesFetched)
	assert.Equal(t, 1, stats.FixturesStored)
	assert.Equal(t, 1, stats.ValidationErrors)
	assert.Equal(t, 2, stats.OddsDocuments)
	assert.Equal(t, 1, stats.OddsStored)
	assert.Equal(t, 1, stats.OddsUnpriced)

	matchRepo.AssertExpectations(t)
	oddsRepo.AssertExpectations(t)
}

func verificationRecords() []*models.PredictionResult {
	odds1, odds2 := 2.0, 1.5
	return []*models.PredictionResult{
		{
			EventKey: "e1", Correct: true, Confidence: 0.65, BrierScore: 0.1225,
			BetPlaced: true, PredictedOdds: &odds1, Stake: 1, Profit: 1.0,
		},
		{
			EventKey: "e2", Correct: false, Confidence: 0.72, BrierScore: 0.5184,
			BetPlaced: true, PredictedOdds: &odds2, Stake: 1, Profit: -1.0,
		},
		{EventKey: "e3", Correct: true, Confidence: 0.55, BrierScore: 0.2025},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport("owl", verificationRecords())

	assert.Equal(t, 3, report.Predictions)
	assert.Equal(t, 2, report.Correct)
	assert.InDelta(t, 2.0/3.0, report.Accuracy, 1e-9)
	assert.InDelta(t, (0.1225+0.5184+0.2025)/3, report.AvgBrier, 1e-9)

	// Betting: won at 2.0 (+1.0), lost (-1.0).
	assert.Equal(t, 2, report.Betting.Bets)
	assert.InDelta(t, 0.0, report.Betting.TotalProfit, 1e-9)
	assert.Equal(t, 0.0, report.ROI)

	// The report's wagering numbers must be exactly what the shared
	// accumulator produces for the same bets.
	var expected backtest.BetStats
	expected.Record(2.0, true)
	expected.Record(1.5, false)
	assert.Equal(t, expected, report.Betting)
}

func TestVerifyWholeHistory(t *testing.T) {
	predictionRepo := new(MockPredictionResultRepository)
	predictionRepo.On("GetByModel", mock.Anything, "owl").Return(verificationRecords(), nil)

	repos := &repository.Repositories{PredictionResult: predictionRepo}
	svc := NewVerificationService(repos, logrus.New())

	report, err := svc.Verify(context.Background(), "owl", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Predictions)

	predictionRepo.AssertNotCalled(t, "GetByModelAndRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyDateRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	predictionRepo := new(MockPredictionResultRepository)
	predictionRepo.On("GetByModelAndRange", mock.Anything, "owl", start, end).
		Return(verificationRecords()[:1], nil)

	repos := &repository.Repositories{PredictionResult: predictionRepo}
	svc := NewVerificationService(repos, logrus.New())

	report, err := svc.Verify(context.Background(), "owl", start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Predictions)
	assert.Equal(t, 1.0, report.Accuracy)
}

const sampleCSV = `event_key,match_date,predicted_winner,actual_winner,confidence,odds,bet_placed
e1,2024-06-01,a,a,0.70,1.80,true
e2,2024-06-02,c,d,0.60,2.20,true
e3,2024-06-03,e,e,0.55,,false
e4,bad-date,g,g,0.80,1.50,true
e5,2024-06-05,h,h,1.40,1.50,true
`

func TestParsePredictionCSV(t *testing.T) {
	records, issues, err := ParsePredictionCSV(strings.NewReader(sampleCSV), "external")
	require.NoError(t, err)

	require.Len(t, records, 3)
	require.Len(t, issues, 2)
	assert.Equal(t, 5, issues[0].Line)
	assert.Contains(t, issues[0].Message, "match_date")
	assert.Contains(t, issues[1].Message, "confidence")

	first := records[0]
	assert.Equal(t, "external", first.ModelID)
	assert.True(t, first.Correct)
	assert.True(t, first.BetPlaced)
	require.NotNil(t, first.PredictedOdds)
	assert.InDelta(t, 0.8, first.Profit, 1e-9)
	// Correct pick at 0.70 confidence: Brier (1-0.7)^2.
	assert.InDelta(t, 0.09, first.BrierScore, 1e-9)

	second := records[1]
	assert.False(t, second.Correct)
	// Wrong pick at 0.60: actual winner had probability 0.4.
	assert.InDelta(t, 0.36, second.BrierScore, 1e-9)
	assert.InDelta(t, -1.0, second.Profit, 1e-9)

	third := records[2]
	assert.False(t, third.BetPlaced)
	assert.Nil(t, third.PredictedOdds)
}

func TestParsePredictionCSVBadHeader(t *testing.T) {
	_, _, err := ParsePredictionCSV(strings.NewReader("foo,bar\n"), "m")
	require.Error(t, err)
}

func TestCSVReportMatchesBuildReport(t *testing.T) {
	records, _, err := ParsePredictionCSV(strings.NewReader(sampleCSV), "external")
	require.NoError(t, err)

	report := BuildReport("external", records)

	var expected backtest.BetStats
	expected.Record(1.80, true)
	expected.Record(2.20, false)
	assert.Equal(t, expected, report.Betting)
	assert.Equal(t, expected.ROI(), report.ROI)
}
