package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/owl-tennis/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestAnalyzeByConfidenceBuckets(t *testing.T) {
	records := []*models.PredictionResult{
		{Confidence: 0.55, Correct: true, BetPlaced: true, PredictedOdds: ptr(1.8)},
		{Confidence: 0.58, Correct: false, BetPlaced: true, PredictedOdds: ptr(2.2)},
		{Confidence: 0.72, Correct: true},
		{Confidence: 0.95, Correct: true, BetPlaced: true, PredictedOdds: ptr(1.2)},
	}

	buckets := AnalyzeByConfidence(records)
	require.Len(t, buckets, 7)

	assert.Equal(t, 0.3, buckets[0].Low)
	assert.InDelta(t, 1.0, buckets[6].High, 1e-9)

	// [0.5, 0.6)
	b := buckets[2]
	assert.Equal(t, 2, b.Predictions)
	assert.Equal(t, 1, b.Correct)
	assert.Equal(t, 0.5, b.Accuracy)
	assert.Equal(t, 2, b.Stats.Bets)
	// won at 1.8 (+0.8), lost (-1.0)
	assert.InDelta(t, -10.0, b.ROI, 1e-9)

	// [0.7, 0.8): scored but never staked
	b = buckets[4]
	assert.Equal(t, 1, b.Predictions)
	assert.Equal(t, 1.0, b.Accuracy)
	assert.Equal(t, 0, b.Stats.Bets)
	assert.Equal(t, 0.0, b.ROI)

	// [0.9, 1.0]
	b = buckets[6]
	assert.Equal(t, 1, b.Predictions)
	assert.InDelta(t, 0.2, b.Stats.TotalProfit, 1e-9)
}

func TestAnalyzeByConfidenceTopBucketIncludesOne(t *testing.T) {
	buckets := AnalyzeByConfidence([]*models.PredictionResult{
		{Confidence: 1.0, Correct: true},
	})

	assert.Equal(t, 1, buckets[6].Predictions)
}

func TestAnalyzeByConfidenceExcludesBelowFloor(t *testing.T) {
	buckets := AnalyzeByConfidence([]*models.PredictionResult{
		{Confidence: 0.25, Correct: true},
	})

	for _, b := range buckets {
		assert.Equal(t, 0, b.Predictions)
	}
}

func TestAnalyzeByConfidenceMatchesBetStats(t *testing.T) {
	// Bucket ROI must agree exactly with the shared accumulator fed the
	// same bets.
	records := []*models.PredictionResult{
		{Confidence: 0.65, Correct: true, BetPlaced: true, PredictedOdds: ptr(2.0)},
		{Confidence: 0.67, Correct: false, BetPlaced: true, PredictedOdds: ptr(3.0)},
		{Confidence: 0.61, Correct: true, BetPlaced: true, PredictedOdds: ptr(1.5)},
	}

	var expected BetStats
	for _, r := range records {
		expected.Record(*r.PredictedOdds, r.Correct)
	}

	buckets := AnalyzeByConfidence(records)
	b := buckets[3] // [0.6, 0.7)
	assert.Equal(t, expected, b.Stats)
	assert.Equal(t, expected.ROI(), b.ROI)
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.ModelID = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.EndDate = bad.StartDate
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MinOdds = 3.0
	bad.MaxOdds = 2.0
	assert.Error(t, bad.Validate())
}
