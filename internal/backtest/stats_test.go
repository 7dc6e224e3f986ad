package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetStatsRecord(t *testing.T) {
	var stats BetStats

	stats.Record(2.5, true)
	stats.Record(1.8, false)
	stats.Record(3.0, true)

	assert.Equal(t, 3, stats.Bets)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 3.0, stats.TotalStake)
	// +1.5 - 1.0 + 2.0
	assert.InDelta(t, 2.5, stats.TotalProfit, 1e-9)
	assert.InDelta(t, 2.0/3.0, stats.Accuracy(), 1e-9)
	assert.InDelta(t, 250.0/3.0, stats.ROI(), 1e-9)
}

func TestBetStatsROIIsPercentage(t *testing.T) {
	var stats BetStats

	// One win at 1.5 (+0.5) and one loss (-1.0) over a 2-unit stake.
	stats.Record(1.5, true)
	stats.Record(2.0, false)

	assert.InDelta(t, -25.0, stats.ROI(), 1e-9)
}

func TestBetStatsEmpty(t *testing.T) {
	var stats BetStats

	assert.Equal(t, 0.0, stats.Accuracy())
	assert.Equal(t, 0.0, stats.ROI())
	assert.Equal(t, 0.0, stats.TotalProfit)
}

func TestBetStatsAllLosses(t *testing.T) {
	var stats BetStats

	stats.Record(4.0, false)
	stats.Record(2.0, false)

	assert.Equal(t, 0, stats.Wins)
	assert.InDelta(t, -2.0, stats.TotalProfit, 1e-9)
	assert.InDelta(t, -100.0, stats.ROI(), 1e-9)
}
