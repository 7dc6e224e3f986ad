package rating

import (
	"math"

	"github.com/yourusername/owl-tennis/internal/models"
)

// applyChange folds one immutable ledger entry into a player's rating state:
// counters, peak tracking, the capped newest-first window, and the derived
// momentum/consistency/rolling stats.
func applyChange(p *models.PlayerRating, change models.RatingChange) {
	p.Rating = change.RatingAfter
	p.MatchesPlayed++
	if change.Won {
		p.Wins++
	} else {
		p.Losses++
	}
	if p.Rating > p.PeakRating {
		p.PeakRating = p.Rating
		p.PeakDate = change.MatchDate
	}

	p.RecentChanges = append([]models.RatingChange{change}, p.RecentChanges...)
	if len(p.RecentChanges) > models.RecentChangesCap {
		p.RecentChanges = p.RecentChanges[:models.RecentChangesCap]
	}

	recomputeDerived(p)
}

// recomputeDerived recalculates the rolling window stats from the capped
// ledger. Entries are newest-first.
func recomputeDerived(p *models.PlayerRating) {
	changes := p.RecentChanges

	window := changes
	if len(window) > 10 {
		window = window[:10]
	}
	wins := 0
	for _, c := range window {
		if c.Won {
			wins++
		}
	}
	if len(window) > 0 {
		p.Last10WinRate = float64(wins) / float64(len(window))
	} else {
		p.Last10WinRate = 0
	}

	var winSum, lossSum float64
	var winCount, lossCount int
	for _, c := range changes {
		if c.Won {
			winSum += c.PointsChange
			winCount++
		} else {
			lossSum += math.Abs(c.PointsChange)
			lossCount++
		}
	}
	p.AvgPointsPerWin = 0
	p.AvgPointsPerLoss = 0
	if winCount > 0 {
		p.AvgPointsPerWin = winSum / float64(winCount)
	}
	if lossCount > 0 {
		p.AvgPointsPerLoss = lossSum / float64(lossCount)
	}

	p.MomentumScore = momentumScore(changes, 7)
	p.MomentumTrend = models.MomentumTrendFor(p.MomentumScore)
	p.ConsistencyScore = consistencyScore(changes, models.RecentChangesCap)
}

// momentumScore sums the point changes over the most recent window entries.
func momentumScore(changes []models.RatingChange, window int) float64 {
	if len(changes) > window {
		changes = changes[:window]
	}
	sum := 0.0
	for _, c := range changes {
		sum += c.PointsChange
	}
	return sum
}

// consistencyScore is the population standard deviation of point changes
// over the most recent window entries; 0 when fewer than 3 entries exist.
func consistencyScore(changes []models.RatingChange, window int) float64 {
	if len(changes) > window {
		changes = changes[:window]
	}
	if len(changes) < 3 {
		return 0
	}
	values := make([]float64, len(changes))
	for i, c := range changes {
		values[i] = c.PointsChange
	}
	return populationStddev(values)
}

func populationStddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// round1 rounds to one decimal place, the precision of all point exchanges.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
