// Package logger provides rating-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RatingLogger provides dedicated logging for rating engine operations.
type RatingLogger struct {
	*logrus.Entry
}

// NewRatingLogger creates a new rating logger.
func NewRatingLogger(baseLogger *logrus.Logger) *RatingLogger {
	return &RatingLogger{
		Entry: baseLogger.WithField("component", "rating"),
	}
}

// LogMatchProcessed logs a single processed match exchange.
func (rl *RatingLogger) LogMatchProcessed(matchKey, winnerKey, loserKey string, oddsUsed, expectedProb, pointsGained, pointsLost float64) {
	rl.WithFields(logrus.Fields{
		"match_key":     matchKey,
		"winner_key":    winnerKey,
		"loser_key":     loserKey,
		"odds_used":     oddsUsed,
		"expected_prob": expectedProb,
		"points_gained": pointsGained,
		"points_lost":   pointsLost,
	}).Debug("Match processed")
}

// LogReplayDay logs progress through one day of a history replay.
func (rl *RatingLogger) LogReplayDay(day time.Time, processed, skipped, withOdds int) {
	rl.WithFields(logrus.Fields{
		"day":       day.Format("2006-01-02"),
		"processed": processed,
		"skipped":   skipped,
		"with_odds": withOdds,
	}).Info("Replay day completed")
}

// LogReplayComplete logs a completed full history replay.
func (rl *RatingLogger) LogReplayComplete(players, processed, skipped int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"players":     players,
		"processed":   processed,
		"skipped":     skipped,
		"duration_ms": durationMs,
	}).Info("History replay completed")
}

// LogSkippedMatch logs a match the engine could not rate.
func (rl *RatingLogger) LogSkippedMatch(matchKey, reason string) {
	rl.WithFields(logrus.Fields{
		"match_key": matchKey,
		"reason":    reason,
	}).Warn("Match skipped")
}
