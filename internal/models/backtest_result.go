package models

import (
	"time"

	"github.com/google/uuid"
)

// BacktestResult represents one persisted backtest run for a model.
type BacktestResult struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	ModelID             string    `db:"model_id" json:"model_id"`
	RunDate             time.Time `db:"run_date" json:"run_date"`
	StartDate           time.Time `db:"start_date" json:"start_date"`
	EndDate             time.Time `db:"end_date" json:"end_date"`
	TotalMatches        int       `db:"total_matches" json:"total_matches"`
	Correct             int       `db:"correct" json:"correct"`
	Incorrect           int       `db:"incorrect" json:"incorrect"`
	Skipped             int       `db:"skipped" json:"skipped"`
	Accuracy            float64   `db:"accuracy" json:"accuracy"`
	AvgBrierScore       float64   `db:"avg_brier_score" json:"avg_brier_score"`
	MatchesWithOdds     int       `db:"matches_with_odds" json:"matches_with_odds"`
	BetsPlaced          int       `db:"bets_placed" json:"bets_placed"`
	BetsSkippedByFilter int       `db:"bets_skipped_by_filter" json:"bets_skipped_by_filter"`
	MinOdds             float64   `db:"min_odds" json:"min_odds"`
	MaxOdds             float64   `db:"max_odds" json:"max_odds"`
	TotalStake          float64   `db:"total_stake" json:"total_stake"`
	TotalProfit         float64   `db:"total_profit" json:"total_profit"`
	ROI                 float64   `db:"roi" json:"roi"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`

	// Records holds the per-match results that produced this aggregate.
	// Persisted in their own table, not as a column.
	Records []*PredictionResult `db:"-" json:"records,omitempty"`
}

// MatchesWithResults returns the number of matches that were actually scored.
func (r *BacktestResult) MatchesWithResults() int {
	return r.Correct + r.Incorrect
}

// PredictionResult represents one match x model prediction outcome,
// persisted for later aggregation and calibration analysis.
type PredictionResult struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ModelID         string    `db:"model_id" json:"model_id"`
	EventKey        string    `db:"event_key" json:"event_key"`
	MatchDate       time.Time `db:"match_date" json:"match_date"`
	PredictedWinner string    `db:"predicted_winner" json:"predicted_winner"`
	ActualWinner    string    `db:"actual_winner" json:"actual_winner"`
	Correct         bool      `db:"correct" json:"correct"`
	Probability     float64   `db:"probability" json:"probability"`
	Confidence      float64   `db:"confidence" json:"confidence"`
	BrierScore      float64   `db:"brier_score" json:"brier_score"`
	HomeOdds        *float64  `db:"home_odds" json:"home_odds"`
	AwayOdds        *float64  `db:"away_odds" json:"away_odds"`
	PredictedOdds   *float64  `db:"predicted_odds" json:"predicted_odds"`
	BetPlaced       bool      `db:"bet_placed" json:"bet_placed"`
	Stake           float64   `db:"stake" json:"stake"`
	Profit          float64   `db:"profit" json:"profit"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
