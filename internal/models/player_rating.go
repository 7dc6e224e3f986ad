package models

import (
	"time"
)

// Momentum trend buckets, a pure function of the momentum score.
const (
	MomentumHot     = "hot"
	MomentumRising  = "rising"
	MomentumStable  = "stable"
	MomentumCooling = "cooling"
	MomentumCold    = "cold"
)

// RecentChangesCap bounds the in-memory ledger window kept on PlayerRating.
// Older entries live only in the durable rating_changes log.
const RecentChangesCap = 20

// PlayerRating holds the mutable rating state for one player. It is created
// lazily on the first match seen and updated exactly twice per processed
// match, once per participant.
type PlayerRating struct {
	PlayerKey        string         `db:"player_key" json:"player_key" validate:"required"`
	PlayerName       string         `db:"player_name" json:"player_name"`
	ExternalRank     *int           `db:"external_rank" json:"external_rank"`
	Rank             int            `db:"rank" json:"rank"`
	Rating           float64        `db:"rating" json:"rating"`
	MatchesPlayed    int            `db:"matches_played" json:"matches_played"`
	Wins             int            `db:"wins" json:"wins"`
	Losses           int            `db:"losses" json:"losses"`
	PeakRating       float64        `db:"peak_rating" json:"peak_rating"`
	PeakDate         time.Time      `db:"peak_date" json:"peak_date"`
	Last10WinRate    float64        `db:"last10_win_rate" json:"last10_win_rate"`
	AvgPointsPerWin  float64        `db:"avg_points_per_win" json:"avg_points_per_win"`
	AvgPointsPerLoss float64        `db:"avg_points_per_loss" json:"avg_points_per_loss"`
	MomentumScore    float64        `db:"momentum_score" json:"momentum_score"`
	MomentumTrend    string         `db:"momentum_trend" json:"momentum_trend"`
	ConsistencyScore float64        `db:"consistency_score" json:"consistency_score"`
	RecentChanges    []RatingChange `db:"-" json:"recent_changes"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// RatingChange is one immutable ledger entry. Two entries are created per
// processed match, one per participant, symmetric but independently signed.
type RatingChange struct {
	PlayerKey            string    `db:"player_key" json:"player_key"`
	MatchKey             string    `db:"match_key" json:"match_key"`
	MatchDate            time.Time `db:"match_date" json:"match_date"`
	OpponentKey          string    `db:"opponent_key" json:"opponent_key"`
	OpponentName         string    `db:"opponent_name" json:"opponent_name"`
	OpponentRating       float64   `db:"opponent_rating" json:"opponent_rating"`
	Won                  bool      `db:"won" json:"won"`
	Score                string    `db:"score" json:"score"`
	OddsUsed             float64   `db:"odds_used" json:"odds_used"`
	ExpectedWinProb      float64   `db:"expected_win_prob" json:"expected_win_prob"`
	DominanceMultiplier  float64   `db:"dominance_multiplier" json:"dominance_multiplier"`
	TournamentMultiplier float64   `db:"tournament_multiplier" json:"tournament_multiplier"`
	PointsChange         float64   `db:"points_change" json:"points_change"`
	RatingBefore         float64   `db:"rating_before" json:"rating_before"`
	RatingAfter          float64   `db:"rating_after" json:"rating_after"`
	Tournament           string    `db:"tournament" json:"tournament"`
}

// MomentumTrendFor maps a momentum score to its trend bucket. Boundaries are
// inclusive on the upper side of each bucket.
func MomentumTrendFor(score float64) string {
	switch {
	case score >= 30:
		return MomentumHot
	case score >= 10:
		return MomentumRising
	case score >= -10:
		return MomentumStable
	case score >= -30:
		return MomentumCooling
	default:
		return MomentumCold
	}
}
