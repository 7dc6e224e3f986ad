package database

import (
	"context"
	"fmt"
)

// Schema statements applied idempotently at startup. The rating_changes log
// is append-only and unbounded; player_ratings holds only current state.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		event_key TEXT PRIMARY KEY,
		event_date TIMESTAMPTZ NOT NULL,
		first_player_key TEXT NOT NULL,
		first_player_name TEXT NOT NULL DEFAULT '',
		second_player_key TEXT NOT NULL,
		second_player_name TEXT NOT NULL DEFAULT '',
		final_score TEXT NOT NULL DEFAULT '',
		winner TEXT NOT NULL DEFAULT '',
		tournament_key TEXT NOT NULL DEFAULT '',
		tournament_name TEXT NOT NULL DEFAULT '',
		round TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_event_date ON matches (event_date)`,
	`CREATE TABLE IF NOT EXISTS match_odds (
		event_key TEXT PRIMARY KEY REFERENCES matches (event_key),
		home_odds DOUBLE PRECISION NOT NULL,
		away_odds DOUBLE PRECISION NOT NULL,
		bookmaker TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS player_ratings (
		player_key TEXT PRIMARY KEY,
		player_name TEXT NOT NULL DEFAULT '',
		external_rank INT,
		rank INT NOT NULL DEFAULT 0,
		rating DOUBLE PRECISION NOT NULL,
		matches_played INT NOT NULL DEFAULT 0,
		wins INT NOT NULL DEFAULT 0,
		losses INT NOT NULL DEFAULT 0,
		peak_rating DOUBLE PRECISION NOT NULL,
		peak_date TIMESTAMPTZ,
		last10_win_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_points_per_win DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_points_per_loss DOUBLE PRECISION NOT NULL DEFAULT 0,
		momentum_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		momentum_trend TEXT NOT NULL DEFAULT '',
		consistency_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS rating_changes (
		player_key TEXT NOT NULL,
		match_key TEXT NOT NULL,
		match_date TIMESTAMPTZ NOT NULL,
		opponent_key TEXT NOT NULL,
		opponent_name TEXT NOT NULL DEFAULT '',
		opponent_rating DOUBLE PRECISION NOT NULL,
		won BOOLEAN NOT NULL,
		score TEXT NOT NULL DEFAULT '',
		odds_used DOUBLE PRECISION NOT NULL,
		expected_win_prob DOUBLE PRECISION NOT NULL,
		dominance_multiplier DOUBLE PRECISION NOT NULL,
		tournament_multiplier DOUBLE PRECISION NOT NULL,
		points_change DOUBLE PRECISION NOT NULL,
		rating_before DOUBLE PRECISION NOT NULL,
		rating_after DOUBLE PRECISION NOT NULL,
		tournament TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (player_key, match_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rating_changes_player_date ON rating_changes (player_key, match_date DESC)`,
	`CREATE TABLE IF NOT EXISTS backtest_results (
		id UUID PRIMARY KEY,
		model_id TEXT NOT NULL,
		run_date TIMESTAMPTZ NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		total_matches INT NOT NULL,
		correct INT NOT NULL,
		incorrect INT NOT NULL,
		skipped INT NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL,
		avg_brier_score DOUBLE PRECISION NOT NULL,
		matches_with_odds INT NOT NULL,
		bets_placed INT NOT NULL,
		bets_skipped_by_filter INT NOT NULL,
		min_odds DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_odds DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_stake DOUBLE PRECISION NOT NULL,
		total_profit DOUBLE PRECISION NOT NULL,
		roi DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS prediction_results (
		id UUID PRIMARY KEY,
		model_id TEXT NOT NULL,
		event_key TEXT NOT NULL,
		match_date TIMESTAMPTZ NOT NULL,
		predicted_winner TEXT NOT NULL,
		actual_winner TEXT NOT NULL,
		correct BOOLEAN NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		brier_score DOUBLE PRECISION NOT NULL,
		home_odds DOUBLE PRECISION,
		away_odds DOUBLE PRECISION,
		predicted_odds DOUBLE PRECISION,
		bet_placed BOOLEAN NOT NULL,
		stake DOUBLE PRECISION NOT NULL,
		profit DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (model_id, event_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prediction_results_model_date ON prediction_results (model_id, match_date)`,
}

// InitSchema applies the schema idempotently.
func InitSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
