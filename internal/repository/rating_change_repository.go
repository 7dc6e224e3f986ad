package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
)

// PostgresRatingChangeRepository implements RatingChangeRepository for
// PostgreSQL. Rows are append-only: nothing here mutates existing entries.
type PostgresRatingChangeRepository struct {
	db *database.DB
}

// NewPostgresRatingChangeRepository creates a new rating change repository
func NewPostgresRatingChangeRepository(db *database.DB) RatingChangeRepository {
	return &PostgresRatingChangeRepository{db: db}
}

// InsertBatch appends a batch of ledger entries using bulk COPY
func (r *PostgresRatingChangeRepository) InsertBatch(ctx context.Context, changes []models.RatingChange) error {
	if len(changes) == 0 {
		return nil
	}

	columns := []string{
		"player_key", "match_key", "match_date", "opponent_key", "opponent_name",
		"opponent_rating", "won", "score", "odds_used", "expected_win_prob",
		"dominance_multiplier", "tournament_multiplier", "points_change",
		"rating_before", "rating_after", "tournament",
	}

	rows := make([][]interface{}, len(changes))
	for i, c := range changes {
		rows[i] = []interface{}{
			c.PlayerKey, c.MatchKey, c.MatchDate, c.OpponentKey, c.OpponentName,
			c.OpponentRating, c.Won, c.Score, c.OddsUsed, c.ExpectedWinProb,
			c.DominanceMultiplier, c.TournamentMultiplier, c.PointsChange,
			c.RatingBefore, c.RatingAfter, c.Tournament,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"rating_changes"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert rating changes: %w", err)
	}
	if count != int64(len(changes)) {
		return fmt.Errorf("inserted %d rating changes, expected %d", count, len(changes))
	}
	return nil
}

// ListByPlayer returns a player's complete rating history, newest first
func (r *PostgresRatingChangeRepository) ListByPlayer(ctx context.Context, playerKey string) ([]models.RatingChange, error) {
	query := `
		SELECT player_key, match_key, match_date, opponent_key, opponent_name,
			opponent_rating, won, score, odds_used, expected_win_prob,
			dominance_multiplier, tournament_multiplier, points_change,
			rating_before, rating_after, tournament
		FROM rating_changes
		WHERE player_key = $1
		ORDER BY match_date DESC, match_key DESC
	`
	rows, err := r.db.GetPool().Query(ctx, query, playerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating changes: %w", err)
	}
	defer rows.Close()

	var changes []models.RatingChange
	for rows.Next() {
		var c models.RatingChange
		if err := rows.Scan(
			&c.PlayerKey, &c.MatchKey, &c.MatchDate, &c.OpponentKey, &c.OpponentName,
			&c.OpponentRating, &c.Won, &c.Score, &c.OddsUsed, &c.ExpectedWinProb,
			&c.DominanceMultiplier, &c.TournamentMultiplier, &c.PointsChange,
			&c.RatingBefore, &c.RatingAfter, &c.Tournament,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// DeleteAll clears the entire change log before a full rebuild
func (r *PostgresRatingChangeRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.GetPool().Exec(ctx, `DELETE FROM rating_changes`); err != nil {
		return fmt.Errorf("failed to delete rating changes: %w", err)
	}
	return nil
}
