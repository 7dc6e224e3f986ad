package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
)

const ratingColumns = `player_key, player_name, external_rank, rank, rating,
	matches_played, wins, losses, peak_rating, peak_date,
	last10_win_rate, avg_points_per_win, avg_points_per_loss,
	momentum_score, momentum_trend, consistency_score, updated_at`

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// SaveAll upserts the full set of player rating states
func (r *PostgresRatingRepository) SaveAll(ctx context.Context, ratings []*models.PlayerRating) error {
	if len(ratings) == 0 {
		return nil
	}

	query := `
		INSERT INTO player_ratings (player_key, player_name, external_rank, rank, rating,
			matches_played, wins, losses, peak_rating, peak_date,
			last10_win_rate, avg_points_per_win, avg_points_per_loss,
			momentum_score, momentum_trend, consistency_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
		ON CONFLICT (player_key) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			external_rank = EXCLUDED.external_rank,
			rank = EXCLUDED.rank,
			rating = EXCLUDED.rating,
			matches_played = EXCLUDED.matches_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			peak_rating = EXCLUDED.peak_rating,
			peak_date = EXCLUDED.peak_date,
			last10_win_rate = EXCLUDED.last10_win_rate,
			avg_points_per_win = EXCLUDED.avg_points_per_win,
			avg_points_per_loss = EXCLUDED.avg_points_per_loss,
			momentum_score = EXCLUDED.momentum_score,
			momentum_trend = EXCLUDED.momentum_trend,
			consistency_score = EXCLUDED.consistency_score,
			updated_at = now()
	`

	batch := &pgx.Batch{}
	for _, p := range ratings {
		batch.Queue(query,
			p.PlayerKey, p.PlayerName, p.ExternalRank, p.Rank, p.Rating,
			p.MatchesPlayed, p.Wins, p.Losses, p.PeakRating, p.PeakDate,
			p.Last10WinRate, p.AvgPointsPerWin, p.AvgPointsPerLoss,
			p.MomentumScore, p.MomentumTrend, p.ConsistencyScore,
		)
	}
	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()
	for range ratings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save rating: %w", err)
		}
	}
	return nil
}

// GetByPlayerKey retrieves one player's rating state
func (r *PostgresRatingRepository) GetByPlayerKey(ctx context.Context, playerKey string) (*models.PlayerRating, error) {
	query := fmt.Sprintf(`SELECT %s FROM player_ratings WHERE player_key = $1`, ratingColumns)
	p, err := scanRating(r.db.GetPool().QueryRow(ctx, query, playerKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating for %s: %w", playerKey, err)
	}
	return p, nil
}

// GetAll retrieves all player ratings ordered by descending rating
func (r *PostgresRatingRepository) GetAll(ctx context.Context) ([]*models.PlayerRating, error) {
	query := fmt.Sprintf(`SELECT %s FROM player_ratings ORDER BY rating DESC, player_key ASC`, ratingColumns)
	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.PlayerRating
	for rows.Next() {
		p, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, p)
	}
	return ratings, rows.Err()
}

// DeleteAll removes every player rating row. Used by full re-initialization
// before a history replay.
func (r *PostgresRatingRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.GetPool().Exec(ctx, `DELETE FROM player_ratings`); err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}
	return nil
}

func scanRating(row pgx.Row) (*models.PlayerRating, error) {
	p := &models.PlayerRating{}
	err := row.Scan(
		&p.PlayerKey, &p.PlayerName, &p.ExternalRank, &p.Rank, &p.Rating,
		&p.MatchesPlayed, &p.Wins, &p.Losses, &p.PeakRating, &p.PeakDate,
		&p.Last10WinRate, &p.AvgPointsPerWin, &p.AvgPointsPerLoss,
		&p.MomentumScore, &p.MomentumTrend, &p.ConsistencyScore, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
