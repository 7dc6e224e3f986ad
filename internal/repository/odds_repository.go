package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// UpsertBatch inserts or replaces pre-match odds keyed by event key
func (r *PostgresOddsRepository) UpsertBatch(ctx context.Context, odds []*models.MatchOdds) error {
	if len(odds) == 0 {
		return nil
	}

	query := `
		INSERT INTO match_odds (event_key, home_odds, away_odds, bookmaker)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_key) DO UPDATE SET
			home_odds = EXCLUDED.home_odds,
			away_odds = EXCLUDED.away_odds,
			bookmaker = EXCLUDED.bookmaker
	`

	batch := &pgx.Batch{}
	for _, o := range odds {
		batch.Queue(query, o.EventKey, o.Home, o.Away, o.Bookmaker)
	}
	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()
	for range odds {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert odds: %w", err)
		}
	}
	return nil
}

// GetByEventKeys retrieves odds for the given event keys in one round trip
func (r *PostgresOddsRepository) GetByEventKeys(ctx context.Context, eventKeys []string) (map[string]*models.MatchOdds, error) {
	if len(eventKeys) == 0 {
		return map[string]*models.MatchOdds{}, nil
	}

	query := `
		SELECT event_key, home_odds, away_odds, bookmaker
		FROM match_odds
		WHERE event_key = ANY($1)
	`
	rows, err := r.db.GetPool().Query(ctx, query, eventKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds: %w", err)
	}
	defer rows.Close()

	return collectOdds(rows)
}

// GetByDateRange retrieves odds for all matches dated within the range,
// the single batched prefetch backtests rely on.
func (r *PostgresOddsRepository) GetByDateRange(ctx context.Context, start, end time.Time) (map[string]*models.MatchOdds, error) {
	query := `
		SELECT o.event_key, o.home_odds, o.away_odds, o.bookmaker
		FROM match_odds o
		JOIN matches m ON m.event_key = o.event_key
		WHERE m.event_date >= $1 AND m.event_date <= $2
	`
	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds by date range: %w", err)
	}
	defer rows.Close()

	return collectOdds(rows)
}

func collectOdds(rows pgx.Rows) (map[string]*models.MatchOdds, error) {
	result := make(map[string]*models.MatchOdds)
	for rows.Next() {
		o := &models.MatchOdds{}
		if err := rows.Scan(&o.EventKey, &o.Home, &o.Away, &o.Bookmaker); err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		result[o.EventKey] = o
	}
	return result, rows.Err()
}
