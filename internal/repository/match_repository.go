package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
)

const matchColumns = `event_key, event_date, first_player_key, first_player_name,
	second_player_key, second_player_name, final_score, winner,
	tournament_key, tournament_name, round, created_at`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// UpsertBatch inserts or updates fixtures keyed by event key
func (r *PostgresMatchRepository) UpsertBatch(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	query := `
		INSERT INTO matches (event_key, event_date, first_player_key, first_player_name,
			second_player_key, second_player_name, final_score, winner,
			tournament_key, tournament_name, round, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (event_key) DO UPDATE SET
			final_score = EXCLUDED.final_score,
			winner = EXCLUDED.winner
	`

	batch := &pgx.Batch{}
	for _, m := range matches {
		batch.Queue(query,
			m.EventKey, m.Date, m.FirstKey, m.FirstName,
			m.SecondKey, m.SecondName, m.FinalScore, m.Winner,
			m.TournamentKey, m.TournamentName, m.Round,
		)
	}
	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()
	for range matches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert match: %w", err)
		}
	}
	return nil
}

// GetByEventKey retrieves a single match
func (r *PostgresMatchRepository) GetByEventKey(ctx context.Context, eventKey string) (*models.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE event_key = $1`, matchColumns)
	m, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, eventKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match %s: %w", eventKey, err)
	}
	return m, nil
}

// GetFinishedByDay retrieves the day's finished matches in replay order:
// ascending by date, ties broken by event key for deterministic replay.
func (r *PostgresMatchRepository) GetFinishedByDay(ctx context.Context, day time.Time) ([]*models.Match, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE event_date >= $1 AND event_date < $2 AND winner <> ''
		ORDER BY event_date ASC, event_key ASC
	`, matchColumns)
	return r.queryMatches(ctx, query, start, end)
}

// GetFinishedByDateRange retrieves finished matches in the closed date range
func (r *PostgresMatchRepository) GetFinishedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE event_date >= $1 AND event_date <= $2 AND winner <> ''
		ORDER BY event_date ASC, event_key ASC
	`, matchColumns)
	return r.queryMatches(ctx, query, start, end)
}

// GetDateBounds returns the earliest and latest finished-match dates
func (r *PostgresMatchRepository) GetDateBounds(ctx context.Context) (time.Time, time.Time, error) {
	query := `SELECT min(event_date), max(event_date) FROM matches WHERE winner <> ''`

	var earliest, latest *time.Time
	if err := r.db.GetPool().QueryRow(ctx, query).Scan(&earliest, &latest); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to query match date bounds: %w", err)
	}
	if earliest == nil || latest == nil {
		return time.Time{}, time.Time{}, models.ErrNotFound
	}
	return *earliest, *latest, nil
}

func (r *PostgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.EventKey, &m.Date, &m.FirstKey, &m.FirstName,
		&m.SecondKey, &m.SecondName, &m.FinalScore, &m.Winner,
		&m.TournamentKey, &m.TournamentName, &m.Round, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
