package repository

import (
	"context"
	"time"

	"github.com/yourusername/owl-tennis/internal/models"
)

// MatchRepository defines the interface for finished-fixture data access
type MatchRepository interface {
	UpsertBatch(ctx context.Context, matches []*models.Match) error
	GetByEventKey(ctx context.Context, eventKey string) (*models.Match, error)
	// GetFinishedByDay returns the day's finished matches ordered by date
	// then event key, the stable order replay depends on.
	GetFinishedByDay(ctx context.Context, day time.Time) ([]*models.Match, error)
	GetFinishedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Match, error)
	// GetDateBounds returns the earliest and latest finished-match dates,
	// or models.ErrNotFound when no finished matches are stored.
	GetDateBounds(ctx context.Context) (time.Time, time.Time, error)
}

// OddsRepository defines the interface for pre-match odds data access
type OddsRepository interface {
	UpsertBatch(ctx context.Context, odds []*models.MatchOdds) error
	GetByEventKeys(ctx context.Context, eventKeys []string) (map[string]*models.MatchOdds, error)
	GetByDateRange(ctx context.Context, start, end time.Time) (map[string]*models.MatchOdds, error)
}

// RatingRepository defines the interface for player rating state access
type RatingRepository interface {
	SaveAll(ctx context.Context, ratings []*models.PlayerRating) error
	GetByPlayerKey(ctx context.Context, playerKey string) (*models.PlayerRating, error)
	GetAll(ctx context.Context) ([]*models.PlayerRating, error)
	DeleteAll(ctx context.Context) error
}

// RatingChangeRepository is the durable, unbounded, append-only rating
// change log. Point-in-time queries read exclusively from here; the capped
// window on PlayerRating is a presentation concern.
type RatingChangeRepository interface {
	InsertBatch(ctx context.Context, changes []models.RatingChange) error
	// ListByPlayer returns all of a player's changes, newest first.
	ListByPlayer(ctx context.Context, playerKey string) ([]models.RatingChange, error)
	DeleteAll(ctx context.Context) error
}

// BacktestResultRepository defines backtest result persistence. Re-running a
// backtest for the same (model, date range) replaces prior results via
// delete-then-insert, with the delete durable before the insert.
type BacktestResultRepository interface {
	Save(ctx context.Context, result *models.BacktestResult) error
	DeleteByModelAndRange(ctx context.Context, modelID string, start, end time.Time) error
	GetLatestByModel(ctx context.Context, modelID string, limit int) ([]*models.BacktestResult, error)
}

// PredictionResultRepository defines per-match prediction outcome persistence
type PredictionResultRepository interface {
	InsertBatch(ctx context.Context, results []*models.PredictionResult) error
	DeleteByModelAndRange(ctx context.Context, modelID string, start, end time.Time) error
	GetByModel(ctx context.Context, modelID string) ([]*models.PredictionResult, error)
	GetByModelAndRange(ctx context.Context, modelID string, start, end time.Time) ([]*models.PredictionResult, error)
}
