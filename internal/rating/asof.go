package rating

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/owl-tennis/internal/models"
)

// ChangeSource supplies a player's full rating change history, newest first.
// Backed by the durable change log so that long-range queries are never
// truncated by the in-memory window cap. The repository's rating change
// store satisfies this directly.
type ChangeSource interface {
	ListByPlayer(ctx context.Context, playerKey string) ([]models.RatingChange, error)
}

// DefaultMomentumWindow is the ledger window used for momentum queries.
const DefaultMomentumWindow = 7

// PointInTime answers "what did we know about this player strictly before
// date D" queries. No entry with MatchDate >= D may ever influence a result;
// that is the whole reason this layer exists.
type PointInTime struct {
	changes ChangeSource
}

// NewPointInTime creates a point-in-time query layer over a change source.
func NewPointInTime(changes ChangeSource) *PointInTime {
	return &PointInTime{changes: changes}
}

// RatingAsOf returns the player's rating as it stood before cutoff: the
// RatingAfter of the most recent entry dated strictly before cutoff, or the
// default starting rating when no such entry exists.
func (q *PointInTime) RatingAsOf(ctx context.Context, playerKey string, cutoff time.Time) (float64, error) {
	window, err := q.windowBefore(ctx, playerKey, cutoff, 1)
	if err != nil {
		return 0, err
	}
	if len(window) == 0 {
		return DefaultRating, nil
	}
	return window[0].RatingAfter, nil
}

// MomentumAsOf sums point changes over the most recent window entries dated
// strictly before cutoff.
func (q *PointInTime) MomentumAsOf(ctx context.Context, playerKey string, cutoff time.Time, window int) (float64, error) {
	if window <= 0 {
		window = DefaultMomentumWindow
	}
	entries, err := q.windowBefore(ctx, playerKey, cutoff, window)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, c := range entries {
		sum += c.PointsChange
	}
	return sum, nil
}

// ConsistencyAsOf returns the population standard deviation of point changes
// over the most recent window entries dated strictly before cutoff; 0.0 when
// fewer than 2 qualifying entries exist.
func (q *PointInTime) ConsistencyAsOf(ctx context.Context, playerKey string, cutoff time.Time, window int) (float64, error) {
	entries, err := q.windowBefore(ctx, playerKey, cutoff, window)
	if err != nil {
		return 0, err
	}
	if len(entries) < 2 {
		return 0, nil
	}
	values := make([]float64, len(entries))
	for i, c := range entries {
		values[i] = c.PointsChange
	}
	return populationStddev(values), nil
}

// windowBefore filters the player's history to entries dated strictly before
// cutoff, sorted newest first, truncated to window entries (window <= 0
// means unbounded).
func (q *PointInTime) windowBefore(ctx context.Context, playerKey string, cutoff time.Time, window int) ([]models.RatingChange, error) {
	history, err := q.changes.ListByPlayer(ctx, playerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating history for %s: %w", playerKey, err)
	}

	filtered := make([]models.RatingChange, 0, len(history))
	for _, c := range history {
		if c.MatchDate.Before(cutoff) {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].MatchDate.After(filtered[j].MatchDate)
	})

	if window > 0 && len(filtered) > window {
		filtered = filtered[:window]
	}
	return filtered, nil
}
