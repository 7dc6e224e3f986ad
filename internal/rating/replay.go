package rating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	applogger "github.com/yourusername/owl-tennis/internal/logger"
	"github.com/yourusername/owl-tennis/internal/metrics"
	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/repository"
)

// StandingsSource optionally supplies informational external ranks
// (e.g. official tour standings) refreshed after a rebuild.
type StandingsSource interface {
	FetchStandings(ctx context.Context) (map[string]int, error)
}

// ReplayResult summarizes a full history replay.
type ReplayResult struct {
	MatchesProcessed int
	MatchesSkipped   int
	MatchesWithOdds  int
	PlayersRated     int
	Days             int
}

// Replayer rebuilds all rating state from scratch by feeding finished
// matches through the rating engine strictly in chronological order, one day
// at a time. It must run exclusively: it deletes all state before rebuilding.
type Replayer struct {
	engine    *Engine
	matches   repository.MatchRepository
	odds      repository.OddsRepository
	ratings   repository.RatingRepository
	changes   repository.RatingChangeRepository
	standings StandingsSource
	logger    *logrus.Logger
	rlog      *applogger.RatingLogger
}

// NewReplayer creates a replayer over the given engine and stores.
func NewReplayer(engine *Engine, repos *repository.Repositories, standings StandingsSource, logger *logrus.Logger) (*Replayer, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Replayer{
		engine:    engine,
		matches:   repos.Match,
		odds:      repos.Odds,
		ratings:   repos.Rating,
		changes:   repos.RatingChange,
		standings: standings,
		logger:    logger,
		rlog:      applogger.NewRatingLogger(logger),
	}, nil
}

// Rebuild replays the entire stored match history. It discovers the date
// bounds from storage, so a scheduled rebuild needs no configuration.
// Satisfies the scheduler's Rebuilder.
func (r *Replayer) Rebuild(ctx context.Context) error {
	start, end, err := r.matches.GetDateBounds(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Info("No finished matches stored; nothing to rebuild")
			return nil
		}
		return fmt.Errorf("failed to determine history range: %w", err)
	}

	began := time.Now()
	if _, err := r.Run(ctx, start, end); err != nil {
		metrics.RecordRebuild("failure", time.Since(began).Seconds())
		return err
	}
	metrics.RecordRebuild("success", time.Since(began).Seconds())
	return nil
}

// Run clears all rating state and replays finished matches from start to end
// inclusive. Each day's working set is loaded, processed, persisted, and
// discarded before advancing, so peak memory does not grow with the range.
func (r *Replayer) Run(ctx context.Context, start, end time.Time) (*ReplayResult, error) {
	began := time.Now()
	r.logger.WithFields(logrus.Fields{
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	}).Info("Starting rating rebuild")

	if err := r.changes.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear rating changes: %w", err)
	}
	if err := r.ratings.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear ratings: %w", err)
	}
	r.engine.Reset()

	result := &ReplayResult{}
	for day := truncateToDay(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := r.replayDay(ctx, day, result); err != nil {
			return nil, err
		}
		result.Days++
	}

	players := r.engine.Players()
	assignRanks(players)
	if err := r.refreshExternalRanks(ctx, players); err != nil {
		// Informational only; the rebuild itself succeeded.
		r.logger.WithError(err).Warn("Failed to refresh external ranks")
	}
	if err := r.ratings.SaveAll(ctx, players); err != nil {
		return nil, fmt.Errorf("failed to persist ratings: %w", err)
	}
	result.PlayersRated = len(players)
	metrics.UpdatePlayersTracked(float64(len(players)))

	r.rlog.LogReplayComplete(result.PlayersRated, result.MatchesProcessed,
		result.MatchesSkipped, float64(time.Since(began).Milliseconds()))
	return result, nil
}

func (r *Replayer) replayDay(ctx context.Context, day time.Time, result *ReplayResult) error {
	matches, err := r.matches.GetFinishedByDay(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to load matches for %s: %w", day.Format("2006-01-02"), err)
	}
	if len(matches) == 0 {
		return nil
	}

	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.EventKey
	}
	oddsByKey, err := r.odds.GetByEventKeys(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to load odds for %s: %w", day.Format("2006-01-02"), err)
	}

	var processed, skipped, withOdds int
	dayChanges := make([]models.RatingChange, 0, len(matches)*2)
	for _, m := range matches {
		matchOdds := oddsByKey[m.EventKey]
		exchange, err := r.engine.ProcessMatch(m, matchOdds)
		if err != nil {
			if errors.Is(err, models.ErrNoWinner) {
				skipped++
				metrics.RecordMatchSkipped("no_winner")
				r.rlog.LogSkippedMatch(m.EventKey, "no_winner")
				continue
			}
			return err
		}
		processed++
		metrics.RecordMatchProcessed()
		if matchOdds.IsValid() {
			withOdds++
		}
		dayChanges = append(dayChanges, exchange.WinnerChange, exchange.LoserChange)
	}

	if len(dayChanges) > 0 {
		if err := r.changes.InsertBatch(ctx, dayChanges); err != nil {
			return fmt.Errorf("failed to append rating changes: %w", err)
		}
	}

	result.MatchesProcessed += processed
	result.MatchesSkipped += skipped
	result.MatchesWithOdds += withOdds
	r.rlog.LogReplayDay(day, processed, skipped, withOdds)
	return nil
}

// assignRanks orders players by descending rating among those with at least
// one processed match. Players receives rank positions starting at 1.
func assignRanks(players []*models.PlayerRating) {
	rank := 0
	for _, p := range players {
		if p.MatchesPlayed == 0 {
			p.Rank = 0
			continue
		}
		rank++
		p.Rank = rank
	}
}

func (r *Replayer) refreshExternalRanks(ctx context.Context, players []*models.PlayerRating) error {
	if r.standings == nil {
		return nil
	}
	standings, err := r.standings.FetchStandings(ctx)
	if err != nil {
		return err
	}
	for _, p := range players {
		if rank, ok := standings[p.PlayerKey]; ok {
			external := rank
			p.ExternalRank = &external
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
