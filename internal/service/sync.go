package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/datasource"
	"github.com/yourusername/owl-tennis/internal/metrics"
	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/repository"
	"github.com/yourusername/owl-tennis/internal/tracing"
)

// SyncStats summarizes one synchronization run.
type SyncStats struct {
	FixturesFetched  int
	FixturesStored   int
	ValidationErrors int
	OddsDocuments    int
	OddsStored       int
	OddsUnpriced     int
	Duration         time.Duration
}

// SyncService pulls finished fixtures and pre-match odds from the provider
// and lands them in storage. It is the only writer of match and odds rows.
type SyncService struct {
	source             datasource.DataSource
	repos              *repository.Repositories
	validate           *validator.Validate
	preferredBookmaker string
	fallbackBookmakers []string
	logger             *logrus.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(source datasource.DataSource, repos *repository.Repositories, preferredBookmaker string, fallbackBookmakers []string, logger *logrus.Logger) *SyncService {
	if logger == nil {
		logger = logrus.New()
	}
	return &SyncService{
		source:             source,
		repos:              repos,
		validate:           validator.New(),
		preferredBookmaker: preferredBookmaker,
		fallbackBookmakers: fallbackBookmakers,
		logger:             logger,
	}
}

// Sync fetches and stores fixtures and odds for the date range.
func (s *SyncService) Sync(ctx context.Context, startDate, endDate time.Time) (*SyncStats, error) {
	stats := &SyncStats{}
	started := time.Now()

	s.logger.WithFields(logrus.Fields{
		"source": s.source.Name(),
		"from":   startDate.Format("2006-01-02"),
		"to":     endDate.Format("2006-01-02"),
	}).Info("Starting data sync")

	err := tracing.WithSegment(ctx, "data-sync", func(ctx context.Context) error {
		if err := tracing.Capture(ctx, "fixtures", func(ctx context.Context) error {
			return s.syncFixtures(ctx, startDate, endDate, stats)
		}); err != nil {
			tracing.AddError(ctx, err)
			return err
		}
		if err := tracing.Capture(ctx, "odds", func(ctx context.Context) error {
			return s.syncOdds(ctx, startDate, endDate, stats)
		}); err != nil {
			tracing.AddError(ctx, err)
			return err
		}
		tracing.AddAnnotation(ctx, "fixtures_stored", stats.FixturesStored)
		tracing.AddAnnotation(ctx, "odds_stored", stats.OddsStored)
		return nil
	})
	if err != nil {
		metrics.RecordSyncRun("failure", time.Since(started).Seconds())
		return stats, err
	}

	stats.Duration = time.Since(started)
	metrics.RecordSyncRun("success", stats.Duration.Seconds())
	s.logger.WithFields(logrus.Fields{
		"fixtures_stored":   stats.FixturesStored,
		"odds_stored":       stats.OddsStored,
		"validation_errors": stats.ValidationErrors,
		"duration":          stats.Duration,
	}).Info("Data sync completed")

	return stats, nil
}

func (s *SyncService) syncFixtures(ctx context.Context, startDate, endDate time.Time, stats *SyncStats) error {
	fixtures, err := s.source.FetchFixtures(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	stats.FixturesFetched = len(fixtures)

	matches := make([]*models.Match, 0, len(fixtures))
	for i := range fixtures {
		match := fixtures[i].ToMatch()
		if err := s.validate.Struct(match); err != nil {
			stats.ValidationErrors++
			s.logger.WithFields(logrus.Fields{
				"event_key": match.EventKey,
				"error":     err.Error(),
			}).Warn("Fixture failed validation")
			continue
		}
		matches = append(matches, match)
	}

	if len(matches) > 0 {
		if err := s.repos.Match.UpsertBatch(ctx, matches); err != nil {
			return fmt.Errorf("failed to store matches: %w", err)
		}
	}
	stats.FixturesStored = len(matches)
	return nil
}

func (s *SyncService) syncOdds(ctx context.Context, startDate, endDate time.Time, stats *SyncStats) error {
	docs, err := s.source.FetchOdds(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch odds: %w", err)
	}
	stats.OddsDocuments = len(docs)

	odds := make([]*models.MatchOdds, 0, len(docs))
	for i := range docs {
		selected := datasource.SelectOdds(&docs[i], s.preferredBookmaker, s.fallbackBookmakers)
		if selected == nil {
			stats.OddsUnpriced++
			continue
		}
		odds = append(odds, selected)
	}

	if len(odds) > 0 {
		if err := s.repos.Odds.UpsertBatch(ctx, odds); err != nil {
			return fmt.Errorf("failed to store odds: %w", err)
		}
	}
	stats.OddsStored = len(odds)
	return nil
}
