package backtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/logger"
	"github.com/yourusername/owl-tennis/internal/metrics"
	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/predictor"
	"github.com/yourusername/owl-tennis/internal/repository"
)

// Engine orchestrates historical verification runs: it replays finished
// matches, asks a model to predict each one as of its date, scores the
// predictions and simulates flat-stake betting on them.
type Engine struct {
	config  Config
	repos   *repository.Repositories
	catalog *predictor.Catalog
	logger  *logger.BacktestLogger

	// persist can be disabled for exploratory runs (model comparisons
	// persist only the primary configuration's results if at all).
	persist bool
}

// NewEngine creates a backtest engine.
func NewEngine(cfg Config, repos *repository.Repositories, catalog *predictor.Catalog, baseLogger *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("model catalog is required")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &Engine{
		config:  cfg,
		repos:   repos,
		catalog: catalog,
		logger:  logger.NewBacktestLogger(baseLogger),
		persist: true,
	}, nil
}

// Config returns the run configuration.
func (e *Engine) Config() Config {
	return e.config
}

// SetPersist controls whether results are written back to storage.
func (e *Engine) SetPersist(persist bool) {
	e.persist = persist
}

// Run executes the configured backtest and returns the aggregate result with
// its per-match records attached.
func (e *Engine) Run(ctx context.Context) (*models.BacktestResult, error) {
	began := time.Now()
	result, err := e.run(ctx)
	if err != nil {
		metrics.RecordBacktestRun(e.config.ModelID, "failure", time.Since(began).Seconds())
		return nil, err
	}
	metrics.RecordBacktestRun(e.config.ModelID, "success", time.Since(began).Seconds())
	metrics.RecordBacktestOutcome(e.config.ModelID, result.Accuracy, result.ROI)
	return result, nil
}

func (e *Engine) run(ctx context.Context) (*models.BacktestResult, error) {
	model, err := e.catalog.Get(e.config.ModelID)
	if err != nil {
		return nil, err
	}

	matches, err := e.repos.Match.GetFinishedByDateRange(ctx, e.config.StartDate, e.config.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	// One batched odds prefetch for the whole range instead of a query per
	// match.
	odds, err := e.repos.Odds.GetByDateRange(ctx, e.config.StartDate, e.config.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load odds: %w", err)
	}

	e.logger.LogRunStarted(e.config.ModelID,
		e.config.StartDate.Format("2006-01-02"), e.config.EndDate.Format("2006-01-02"),
		len(matches))

	result := e.score(ctx, model, matches, odds)

	if e.persist {
		if err := e.persistResult(ctx, result); err != nil {
			return nil, err
		}
	}

	e.logger.LogRunCompleted(result.ModelID, result.Correct, result.Incorrect, result.Skipped,
		result.Accuracy, result.AvgBrierScore, result.ROI)

	return result, nil
}

// score evaluates every match against the model and aggregates the outcome.
func (e *Engine) score(ctx context.Context, model predictor.Predictor, matches []*models.Match, odds map[string]*models.MatchOdds) *models.BacktestResult {
	now := time.Now().UTC()
	result := &models.BacktestResult{
		ID:           uuid.New(),
		ModelID:      e.config.ModelID,
		RunDate:      now,
		StartDate:    e.config.StartDate,
		EndDate:      e.config.EndDate,
		TotalMatches: len(matches),
		MinOdds:      e.config.MinOdds,
		MaxOdds:      e.config.MaxOdds,
		CreatedAt:    now,
	}

	var stats BetStats
	brierSum := 0.0

	for _, match := range matches {
		actualWinner := match.ResolveWinnerKey()
		if actualWinner == "" {
			result.Skipped++
			continue
		}

		pred, err := model.Predict(ctx, match, match.Date)
		if err != nil {
			// A model failure invalidates one prediction, not the run.
			result.Skipped++
			e.logger.LogPredictionFailure(e.config.ModelID, match.EventKey, err)
			continue
		}

		record := &models.PredictionResult{
			ID:              uuid.New(),
			ModelID:         e.config.ModelID,
			EventKey:        match.EventKey,
			MatchDate:       match.Date,
			PredictedWinner: pred.PredictedWinnerKey,
			ActualWinner:    actualWinner,
			Correct:         pred.PredictedWinnerKey == actualWinner,
			Probability:     pred.Probabilities[actualWinner],
			Confidence:      pred.Confidence,
			CreatedAt:       now,
		}
		record.BrierScore = brierScore(record.Probability)
		brierSum += record.BrierScore
		metrics.RecordPredictionConfidence(e.config.ModelID, record.Confidence)

		if record.Correct {
			result.Correct++
		} else {
			result.Incorrect++
		}

		e.simulateBet(record, match, odds[match.EventKey], &stats, result)

		result.Records = append(result.Records, record)
	}

	if scored := result.MatchesWithResults(); scored > 0 {
		result.Accuracy = float64(result.Correct) / float64(scored)
		result.AvgBrierScore = brierSum / float64(scored)
	}
	result.BetsPlaced = stats.Bets
	result.TotalStake = stats.TotalStake
	result.TotalProfit = stats.TotalProfit
	result.ROI = stats.ROI()

	return result
}

// simulateBet stakes one unit on the predicted winner when market odds exist
// and pass the configured filter.
func (e *Engine) simulateBet(record *models.PredictionResult, match *models.Match, matchOdds *models.MatchOdds, stats *BetStats, result *models.BacktestResult) {
	if !matchOdds.IsValid() {
		return
	}
	result.MatchesWithOdds++

	home, away := matchOdds.Home, matchOdds.Away
	record.HomeOdds = &home
	record.AwayOdds = &away

	predictedOdds := matchOdds.ForPlayer(match, record.PredictedWinner)
	if predictedOdds <= 1.0 {
		return
	}
	record.PredictedOdds = &predictedOdds

	if e.config.MinOdds > 0 && predictedOdds < e.config.MinOdds {
		result.BetsSkippedByFilter++
		return
	}
	if e.config.MaxOdds > 0 && predictedOdds > e.config.MaxOdds {
		result.BetsSkippedByFilter++
		return
	}

	stats.Record(predictedOdds, record.Correct)
	record.BetPlaced = true
	record.Stake = unitStake
	if record.Correct {
		record.Profit = predictedOdds - 1.0
	} else {
		record.Profit = -unitStake
	}
}

// persistResult replaces any prior run for the same model and range.
func (e *Engine) persistResult(ctx context.Context, result *models.BacktestResult) error {
	if err := e.repos.BacktestResult.DeleteByModelAndRange(ctx, result.ModelID, result.StartDate, result.EndDate); err != nil {
		return err
	}
	if err := e.repos.BacktestResult.Save(ctx, result); err != nil {
		return err
	}

	if err := e.repos.PredictionResult.DeleteByModelAndRange(ctx, result.ModelID, result.StartDate, result.EndDate); err != nil {
		return err
	}
	return e.repos.PredictionResult.InsertBatch(ctx, result.Records)
}

// CompareModels runs the same backtest configuration against several models
// concurrently and returns the results keyed by model id. Comparison runs
// are never persisted.
func (e *Engine) CompareModels(ctx context.Context, modelIDs []string) (map[string]*models.BacktestResult, error) {
	if len(modelIDs) == 0 {
		return nil, fmt.Errorf("at least one model is required")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]*models.BacktestResult, len(modelIDs))
		errs    []error
	)

	for _, modelID := range modelIDs {
		wg.Add(1)
		go func(modelID string) {
			defer wg.Done()

			runner, err := NewEngine(e.config.withModel(modelID), e.repos, e.catalog, logrus.StandardLogger())
			if err == nil {
				runner.SetPersist(false)
				var result *models.BacktestResult
				result, err = runner.Run(ctx)
				if err == nil {
					mu.Lock()
					results[modelID] = result
					mu.Unlock()
					return
				}
			}
			mu.Lock()
			errs = append(errs, fmt.Errorf("model %s: %w", modelID, err))
			mu.Unlock()
		}(modelID)
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for rank, result := range RankResults(results) {
		e.logger.LogModelComparison(result.ModelID, result.Accuracy, result.ROI, rank+1)
	}
	return results, nil
}

// RankResults orders comparison results by accuracy, best first, with the
// model id as a stable tiebreak.
func RankResults(results map[string]*models.BacktestResult) []*models.BacktestResult {
	ranked := make([]*models.BacktestResult, 0, len(results))
	for _, result := range results {
		ranked = append(ranked, result)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Accuracy != ranked[j].Accuracy {
			return ranked[i].Accuracy > ranked[j].Accuracy
		}
		return ranked[i].ModelID < ranked[j].ModelID
	})
	return ranked
}

// brierScore is the squared error of the probability assigned to the actual
// winner.
func brierScore(actualWinnerProb float64) float64 {
	diff := 1.0 - actualWinnerProb
	return diff * diff
}
