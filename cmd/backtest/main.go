// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/backtest"
	"github.com/yourusername/owl-tennis/internal/config"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/predictor"
	"github.com/yourusername/owl-tennis/internal/rating"
	"github.com/yourusername/owl-tennis/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		modelID    = flag.String("model", "", "Override model id to test")
		modelIDs   = flag.String("models", "", "Comma-separated model ids for compare mode")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		mode       = flag.String("mode", "run", "Backtest mode: run, compare, confidence")
		dryRun     = flag.Bool("dry-run", false, "Skip persisting results")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(ctx, *configPath, logger)
	btConfig := buildBacktestConfig(cfg, *modelID, *startDate, *endDate, logger)

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	catalog := buildCatalog(cfg, repos, *modelIDs, logger)

	engine, err := backtest.NewEngine(btConfig, repos, catalog, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}
	if *dryRun {
		engine.SetPersist(false)
	}

	logger.WithFields(logrus.Fields{"mode": *mode, "model": btConfig.ModelID}).Info("Starting backtest")
	runMode(ctx, engine, *mode, *modelIDs, logger)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfigWithSecrets(ctx context.Context, path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildBacktestConfig(cfg *config.Config, modelOverride, startOverride, endOverride string, logger *logrus.Logger) backtest.Config {
	btConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		logger.Fatalf("Invalid backtest config: %v", err)
	}
	if modelOverride != "" {
		btConfig.ModelID = modelOverride
	}
	if startOverride != "" {
		parsed, err := time.Parse("2006-01-02", startOverride)
		if err != nil {
			logger.Fatalf("Invalid start date: %v", err)
		}
		btConfig.StartDate = parsed
	}
	if endOverride != "" {
		parsed, err := time.Parse("2006-01-02", endOverride)
		if err != nil {
			logger.Fatalf("Invalid end date: %v", err)
		}
		btConfig.EndDate = parsed
	}
	return btConfig
}

// buildCatalog assembles the model catalog: the built-in rating model plus a
// remote predictor for every unknown id named on the command line.
func buildCatalog(cfg *config.Config, repos *repository.Repositories, modelIDs string, logger *logrus.Logger) *predictor.Catalog {
	queries := rating.NewPointInTime(repos.RatingChange)
	catalog := predictor.NewCatalog(predictor.NewOWLPredictor(queries))

	if modelIDs == "" {
		return catalog
	}
	for _, id := range strings.Split(modelIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := catalog.Get(id); err == nil {
			continue
		}
		if cfg.Predictor.RemoteURL == "" {
			logger.Fatalf("Model %s is not built in and no predictor.remote_url is configured", id)
		}
		var remote predictor.Predictor = predictor.NewRemotePredictor(&cfg.Predictor, id, logger)
		if cfg.Predictor.CacheEnabled {
			ttl := time.Duration(cfg.Predictor.CacheTTLSeconds) * time.Second
			remote = predictor.NewCachedPredictor(remote, ttl, logger)
		}
		if err := catalog.Register(remote); err != nil {
			logger.Fatalf("Failed to register model %s: %v", id, err)
		}
	}
	return catalog
}

func runMode(ctx context.Context, engine *backtest.Engine, mode, modelIDs string, logger *logrus.Logger) {
	switch mode {
	case "run":
		result, err := engine.Run(ctx)
		if err != nil {
			logger.Fatalf("Backtest failed: %v", err)
		}
		printResult(result)
	case "compare":
		ids := splitModelIDs(modelIDs, engine.Config().ModelID)
		results, err := engine.CompareModels(ctx, ids)
		if err != nil {
			logger.Fatalf("Model comparison failed: %v", err)
		}
		printComparison(results)
	case "confidence":
		engine.SetPersist(false)
		result, err := engine.Run(ctx)
		if err != nil {
			logger.Fatalf("Backtest failed: %v", err)
		}
		printConfidenceBuckets(result)
	default:
		logger.Fatalf("Unsupported mode: %s", mode)
	}
}

func splitModelIDs(modelIDs, fallback string) []string {
	var ids []string
	for _, id := range strings.Split(modelIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = []string{fallback}
	}
	return ids
}

func printResult(result *models.BacktestResult) {
	fmt.Printf("\nBacktest: %s  %s to %s\n", result.ModelID,
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Printf("  Matches:   %d total, %d skipped, %d with odds\n",
		result.TotalMatches, result.Skipped, result.MatchesWithOdds)
	fmt.Printf("  Accuracy:  %.2f%% (%d/%d)\n",
		result.Accuracy*100, result.Correct, result.MatchesWithResults())
	fmt.Printf("  Brier:     %.4f\n", result.AvgBrierScore)
	fmt.Printf("  Betting:   %d bets, profit %+.2f units, ROI %+.2f%%\n",
		result.BetsPlaced, result.TotalProfit, result.ROI)
	if result.BetsSkippedByFilter > 0 {
		fmt.Printf("  Filtered:  %d bets outside the odds range\n", result.BetsSkippedByFilter)
	}
}

func printComparison(results map[string]*models.BacktestResult) {
	fmt.Printf("\n%-4s %-16s %10s %10s %10s\n", "Rank", "Model", "Accuracy", "Brier", "ROI")
	for i, r := range backtest.RankResults(results) {
		fmt.Printf("%-4d %-16s %9.2f%% %10.4f %9.2f%%\n",
			i+1, r.ModelID, r.Accuracy*100, r.AvgBrierScore, r.ROI)
	}
}

func printConfidenceBuckets(result *models.BacktestResult) {
	buckets := backtest.AnalyzeByConfidence(result.Records)
	fmt.Printf("\nConfidence calibration: %s\n", result.ModelID)
	fmt.Printf("%-12s %12s %10s %10s\n", "Bucket", "Predictions", "Accuracy", "ROI")
	for _, b := range buckets {
		if b.Predictions == 0 {
			continue
		}
		fmt.Printf("%.1f - %.1f    %12d %9.2f%% %9.2f%%\n",
			b.Low, b.High, b.Predictions, b.Accuracy*100, b.ROI)
	}
}
