// Package main provides the CLI that rebuilds all player ratings from the
// stored match history.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/owl-tennis/internal/config"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/logger"
	"github.com/yourusername/owl-tennis/internal/rating"
	"github.com/yourusername/owl-tennis/internal/repository"
)

var (
	configFile string
	startFlag  string
	endFlag    string

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&startFlag, "start", "", "Replay start date (YYYY-MM-DD); defaults to the earliest stored match")
	rootCmd.Flags().StringVar(&endFlag, "end", "", "Replay end date (YYYY-MM-DD); defaults to the latest stored match")
}

var rootCmd = &cobra.Command{
	Use:   "init-ratings",
	Short: "Rebuild player ratings from stored match history",
	Long: `Deletes all rating state and replays every finished match in
chronological order through the rating engine. Run after the initial data
load, or whenever the rating parameters change.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
	if db != nil {
		db.Close()
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(context.Background(), cfg, region, secretName); err != nil {
			return err
		}
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func runReplay(ctx context.Context) error {
	engine := rating.NewEngine(appLog)
	replayer, err := rating.NewReplayer(engine, repos, nil, appLog)
	if err != nil {
		return err
	}

	began := time.Now()
	if startFlag == "" && endFlag == "" {
		if err := replayer.Rebuild(ctx); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		fmt.Printf("Full rebuild completed in %s\n", time.Since(began).Round(time.Second))
		return nil
	}

	start, err := time.Parse("2006-01-02", startFlag)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse("2006-01-02", endFlag)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	result, err := replayer.Run(ctx, start, end)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	fmt.Printf("\nReplay completed in %s\n", time.Since(began).Round(time.Second))
	fmt.Printf("  Days:      %d\n", result.Days)
	fmt.Printf("  Processed: %d matches (%d with odds)\n", result.MatchesProcessed, result.MatchesWithOdds)
	fmt.Printf("  Skipped:   %d matches\n", result.MatchesSkipped)
	fmt.Printf("  Players:   %d rated\n", result.PlayersRated)
	return nil
}
