// Package main provides the verification CLI: it re-scores persisted
// predictions against stored outcomes, or audits an external prediction CSV.
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
	"github.com/yourusername/owl-tennis/internal/repository"
	"github.com/yourusername/owl-tennis/internal/service"
)

var (
	configFile string
	modelID    string
	startFlag  string
	endFlag    string
	csvPath    string

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

var rootCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify model prediction quality",
	Long: `Aggregates prediction outcomes into accuracy, Brier score, flat-stake
betting returns and per-confidence-bucket calibration.`,
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Verify predictions persisted by backtest runs",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDatabase(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLive(cmd.Context())
	},
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Score an externally produced prediction export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCSV()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&modelID, "model", "m", "owl", "Model id to verify")

	liveCmd.Flags().StringVar(&startFlag, "start", "", "Start date (YYYY-MM-DD); omit with --end for the whole history")
	liveCmd.Flags().StringVar(&endFlag, "end", "", "End date (YYYY-MM-DD)")

	csvCmd.Flags().StringVarP(&csvPath, "file", "f", "", "Path to the prediction CSV")
	csvCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(csvCmd)
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

func setupDatabase(ctx context.Context) error {
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

func runLive(ctx context.Context) error {
	var start, end time.Time
	if (startFlag == "") != (endFlag == "") {
		return fmt.Errorf("--start and --end must be given together")
	}
	if startFlag != "" {
		var err error
		start, err = time.Parse("2006-01-02", startFlag)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err = time.Parse("2006-01-02", endFlag)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	}

	svc := service.NewVerificationService(repos, appLog)
	report, err := svc.Verify(ctx, modelID, start, end)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func runCSV() error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer f.Close()

	records, issues, err := service.ParsePredictionCSV(f, modelID)
	if err != nil {
		return err
	}

	if len(issues) > 0 {
		fmt.Printf("Rejected %d rows:\n", len(issues))
		for _, issue := range issues {
			fmt.Printf("  %s\n", issue)
		}
	}

	printReport(service.BuildReport(modelID, records))
	return nil
}

func printReport(report *service.VerificationReport) {
	fmt.Printf("\nVerification: %s\n", report.ModelID)
	fmt.Printf("  Predictions: %d\n", report.Predictions)
	fmt.Printf("  Accuracy:    %.2f%% (%d correct)\n", report.Accuracy*100, report.Correct)
	fmt.Printf("  Avg Brier:   %.4f\n", report.AvgBrier)
	fmt.Printf("  Betting:     %d bets, profit %+.2f units, ROI %+.2f%%\n",
		report.Betting.Bets, report.Betting.TotalProfit, report.ROI)

	fmt.Printf("\n%-12s %12s %10s %10s\n", "Confidence", "Predictions", "Accuracy", "ROI")
	for _, b := range report.Buckets {
		if b.Predictions == 0 {
			continue
		}
		fmt.Printf("%.1f - %.1f    %12d %9.2f%% %9.2f%%\n",
			b.Low, b.High, b.Predictions, b.Accuracy*100, b.ROI)
	}
}
