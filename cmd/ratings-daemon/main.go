// Package main provides the entry point for the ratings daemon: the
// long-running process that syncs fixtures and odds from the provider,
// rebuilds player ratings on schedule, and exposes health and metrics
// endpoints.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/config"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/datasource"
	"github.com/yourusername/owl-tennis/internal/health"
	"github.com/yourusername/owl-tennis/internal/logger"
	"github.com/yourusername/owl-tennis/internal/metrics"
	"github.com/yourusername/owl-tennis/internal/rating"
	"github.com/yourusername/owl-tennis/internal/repository"
	"github.com/yourusername/owl-tennis/internal/scheduler"
	"github.com/yourusername/owl-tennis/internal/service"
	"github.com/yourusername/owl-tennis/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Ratings daemon starting")

	// Initialize X-Ray tracing
	if os.Getenv("XRAY_ENABLED") == "true" {
		daemonAddr := os.Getenv("XRAY_DAEMON_ADDR")
		if daemonAddr == "" {
			daemonAddr = "localhost:2000"
		}
		if err := tracing.Initialize(tracing.Config{
			ServiceName:    cfg.App.Name,
			ServiceVersion: Version,
			Enabled:        true,
			DaemonAddr:     daemonAddr,
		}, appLog); err != nil {
			appLog.WithError(err).Warn("Failed to initialize tracing")
		}
	}

	// Initialize database connection
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Initialize the fixtures and odds provider
	providerLogger := log.New(os.Stdout, "provider: ", log.LstdFlags)
	source, err := datasource.NewFromConfig(&cfg.Provider, providerLogger)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize data source")
	}

	syncSvc := service.NewSyncService(source, repos,
		cfg.Provider.PreferredBookmaker, cfg.Provider.FallbackBookmakers, appLog)

	// Rating rebuild pipeline. The provider doubles as the standings source
	// for informational external ranks.
	engine := rating.NewEngine(appLog)
	var standings rating.StandingsSource
	if s, ok := source.(rating.StandingsSource); ok {
		standings = s
	}
	replayer, err := rating.NewReplayer(engine, repos, standings, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize replayer")
	}

	// Health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Metrics server
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Catch up on anything missed while the daemon was down, then hand
	// recurring work to the scheduler.
	runInitialSync(ctx, cfg, syncSvc, healthServer, appLog)

	sched := scheduler.NewScheduler(syncSvc, replayer, log.New(os.Stdout, "scheduler: ", log.LstdFlags))
	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleSync(cfg.Scheduler.SyncSpec, cfg.Scheduler.SyncLookbackDays); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule sync job")
		}
		if err := sched.ScheduleRebuild(cfg.Scheduler.RebuildSpec); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule rebuild job")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler started")
	} else {
		appLog.Warn("Scheduler disabled; daemon will only serve health and metrics")
	}

	healthServer.SetReady(true)
	appLog.Info("Ratings daemon ready")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	appLog.WithField("signal", sig.String()).Info("Shutting down")
	healthServer.SetReady(false)

	if sched.IsRunning() {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Failed to stop metrics server")
		}
		shutdownCancel()
	}
	cancel()

	appLog.Info("Ratings daemon stopped")
}

// runInitialSync covers the scheduler lookback window once at startup so a
// restart never waits for the next cron tick to heal a gap.
func runInitialSync(ctx context.Context, cfg *config.Config, syncSvc *service.SyncService, healthServer *health.Server, appLog *logrus.Logger) {
	syncCtx, syncCancel := context.WithTimeout(ctx, time.Hour)
	defer syncCancel()

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -cfg.Scheduler.SyncLookbackDays)

	stats, err := syncSvc.Sync(syncCtx, startDate, endDate)
	if err != nil {
		// Provider downtime at boot is not fatal; the scheduled sync retries.
		appLog.WithError(err).Error("Initial sync failed")
		return
	}
	healthServer.RecordSync(time.Now().UTC())
	appLog.WithFields(logrus.Fields{
		"fixtures": stats.FixturesStored,
		"odds":     stats.OddsStored,
	}).Info("Initial sync completed")
}
