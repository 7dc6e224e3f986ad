// Package metrics provides the centralized Prometheus registry for the
// rating system.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "owl_tennis",
		Name:      "matches_processed_total",
		Help:      "Total number of finished matches applied to the ratings",
	})
	MatchesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owl_tennis",
		Name:      "matches_skipped_total",
		Help:      "Total number of matches skipped during rating updates by reason",
	}, []string{"reason"})
	SyncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owl_tennis",
		Name:      "sync_runs_total",
		Help:      "Total number of provider sync runs by status",
	}, []string{"status"})
	RatingRebuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owl_tennis",
		Name:      "rating_rebuilds_total",
		Help:      "Total number of full rating rebuilds by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	PlayersTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "owl_tennis",
		Name:      "players_tracked",
		Help:      "Number of players with a current rating",
	})
	PredictionCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "owl_tennis",
		Name:      "prediction_cache_hit_ratio",
		Help:      "Fraction of prediction lookups served from cache",
	})
	LastSyncTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "owl_tennis",
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix time of the last successful provider sync",
	})
)

// Histogram metrics
var (
	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "owl_tennis",
		Name:      "sync_duration_seconds",
		Help:      "Duration of provider sync runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	RebuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "owl_tennis",
		Name:      "rebuild_duration_seconds",
		Help:      "Duration of full rating rebuilds in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(MatchesProcessedTotal)
		registry.MustRegister(MatchesSkippedTotal)
		registry.MustRegister(SyncRunsTotal)
		registry.MustRegister(RatingRebuildsTotal)

		registry.MustRegister(PlayersTracked)
		registry.MustRegister(PredictionCacheHitRatio)
		registry.MustRegister(LastSyncTimestamp)

		registry.MustRegister(SyncDuration)
		registry.MustRegister(RebuildDuration)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestAccuracy)
		registry.MustRegister(BacktestROI)
		registry.MustRegister(PredictionConfidence)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMatchProcessed records a rating update for one finished match.
func RecordMatchProcessed() {
	MatchesProcessedTotal.Inc()
}

// RecordMatchSkipped records a match that could not be rated.
// reason should be one of: "no_winner", "invalid_score", "missing_player"
func RecordMatchSkipped(reason string) {
	MatchesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordSyncRun records a provider sync run.
// status should be one of: "success", "failure"
func RecordSyncRun(status string, durationSeconds float64) {
	SyncRunsTotal.WithLabelValues(status).Inc()
	SyncDuration.Observe(durationSeconds)
	if status == "success" {
		LastSyncTimestamp.SetToCurrentTime()
	}
}

// RecordRebuild records a full rating rebuild.
func RecordRebuild(status string, durationSeconds float64) {
	RatingRebuildsTotal.WithLabelValues(status).Inc()
	RebuildDuration.Observe(durationSeconds)
}

// UpdatePlayersTracked updates the tracked players gauge.
func UpdatePlayersTracked(count float64) {
	PlayersTracked.Set(count)
}

// UpdateCacheHitRatio updates the prediction cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	PredictionCacheHitRatio.Set(ratio)
}
