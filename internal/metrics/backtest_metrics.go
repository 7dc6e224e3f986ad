// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owl_tennis",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by model and status",
	}, []string{"model_id", "status"})
)

// Backtest histogram vectors
var (
	BacktestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "owl_tennis",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds by model",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	}, []string{"model_id"})

	PredictionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "owl_tennis",
		Name:      "prediction_confidence",
		Help:      "Confidence of scored predictions by model",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"model_id"})
)

// Backtest gauge vectors
var (
	BacktestAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "owl_tennis",
		Name:      "backtest_accuracy",
		Help:      "Accuracy of the most recent backtest run for each model",
	}, []string{"model_id"})

	BacktestROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "owl_tennis",
		Name:      "backtest_roi",
		Help:      "Flat-stake ROI of the most recent backtest run for each model",
	}, []string{"model_id"})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(modelID, status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(modelID, status).Inc()
	BacktestDuration.WithLabelValues(modelID).Observe(durationSeconds)
}

// RecordBacktestOutcome updates the headline gauges for a completed run.
func RecordBacktestOutcome(modelID string, accuracy, roi float64) {
	BacktestAccuracy.WithLabelValues(modelID).Set(accuracy)
	BacktestROI.WithLabelValues(modelID).Set(roi)
}

// RecordPredictionConfidence records the confidence of one scored prediction.
func RecordPredictionConfidence(modelID string, confidence float64) {
	PredictionConfidence.WithLabelValues(modelID).Observe(confidence)
}
