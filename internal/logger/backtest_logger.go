// Package logger provides backtest-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// BacktestLogger provides dedicated logging for backtest runs.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a backtest run.
func (bl *BacktestLogger) LogRunStarted(modelID, startDate, endDate string, totalMatches int) {
	bl.WithFields(logrus.Fields{
		"model_id":      modelID,
		"start_date":    startDate,
		"end_date":      endDate,
		"total_matches": totalMatches,
	}).Info("Backtest run started")
}

// LogRunCompleted logs a completed backtest run with headline metrics.
func (bl *BacktestLogger) LogRunCompleted(modelID string, correct, incorrect, skipped int, accuracy, avgBrier, roi float64) {
	bl.WithFields(logrus.Fields{
		"model_id":        modelID,
		"correct":         correct,
		"incorrect":       incorrect,
		"skipped":         skipped,
		"accuracy":        accuracy,
		"avg_brier_score": avgBrier,
		"roi":             roi,
	}).Info("Backtest run completed")
}

// LogPredictionFailure logs a prediction the run had to skip.
func (bl *BacktestLogger) LogPredictionFailure(modelID, eventKey string, err error) {
	bl.WithFields(logrus.Fields{
		"model_id":  modelID,
		"event_key": eventKey,
		"error":     err.Error(),
	}).Warn("Prediction failed, match skipped")
}

// LogModelComparison logs one model's result within a comparison run.
func (bl *BacktestLogger) LogModelComparison(modelID string, accuracy, roi float64, rank int) {
	bl.WithFields(logrus.Fields{
		"model_id": modelID,
		"accuracy": accuracy,
		"roi":      roi,
		"rank":     rank,
	}).Info("Model comparison result")
}
