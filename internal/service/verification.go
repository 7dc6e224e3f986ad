package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/backtest"
	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/repository"
)

// VerificationReport summarizes how a model's persisted predictions fared.
type VerificationReport struct {
	ModelID     string
	Predictions int
	Correct     int
	Accuracy    float64
	AvgBrier    float64
	Betting     backtest.BetStats
	ROI         float64
	Buckets     []backtest.ConfidenceBucket
}

// VerificationService re-scores persisted prediction results against the
// stored outcomes, using the same wagering arithmetic the backtest engine
// used to produce them.
type VerificationService struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewVerificationService creates a verification service.
func NewVerificationService(repos *repository.Repositories, logger *logrus.Logger) *VerificationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &VerificationService{repos: repos, logger: logger}
}

// Verify aggregates a model's persisted predictions within the date range;
// a zero start and end verifies the model's whole history.
func (s *VerificationService) Verify(ctx context.Context, modelID string, start, end time.Time) (*VerificationReport, error) {
	var (
		records []*models.PredictionResult
		err     error
	)
	if start.IsZero() && end.IsZero() {
		records, err = s.repos.PredictionResult.GetByModel(ctx, modelID)
	} else {
		records, err = s.repos.PredictionResult.GetByModelAndRange(ctx, modelID, start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction results: %w", err)
	}

	report := BuildReport(modelID, records)

	s.logger.WithFields(logrus.Fields{
		"model_id":    modelID,
		"predictions": report.Predictions,
		"accuracy":    report.Accuracy,
		"roi":         report.ROI,
	}).Info("Verification completed")

	return report, nil
}

// BuildReport computes a verification report from prediction records.
func BuildReport(modelID string, records []*models.PredictionResult) *VerificationReport {
	report := &VerificationReport{ModelID: modelID, Predictions: len(records)}

	brierSum := 0.0
	for _, r := range records {
		if r.Correct {
			report.Correct++
		}
		brierSum += r.BrierScore
		if r.BetPlaced && r.PredictedOdds != nil {
			report.Betting.Record(*r.PredictedOdds, r.Correct)
		}
	}

	if report.Predictions > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Predictions)
		report.AvgBrier = brierSum / float64(report.Predictions)
	}
	report.ROI = report.Betting.ROI()
	report.Buckets = backtest.AnalyzeByConfidence(records)
	return report
}
