// Package predictor defines prediction models and their registry.
package predictor

import (
	"context"
	"time"

	"github.com/yourusername/owl-tennis/internal/models"
)

// Prediction is the outcome of a model evaluating one match.
type Prediction struct {
	EventKey           string             `json:"event_key"`
	ModelID            string             `json:"model_id"`
	PredictedWinnerKey string             `json:"predicted_winner_key"`
	// Probabilities maps player key to win probability. The two entries
	// sum to 1.
	Probabilities map[string]float64 `json:"probabilities"`
	// Confidence is the probability assigned to the predicted winner.
	Confidence float64 `json:"confidence"`
}

// Predictor evaluates a match as of a given date. Implementations must not
// consult information dated on or after asOf.
type Predictor interface {
	ModelID() string
	Predict(ctx context.Context, match *models.Match, asOf time.Time) (*Prediction, error)
}
