package predictor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yourusername/owl-tennis/internal/models"
	"github.com/yourusername/owl-tennis/internal/rating"
)

// OWLModelID identifies the built-in rating-based model.
const OWLModelID = "owl"

// Factor weights folded into each player's point-in-time rating before the
// logistic conversion. Momentum rewards recent form; consistency is a
// volatility stddev, so it is penalized.
const (
	momentumWeight    = 0.5
	consistencyWeight = 0.25
)

// OWLPredictor predicts match winners from point-in-time rating state: each
// player's rating as of the match date, adjusted for momentum and
// consistency, fed through the logistic rating-difference curve.
type OWLPredictor struct {
	queries *rating.PointInTime
}

// NewOWLPredictor creates the built-in rating-based predictor.
func NewOWLPredictor(queries *rating.PointInTime) *OWLPredictor {
	return &OWLPredictor{queries: queries}
}

// ModelID returns the model identifier.
func (p *OWLPredictor) ModelID() string {
	return OWLModelID
}

// Predict evaluates a match using only rating state established strictly
// before asOf.
func (p *OWLPredictor) Predict(ctx context.Context, match *models.Match, asOf time.Time) (*Prediction, error) {
	firstScore, err := p.playerScore(ctx, match.FirstKey, asOf)
	if err != nil {
		return nil, err
	}
	secondScore, err := p.playerScore(ctx, match.SecondKey, asOf)
	if err != nil {
		return nil, err
	}

	firstProb := 1.0 / (1.0 + math.Pow(10, (secondScore-firstScore)/400.0))

	predicted := match.FirstKey
	confidence := firstProb
	if firstProb < 0.5 {
		predicted = match.SecondKey
		confidence = 1.0 - firstProb
	}

	return &Prediction{
		EventKey:           match.EventKey,
		ModelID:            OWLModelID,
		PredictedWinnerKey: predicted,
		Probabilities: map[string]float64{
			match.FirstKey:  firstProb,
			match.SecondKey: 1.0 - firstProb,
		},
		Confidence: confidence,
	}, nil
}

// playerScore is the player's rating as of the cutoff adjusted by the form
// factors.
func (p *OWLPredictor) playerScore(ctx context.Context, playerKey string, asOf time.Time) (float64, error) {
	ratingAsOf, err := p.queries.RatingAsOf(ctx, playerKey, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to query rating for %s: %w", playerKey, err)
	}
	momentum, err := p.queries.MomentumAsOf(ctx, playerKey, asOf, rating.DefaultMomentumWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to query momentum for %s: %w", playerKey, err)
	}
	consistency, err := p.queries.ConsistencyAsOf(ctx, playerKey, asOf, models.RecentChangesCap)
	if err != nil {
		return 0, fmt.Errorf("failed to query consistency for %s: %w", playerKey, err)
	}
	return ratingAsOf + momentumWeight*momentum - consistencyWeight*consistency, nil
}
