// Package predictor provides an HTTP client for remote prediction services.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/owl-tennis/internal/config"
	"github.com/yourusername/owl-tennis/internal/models"
)

// RemotePredictor calls an external prediction service over HTTP. Each
// remote model is addressed by its model identifier in the request path.
type RemotePredictor struct {
	client  *http.Client
	baseURL string
	modelID string
	logger  *logrus.Logger
}

// NewRemotePredictor creates an HTTP-backed predictor for one remote model.
func NewRemotePredictor(cfg *config.PredictorConfig, modelID string, logger *logrus.Logger) *RemotePredictor {
	return &RemotePredictor{
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: cfg.RemoteURL,
		modelID: modelID,
		logger:  logger,
	}
}

// ModelID returns the remote model identifier.
func (p *RemotePredictor) ModelID() string {
	return p.modelID
}

// predictRequest is the remote service's request payload.
type predictRequest struct {
	EventKey   string    `json:"event_key"`
	FirstKey   string    `json:"first_key"`
	FirstName  string    `json:"first_name"`
	SecondKey  string    `json:"second_key"`
	SecondName string    `json:"second_name"`
	Tournament string    `json:"tournament"`
	Round      string    `json:"round"`
	AsOf       time.Time `json:"as_of"`
}

// Predict requests an evaluation from the remote service.
func (p *RemotePredictor) Predict(ctx context.Context, match *models.Match, asOf time.Time) (*Prediction, error) {
	start := time.Now()

	reqBody := predictRequest{
		EventKey:   match.EventKey,
		FirstKey:   match.FirstKey,
		FirstName:  match.FirstName,
		SecondKey:  match.SecondKey,
		SecondName: match.SecondName,
		Tournament: match.TournamentName,
		Round:      match.Round,
		AsOf:       asOf,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/models/%s/predict", p.baseURL, p.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("prediction request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	pred.ModelID = p.modelID
	pred.EventKey = match.EventKey

	p.logger.WithFields(logrus.Fields{
		"model_id":  p.modelID,
		"event_key": match.EventKey,
		"duration":  time.Since(start),
	}).Debug("Remote prediction completed")

	return &pred, nil
}
