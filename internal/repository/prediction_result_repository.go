package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
)

const predictionResultColumns = `id, model_id, event_key, match_date,
	predicted_winner, actual_winner, correct, probability, confidence,
	brier_score, home_odds, away_odds, predicted_odds, bet_placed,
	stake, profit, created_at`

// PostgresPredictionResultRepository implements PredictionResultRepository for PostgreSQL
type PostgresPredictionResultRepository struct {
	db *database.DB
}

// NewPostgresPredictionResultRepository creates a new prediction result repository
func NewPostgresPredictionResultRepository(db *database.DB) PredictionResultRepository {
	return &PostgresPredictionResultRepository{db: db}
}

// InsertBatch inserts per-match prediction outcomes using bulk COPY
func (r *PostgresPredictionResultRepository) InsertBatch(ctx context.Context, results []*models.PredictionResult) error {
	if len(results) == 0 {
		return nil
	}

	columns := []string{
		"id", "model_id", "event_key", "match_date",
		"predicted_winner", "actual_winner", "correct", "probability", "confidence",
		"brier_score", "home_odds", "away_odds", "predicted_odds", "bet_placed",
		"stake", "profit", "created_at",
	}

	rows := make([][]interface{}, len(results))
	for i, p := range results {
		rows[i] = []interface{}{
			p.ID, p.ModelID, p.EventKey, p.MatchDate,
			p.PredictedWinner, p.ActualWinner, p.Correct, p.Probability, p.Confidence,
			p.BrierScore, p.HomeOdds, p.AwayOdds, p.PredictedOdds, p.BetPlaced,
			p.Stake, p.Profit, p.CreatedAt,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"prediction_results"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert prediction results: %w", err)
	}
	if count != int64(len(results)) {
		return fmt.Errorf("inserted %d prediction results, expected %d", count, len(results))
	}
	return nil
}

// DeleteByModelAndRange removes a model's results within the date range,
// durable before any replacement insert.
func (r *PostgresPredictionResultRepository) DeleteByModelAndRange(ctx context.Context, modelID string, start, end time.Time) error {
	query := `DELETE FROM prediction_results WHERE model_id = $1 AND match_date >= $2 AND match_date <= $3`
	if _, err := r.db.GetPool().Exec(ctx, query, modelID, start, end); err != nil {
		return fmt.Errorf("failed to delete prediction results: %w", err)
	}
	return nil
}

// GetByModel retrieves all persisted results for a model
func (r *PostgresPredictionResultRepository) GetByModel(ctx context.Context, modelID string) ([]*models.PredictionResult, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prediction_results WHERE model_id = $1 ORDER BY match_date ASC
	`, predictionResultColumns)
	return r.queryResults(ctx, query, modelID)
}

// GetByModelAndRange retrieves a model's results within the date range
func (r *PostgresPredictionResultRepository) GetByModelAndRange(ctx context.Context, modelID string, start, end time.Time) ([]*models.PredictionResult, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prediction_results
		WHERE model_id = $1 AND match_date >= $2 AND match_date <= $3
		ORDER BY match_date ASC
	`, predictionResultColumns)
	return r.queryResults(ctx, query, modelID, start, end)
}

func (r *PostgresPredictionResultRepository) queryResults(ctx context.Context, query string, args ...interface{}) ([]*models.PredictionResult, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction results: %w", err)
	}
	defer rows.Close()

	var results []*models.PredictionResult
	for rows.Next() {
		p := &models.PredictionResult{}
		if err := rows.Scan(
			&p.ID, &p.ModelID, &p.EventKey, &p.MatchDate,
			&p.PredictedWinner, &p.ActualWinner, &p.Correct, &p.Probability, &p.Confidence,
			&p.BrierScore, &p.HomeOdds, &p.AwayOdds, &p.PredictedOdds, &p.BetPlaced,
			&p.Stake, &p.Profit, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction result: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
