package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/owl-tennis/internal/database"
	"github.com/yourusername/owl-tennis/internal/models"
)

const backtestResultColumns = `id, model_id, run_date, start_date, end_date,
	total_matches, correct, incorrect, skipped, accuracy, avg_brier_score,
	matches_with_odds, bets_placed, bets_skipped_by_filter, min_odds, max_odds,
	total_stake, total_profit, roi, created_at`

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// Save inserts a backtest result
func (r *PostgresBacktestResultRepository) Save(ctx context.Context, result *models.BacktestResult) error {
	query := `
		INSERT INTO backtest_results (id, model_id, run_date, start_date, end_date,
			total_matches, correct, incorrect, skipped, accuracy, avg_brier_score,
			matches_with_odds, bets_placed, bets_skipped_by_filter, min_odds, max_odds,
			total_stake, total_profit, roi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.ModelID, result.RunDate, result.StartDate, result.EndDate,
		result.TotalMatches, result.Correct, result.Incorrect, result.Skipped,
		result.Accuracy, result.AvgBrierScore,
		result.MatchesWithOdds, result.BetsPlaced, result.BetsSkippedByFilter,
		result.MinOdds, result.MaxOdds,
		result.TotalStake, result.TotalProfit, result.ROI, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest result: %w", err)
	}
	return nil
}

// DeleteByModelAndRange removes prior runs for the same model and date range.
// The Exec only returns once the delete is durable, which is what lets the
// caller insert replacements without unique-key collisions.
func (r *PostgresBacktestResultRepository) DeleteByModelAndRange(ctx context.Context, modelID string, start, end time.Time) error {
	query := `DELETE FROM backtest_results WHERE model_id = $1 AND start_date = $2 AND end_date = $3`
	if _, err := r.db.GetPool().Exec(ctx, query, modelID, start, end); err != nil {
		return fmt.Errorf("failed to delete backtest results: %w", err)
	}
	return nil
}

// GetLatestByModel retrieves a model's most recent backtest runs
func (r *PostgresBacktestResultRepository) GetLatestByModel(ctx context.Context, modelID string, limit int) ([]*models.BacktestResult, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM backtest_results
		WHERE model_id = $1 ORDER BY run_date DESC LIMIT $2
	`, backtestResultColumns)
	rows, err := r.db.GetPool().Query(ctx, query, modelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results: %w", err)
	}
	defer rows.Close()

	var results []*models.BacktestResult
	for rows.Next() {
		result := &models.BacktestResult{}
		if err := rows.Scan(
			&result.ID, &result.ModelID, &result.RunDate, &result.StartDate, &result.EndDate,
			&result.TotalMatches, &result.Correct, &result.Incorrect, &result.Skipped,
			&result.Accuracy, &result.AvgBrierScore,
			&result.MatchesWithOdds, &result.BetsPlaced, &result.BetsSkippedByFilter,
			&result.MinOdds, &result.MaxOdds,
			&result.TotalStake, &result.TotalProfit, &result.ROI, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan backtest result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
