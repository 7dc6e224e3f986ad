package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/owl-tennis/internal/config"
)

// Config holds the parameters of one backtest run.
type Config struct {
	ModelID   string
	StartDate time.Time
	EndDate   time.Time

	// MinOdds and MaxOdds bound the simulated betting filter: predictions
	// whose market odds fall outside the range are scored but not staked.
	// Zero means unbounded on that side.
	MinOdds float64
	MaxOdds float64
}

// FromConfig builds a run configuration from the application config.
func FromConfig(cfg *config.BacktestConfig) (Config, error) {
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid end_date: %w", err)
	}

	c := Config{
		ModelID:   cfg.ModelID,
		StartDate: start,
		EndDate:   end,
		MinOdds:   cfg.MinOdds,
		MaxOdds:   cfg.MaxOdds,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the run configuration for internal consistency.
func (c Config) Validate() error {
	if c.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("start_date must be before end_date")
	}
	if c.MinOdds < 0 || c.MaxOdds < 0 {
		return fmt.Errorf("odds bounds cannot be negative")
	}
	if c.MinOdds > 0 && c.MaxOdds > 0 && c.MinOdds > c.MaxOdds {
		return fmt.Errorf("min_odds cannot exceed max_odds")
	}
	return nil
}

// withModel returns a copy of the configuration targeting another model.
func (c Config) withModel(modelID string) Config {
	c.ModelID = modelID
	return c
}
