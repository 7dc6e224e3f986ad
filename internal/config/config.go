// Package config provides configuration management for the OWL Tennis application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Provider  ProviderConfig  `mapstructure:"provider" validate:"required"`
	Predictor PredictorConfig `mapstructure:"predictor" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProviderConfig represents the tennis fixtures and odds provider API
type ProviderConfig struct {
	BaseURL            string   `mapstructure:"base_url" validate:"required,url"`
	APIKey             string   `mapstructure:"api_key" validate:"required"`
	TimeoutSeconds     int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int      `mapstructure:"retry_attempts" validate:"required,gte=0"`
	RequestsPerSecond  float64  `mapstructure:"requests_per_second" validate:"required,gt=0"`
	PreferredBookmaker string   `mapstructure:"preferred_bookmaker" validate:"required"`
	FallbackBookmakers []string `mapstructure:"fallback_bookmakers"`
}

// PredictorConfig represents prediction model configuration
type PredictorConfig struct {
	// RemoteURL is optional; when empty only built-in models are served.
	RemoteURL             string `mapstructure:"remote_url" validate:"omitempty,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"required,gte=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheEnabled          bool   `mapstructure:"cache_enabled"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate string  `mapstructure:"start_date" validate:"required,daterange"`
	EndDate   string  `mapstructure:"end_date" validate:"required,daterange"`
	ModelID   string  `mapstructure:"model_id" validate:"required"`
	MinOdds   float64 `mapstructure:"min_odds" validate:"gte=0"`
	MaxOdds   float64 `mapstructure:"max_odds" validate:"gte=0"`
}

// SchedulerConfig represents background job scheduling
type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	SyncSpec         string `mapstructure:"sync_spec" validate:"required"`
	RebuildSpec      string `mapstructure:"rebuild_spec" validate:"required"`
	SyncLookbackDays int    `mapstructure:"sync_lookback_days" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
