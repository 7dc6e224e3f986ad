// Package config provides configuration management for the OWL Tennis application.
package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "owl-tennis", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "bet365", cfg.Provider.PreferredBookmaker)
	assert.Equal(t, []string{"pinnacle", "unibet"}, cfg.Provider.FallbackBookmakers)
	assert.Equal(t, "owl", cfg.Backtest.ModelID)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent_config.yaml")
	require.Error(t, err)
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/nonexistent_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "owl-tennis", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 300, cfg.Predictor.CacheTTLSeconds)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	assert.NoError(t, Validate(cfg))
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "invalid"
	assert.Error(t, Validate(cfg))
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}

func TestValidateBadBacktestDates(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Backtest.StartDate = "2025-01-01"
	cfg.Backtest.EndDate = "2024-01-01"
	assert.Error(t, Validate(cfg))
}

func TestValidateOddsFilterOrder(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Backtest.MinOdds = 3.0
	cfg.Backtest.MaxOdds = 1.5
	assert.Error(t, Validate(cfg))
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	assert.Error(t, Validate(cfg))
}

func TestValidateIdleConnectionsBound(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Database.MaxIdleConnections = cfg.Database.MaxConnections + 1
	assert.Error(t, Validate(cfg))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "owl_tennis")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestEnvironmentChecks(t *testing.T) {
	dev := &Config{App: AppConfig{Environment: "development"}}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())

	staging := &Config{App: AppConfig{Environment: "staging"}}
	assert.True(t, staging.IsStaging())
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Password: "original"},
		Provider: ProviderConfig{APIKey: "original-key"},
	}

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "from-secrets",
		ProviderAPIKey:   "",
	})

	assert.Equal(t, "from-secrets", cfg.Database.Password)
	assert.Equal(t, "original-key", cfg.Provider.APIKey)
}
