package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/owl-tennis/internal/config"
)

// NewFromConfig builds the provider client described by the application
// configuration, wired through the shared rate-limited HTTP client.
func NewFromConfig(cfg *config.ProviderConfig, logger *log.Logger) (DataSource, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base_url is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider api_key is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RateLimit = cfg.RequestsPerSecond

	httpClient := NewRateLimitedHTTPClient(httpCfg, logger)
	return NewTennisAPIClient(httpClient, cfg.BaseURL, cfg.APIKey, true, logger), nil
}
