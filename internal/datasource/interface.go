package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/owl-tennis/internal/models"
)

// DataSource defines the interface for fetching tennis data from external providers
type DataSource interface {
	// FetchFixtures retrieves finished fixtures within the date range
	FetchFixtures(ctx context.Context, startDate, endDate time.Time) ([]FixtureData, error)

	// FetchOdds retrieves pre-match odds documents for fixtures within the
	// date range
	FetchOdds(ctx context.Context, startDate, endDate time.Time) ([]OddsDocument, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// FixtureData represents a normalized finished fixture from any data source
type FixtureData struct {
	EventKey       string    `json:"event_key"`
	Date           time.Time `json:"date"`
	FirstKey       string    `json:"first_key"`
	FirstName      string    `json:"first_name"`
	SecondKey      string    `json:"second_key"`
	SecondName     string    `json:"second_name"`
	FinalScore     string    `json:"final_score"`
	Winner         string    `json:"winner"`
	TournamentKey  string    `json:"tournament_key"`
	TournamentName string    `json:"tournament_name"`
	Round          string    `json:"round"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// ToMatch converts the fixture into the storage model
func (f *FixtureData) ToMatch() *models.Match {
	return &models.Match{
		EventKey:       f.EventKey,
		Date:           f.Date,
		FirstKey:       f.FirstKey,
		FirstName:      f.FirstName,
		SecondKey:      f.SecondKey,
		SecondName:     f.SecondName,
		FinalScore:     f.FinalScore,
		Winner:         f.Winner,
		TournamentKey:  f.TournamentKey,
		TournamentName: f.TournamentName,
		Round:          f.Round,
		CreatedAt:      f.FetchedAt,
	}
}

// OddsDocument is the provider's nested odds payload for one fixture: a map
// of bookmaker name to quoted prices. Prices arrive as strings and are only
// trusted after decimal parsing.
type OddsDocument struct {
	EventKey   string                   `json:"event_key"`
	Bookmakers map[string]BookmakerOdds `json:"bookmakers"`
}

// BookmakerOdds holds one bookmaker's quoted decimal odds as strings
type BookmakerOdds struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// SelectOdds flattens an odds document to a single bookmaker's prices:
// the preferred bookmaker when it quotes both sides, otherwise the first
// fallback that does. Returns nil when no listed bookmaker qualifies.
func SelectOdds(doc *OddsDocument, preferred string, fallbacks []string) *models.MatchOdds {
	candidates := append([]string{preferred}, fallbacks...)
	for _, name := range candidates {
		quoted, ok := doc.Bookmakers[name]
		if !ok {
			continue
		}
		odds := parseBookmakerOdds(doc.EventKey, name, quoted)
		if odds.IsValid() {
			return odds
		}
	}
	return nil
}

// parseBookmakerOdds parses both quoted prices; unparseable or missing
// prices yield zero odds, which IsValid rejects.
func parseBookmakerOdds(eventKey, bookmaker string, quoted BookmakerOdds) *models.MatchOdds {
	return &models.MatchOdds{
		EventKey:  eventKey,
		Home:      parseOddsValue(quoted.Home),
		Away:      parseOddsValue(quoted.Away),
		Bookmaker: bookmaker,
	}
}

// parseOddsValue parses one quoted decimal price, 0 when invalid.
func parseOddsValue(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	v, _ := d.Float64()
	return v
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
