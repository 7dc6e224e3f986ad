package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

const (
	tennisAPISourceName   = "tennis_api"
	dataSourceDisabledMsg = "data source is disabled"
)

// TennisAPIClient implements DataSource for the tennis fixtures and odds
// provider.
type TennisAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// tennisAPIFixture is the provider's raw fixture document.
type tennisAPIFixture struct {
	EventKey       string `json:"event_key"`
	EventDate      string `json:"event_date"`
	FirstKey       string `json:"first_player_key"`
	FirstName      string `json:"event_first_player"`
	SecondKey      string `json:"second_player_key"`
	SecondName     string `json:"event_second_player"`
	FinalResult    string `json:"event_final_result"`
	Winner         string `json:"event_winner"`
	TournamentKey  string `json:"tournament_key"`
	TournamentName string `json:"tournament_name"`
	Round          string `json:"tournament_round"`
	Status         string `json:"event_status"`
}

// tennisAPIOdds is the provider's raw odds document: quoted prices per
// bookmaker, keyed by market side.
type tennisAPIOdds struct {
	EventKey string                       `json:"event_key"`
	Live     map[string]map[string]string `json:"live"`
	Home     map[string]string            `json:"home"`
	Away     map[string]string            `json:"away"`
}

// NewTennisAPIClient creates a new provider API client
func NewTennisAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *TennisAPIClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &TennisAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchFixtures retrieves finished fixtures within the specified date range
func (c *TennisAPIClient) FetchFixtures(ctx context.Context, startDate, endDate time.Time) ([]FixtureData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(tennisAPISourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/fixtures?from=%s&to=%s",
		c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var raw []tennisAPIFixture
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	fixtures := make([]FixtureData, 0, len(raw))
	for _, f := range raw {
		if f.Status != "Finished" {
			continue
		}
		fixture, err := c.convertFixture(&f)
		if err != nil {
			c.logger.Printf("Failed to convert fixture %s: %v", f.EventKey, err)
			continue
		}
		fixtures = append(fixtures, *fixture)
	}

	return fixtures, nil
}

// FetchOdds retrieves pre-match odds documents within the date range
func (c *TennisAPIClient) FetchOdds(ctx context.Context, startDate, endDate time.Time) ([]OddsDocument, error) {
	if !c.enabled {
		return nil, NewDataSourceError(tennisAPISourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/odds?from=%s&to=%s",
		c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var raw []tennisAPIOdds
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	docs := make([]OddsDocument, 0, len(raw))
	for _, o := range raw {
		docs = append(docs, convertOddsDocument(&o))
	}
	return docs, nil
}

// tennisAPIStanding is one row of the provider's tour standings table.
type tennisAPIStanding struct {
	Place     string `json:"place"`
	PlayerKey string `json:"player_key"`
}

// FetchStandings retrieves the current tour standings as a map of player key
// to official rank. Rows with a missing key or unparseable place are dropped.
func (c *TennisAPIClient) FetchStandings(ctx context.Context) (map[string]int, error) {
	if !c.enabled {
		return nil, NewDataSourceError(tennisAPISourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/standings", c.baseURL)
	var raw []tennisAPIStanding
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	standings := make(map[string]int, len(raw))
	for _, s := range raw {
		place, err := strconv.Atoi(s.Place)
		if err != nil || s.PlayerKey == "" {
			continue
		}
		standings[s.PlayerKey] = place
	}
	return standings, nil
}

// Name returns the data source name
func (c *TennisAPIClient) Name() string {
	return tennisAPISourceName
}

// IsEnabled returns whether this data source is enabled
func (c *TennisAPIClient) IsEnabled() bool {
	return c.enabled
}

// getJSON performs an authenticated GET and decodes the JSON response
func (c *TennisAPIClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(tennisAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(tennisAPISourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(tennisAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(tennisAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(tennisAPISourceName, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(tennisAPISourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(tennisAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

// convertFixture converts the provider fixture format to FixtureData
func (c *TennisAPIClient) convertFixture(f *tennisAPIFixture) (*FixtureData, error) {
	date, err := time.Parse("2006-01-02", f.EventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: %w", f.EventDate, err)
	}
	if f.EventKey == "" || f.FirstKey == "" || f.SecondKey == "" {
		return nil, fmt.Errorf("fixture missing participant keys")
	}

	return &FixtureData{
		EventKey:       f.EventKey,
		Date:           date,
		FirstKey:       f.FirstKey,
		FirstName:      f.FirstName,
		SecondKey:      f.SecondKey,
		SecondName:     f.SecondName,
		FinalScore:     f.FinalResult,
		Winner:         f.Winner,
		TournamentKey:  f.TournamentKey,
		TournamentName: f.TournamentName,
		Round:          f.Round,
		FetchedAt:      time.Now().UTC(),
	}, nil
}

// convertOddsDocument restructures the provider's per-side maps into a
// per-bookmaker document. Live odds are ignored; only pre-match prices feed
// the engines.
func convertOddsDocument(o *tennisAPIOdds) OddsDocument {
	doc := OddsDocument{
		EventKey:   o.EventKey,
		Bookmakers: make(map[string]BookmakerOdds),
	}
	for bookmaker, price := range o.Home {
		entry := doc.Bookmakers[bookmaker]
		entry.Home = price
		doc.Bookmakers[bookmaker] = entry
	}
	for bookmaker, price := range o.Away {
		entry := doc.Bookmakers[bookmaker]
		entry.Away = price
		doc.Bookmakers[bookmaker] = entry
	}
	return doc
}
