package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, nil)
}

func TestSelectOddsPreferredBookmaker(t *testing.T) {
	doc := &OddsDocument{
		EventKey: "evt-1",
		Bookmakers: map[string]BookmakerOdds{
			"bet365":   {Home: "1.80", Away: "2.00"},
			"pinnacle": {Home: "1.85", Away: "1.95"},
		},
	}

	odds := SelectOdds(doc, "bet365", []string{"pinnacle"})
	require.NotNil(t, odds)
	assert.Equal(t, "bet365", odds.Bookmaker)
	assert.Equal(t, 1.80, odds.Home)
	assert.Equal(t, 2.00, odds.Away)
	assert.Equal(t, "evt-1", odds.EventKey)
}

func TestSelectOddsFallsBackWhenPreferredIncomplete(t *testing.T) {
	doc := &OddsDocument{
		EventKey: "evt-1",
		Bookmakers: map[string]BookmakerOdds{
			"bet365":   {Home: "1.80"}, // no away price
			"pinnacle": {Home: "1.85", Away: "1.95"},
		},
	}

	odds := SelectOdds(doc, "bet365", []string{"pinnacle"})
	require.NotNil(t, odds)
	assert.Equal(t, "pinnacle", odds.Bookmaker)
}

func TestSelectOddsRejectsUnparseablePrices(t *testing.T) {
	doc := &OddsDocument{
		EventKey: "evt-1",
		Bookmakers: map[string]BookmakerOdds{
			"bet365": {Home: "abc", Away: "2.00"},
		},
	}

	assert.Nil(t, SelectOdds(doc, "bet365", nil))
}

func TestSelectOddsRejectsOddsAtOrBelowOne(t *testing.T) {
	doc := &OddsDocument{
		EventKey: "evt-1",
		Bookmakers: map[string]BookmakerOdds{
			"bet365": {Home: "1.00", Away: "2.00"},
		},
	}

	assert.Nil(t, SelectOdds(doc, "bet365", nil))
}

func TestSelectOddsNoBookmakerListed(t *testing.T) {
	doc := &OddsDocument{EventKey: "evt-1", Bookmakers: map[string]BookmakerOdds{}}
	assert.Nil(t, SelectOdds(doc, "bet365", []string{"pinnacle"}))
}

func TestConvertOddsDocument(t *testing.T) {
	raw := &tennisAPIOdds{
		EventKey: "evt-2",
		Home:     map[string]string{"bet365": "1.50", "unibet": "1.55"},
		Away:     map[string]string{"bet365": "2.60"},
	}

	doc := convertOddsDocument(raw)
	assert.Equal(t, "evt-2", doc.EventKey)
	assert.Equal(t, BookmakerOdds{Home: "1.50", Away: "2.60"}, doc.Bookmakers["bet365"])
	// unibet quotes only one side; selection must skip it.
	assert.Equal(t, BookmakerOdds{Home: "1.55"}, doc.Bookmakers["unibet"])
}

func TestFixtureToMatch(t *testing.T) {
	fetched := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	fixture := FixtureData{
		EventKey:       "evt-3",
		Date:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		FirstKey:       "p1",
		FirstName:      "Player One",
		SecondKey:      "p2",
		SecondName:     "Player Two",
		FinalScore:     "2 - 0",
		Winner:         "Player One",
		TournamentName: "Wimbledon",
		Round:          "Final",
		FetchedAt:      fetched,
	}

	match := fixture.ToMatch()
	assert.Equal(t, "evt-3", match.EventKey)
	assert.Equal(t, "p1", match.ResolveWinnerKey())
	assert.Equal(t, "Wimbledon", match.TournamentName)
	assert.Equal(t, fetched, match.CreatedAt)
}

func TestFetchFixturesFiltersUnfinished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"event_key":"e1","event_date":"2024-06-01","first_player_key":"a","second_player_key":"b","event_status":"Finished","event_winner":"First Player"},
			{"event_key":"e2","event_date":"2024-06-01","first_player_key":"c","second_player_key":"d","event_status":"Scheduled"},
			{"event_key":"e3","event_date":"bad-date","first_player_key":"e","second_player_key":"f","event_status":"Finished"}
		]`))
	}))
	defer server.Close()

	client := NewTennisAPIClient(testHTTPClient(), server.URL, "test-key", true, nil)
	fixtures, err := client.FetchFixtures(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)

	// e2 is not finished, e3 has an unparseable date.
	require.Len(t, fixtures, 1)
	assert.Equal(t, "e1", fixtures[0].EventKey)
}

func TestFetchFixturesAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewTennisAPIClient(testHTTPClient(), server.URL, "bad-key", true, nil)
	_, err := client.FetchFixtures(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.Error(t, err)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
}

func TestFetchOdds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"event_key":"e1","home":{"bet365":"1.40"},"away":{"bet365":"2.90"}}
		]`))
	}))
	defer server.Close()

	client := NewTennisAPIClient(testHTTPClient(), server.URL, "test-key", true, nil)
	docs, err := client.FetchOdds(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	odds := SelectOdds(&docs[0], "bet365", nil)
	require.NotNil(t, odds)
	assert.Equal(t, 1.40, odds.Home)
	assert.Equal(t, 2.90, odds.Away)
}

func TestRateLimitedClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 3
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.RateLimit = 1000
	client := NewRateLimitedHTTPClient(cfg, nil)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestRateLimitedClientCircuitBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	_, err = client.Get(context.Background(), server.URL)
	require.Error(t, err)

	// Third request must be refused without touching the network.
	_, err = client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestFetchStandings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"place":"1","player_key":"p1"},
			{"place":"2","player_key":"p2"},
			{"place":"n/a","player_key":"p3"},
			{"place":"4","player_key":""}
		]`))
	}))
	defer server.Close()

	client := NewTennisAPIClient(testHTTPClient(), server.URL, "test-key", true, nil)
	standings, err := client.FetchStandings(context.Background())
	require.NoError(t, err)

	// p3 has no numeric place, the fourth row has no key.
	assert.Equal(t, map[string]int{"p1": 1, "p2": 2}, standings)
}

func TestDisabledSource(t *testing.T) {
	client := NewTennisAPIClient(testHTTPClient(), "http://unused", "key", false, nil)

	_, err := client.FetchFixtures(context.Background(), time.Now(), time.Now())
	assert.Error(t, err)
	_, err = client.FetchOdds(context.Background(), time.Now(), time.Now())
	assert.Error(t, err)
	assert.False(t, client.IsEnabled())
}
