package models

// MatchOdds is the typed decimal-odds record produced by the datasource
// parser. Home is the first participant, Away the second. Engines only ever
// see this struct, never the provider's nested bookmaker document.
type MatchOdds struct {
	EventKey  string  `db:"event_key" json:"event_key"`
	Home      float64 `db:"home_odds" json:"home_odds"`
	Away      float64 `db:"away_odds" json:"away_odds"`
	Bookmaker string  `db:"bookmaker" json:"bookmaker"`
}

// IsValid reports whether both sides carry usable decimal odds.
func (o *MatchOdds) IsValid() bool {
	return o != nil && o.Home > 1.0 && o.Away > 1.0
}

// ForPlayer returns the odds for the given participant of the match.
func (o *MatchOdds) ForPlayer(m *Match, playerKey string) float64 {
	if o == nil {
		return 0
	}
	switch playerKey {
	case m.FirstKey:
		return o.Home
	case m.SecondKey:
		return o.Away
	}
	return 0
}

// ImpliedProbability returns the raw implied probability of the given
// decimal odds, without margin correction.
func ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return 1.0 / odds
}
