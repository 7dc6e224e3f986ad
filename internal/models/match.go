package models

import (
	"time"
)

// Symbolic winner indicators used by the fixture provider when the winner
// field does not carry a participant key.
const (
	WinnerFirstPlayer  = "First Player"
	WinnerSecondPlayer = "Second Player"
)

// Match represents a finished fixture from the fixture provider
type Match struct {
	EventKey       string    `db:"event_key" json:"event_key" validate:"required"`
	Date           time.Time `db:"event_date" json:"event_date" validate:"required"`
	FirstKey       string    `db:"first_player_key" json:"first_player_key" validate:"required"`
	FirstName      string    `db:"first_player_name" json:"first_player_name"`
	SecondKey      string    `db:"second_player_key" json:"second_player_key" validate:"required"`
	SecondName     string    `db:"second_player_name" json:"second_player_name"`
	FinalScore     string    `db:"final_score" json:"final_score"`
	Winner         string    `db:"winner" json:"winner"`
	TournamentKey  string    `db:"tournament_key" json:"tournament_key"`
	TournamentName string    `db:"tournament_name" json:"tournament_name"`
	Round          string    `db:"round" json:"round"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// HasWinner reports whether the match carries a resolvable winner.
func (m *Match) HasWinner() bool {
	return m.ResolveWinnerKey() != ""
}

// ResolveWinnerKey maps the winner field to a participant key. The provider
// sometimes sends a literal key, sometimes a player name, and sometimes the
// symbolic "First Player"/"Second Player" form; all three resolve here and
// nowhere else.
func (m *Match) ResolveWinnerKey() string {
	switch m.Winner {
	case "":
		return ""
	case WinnerFirstPlayer, m.FirstKey, m.FirstName:
		return m.FirstKey
	case WinnerSecondPlayer, m.SecondKey, m.SecondName:
		return m.SecondKey
	}
	return ""
}

// LoserKey returns the participant key of the losing side, or "" when the
// winner cannot be resolved.
func (m *Match) LoserKey() string {
	switch m.ResolveWinnerKey() {
	case m.FirstKey:
		return m.SecondKey
	case m.SecondKey:
		return m.FirstKey
	}
	return ""
}

// PlayerName returns the display name for a participant key.
func (m *Match) PlayerName(key string) string {
	if key == m.FirstKey {
		return m.FirstName
	}
	if key == m.SecondKey {
		return m.SecondName
	}
	return ""
}
