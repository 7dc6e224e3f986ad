package models

import "strings"

// TournamentCategory reflects event importance for the rating K factor.
type TournamentCategory string

const (
	TournamentGrandSlam  TournamentCategory = "grand_slam"
	TournamentMasters    TournamentCategory = "masters"
	TournamentATP500     TournamentCategory = "atp_500"
	TournamentStandard   TournamentCategory = "standard"
	TournamentChallenger TournamentCategory = "challenger"
)

var grandSlams = []string{
	"australian open",
	"roland garros",
	"french open",
	"wimbledon",
	"us open",
}

// ClassifyTournament buckets a free-text tournament name into a category.
// Unknown names fall back to the standard tour category.
func ClassifyTournament(name string) TournamentCategory {
	lower := strings.ToLower(name)
	for _, slam := range grandSlams {
		if strings.Contains(lower, slam) {
			return TournamentGrandSlam
		}
	}
	switch {
	case strings.Contains(lower, "masters") || strings.Contains(lower, "atp finals"):
		return TournamentMasters
	case strings.Contains(lower, "atp 500") || strings.Contains(lower, "atp500"):
		return TournamentATP500
	case strings.Contains(lower, "challenger") || strings.Contains(lower, "itf"):
		return TournamentChallenger
	}
	return TournamentStandard
}

// Multiplier returns the K-factor scaling for the category.
func (c TournamentCategory) Multiplier() float64 {
	switch c {
	case TournamentGrandSlam:
		return 2.0
	case TournamentMasters:
		return 1.5
	case TournamentATP500:
		return 1.25
	case TournamentChallenger:
		return 0.75
	}
	return 1.0
}
