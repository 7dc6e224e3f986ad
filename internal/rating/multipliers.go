package rating

import (
	"strconv"
	"strings"

	"github.com/yourusername/owl-tennis/internal/models"
)

// Rating constants
const (
	// DefaultRating is assigned to every player before their first match.
	DefaultRating = 1500.0

	baseKFactor     = 32.0
	bookmakerMargin = 0.95
	minWinProb      = 0.05
	maxWinProb      = 0.95
)

// ParseSetScore extracts how many sets each participant won from the
// provider's free-text final score. Accepts a plain set count ("2 - 0") as
// well as a per-set breakdown ("6-4, 7-5"), in which case sets are counted
// from the individual games scores.
func ParseSetScore(score string) (first, second int, ok bool) {
	fields := strings.FieldsFunc(score, func(r rune) bool {
		return r == ',' || r == ' '
	})

	var pairs [][2]int
	for _, f := range fields {
		a, b, valid := parsePair(f)
		if !valid {
			continue
		}
		pairs = append(pairs, [2]int{a, b})
	}
	if len(pairs) == 0 {
		// Provider may space out the dash: "2 - 0" splits into three fields.
		joined := strings.ReplaceAll(score, " ", "")
		if a, b, valid := parsePair(joined); valid {
			pairs = append(pairs, [2]int{a, b})
		}
	}

	switch {
	case len(pairs) == 0:
		return 0, 0, false
	case len(pairs) == 1 && pairs[0][0] <= 5 && pairs[0][1] <= 5:
		// A single low pair is already a set count.
		return pairs[0][0], pairs[0][1], true
	}
	for _, p := range pairs {
		if p[0] > p[1] {
			first++
		} else if p[1] > p[0] {
			second++
		}
	}
	return first, second, true
}

func parsePair(s string) (int, int, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a < 0 || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}

// DominanceMultipliers maps a (winner sets, loser sets) margin to the winner
// and loser point-exchange multipliers. Lopsided wins amplify the exchange,
// five-setters dampen the winner's gain and soften the loser's drop.
func DominanceMultipliers(winnerSets, loserSets int) (winner, loser float64) {
	switch {
	case winnerSets == 2 && loserSets == 0:
		return 1.5, 0.7
	case winnerSets == 3 && loserSets == 0:
		return 1.6, 0.6
	case winnerSets == 2 && loserSets == 1:
		return 1.2, 1.0
	case winnerSets == 3 && loserSets == 1:
		return 1.2, 1.1
	case winnerSets == 3 && loserSets == 2:
		return 0.85, 1.4
	}
	return 1.0, 1.0
}

// dominanceForMatch orients the parsed score to the winning side. Ties and
// unparseable scores degrade to neutral multipliers rather than failing.
func dominanceForMatch(m *models.Match, winnerKey string) (winner, loser float64) {
	first, second, ok := ParseSetScore(m.FinalScore)
	if !ok || first == second {
		return 1.0, 1.0
	}
	winnerSets, loserSets := first, second
	if winnerKey == m.SecondKey {
		winnerSets, loserSets = second, first
	}
	if winnerSets < loserSets {
		// Score contradicts the recorded winner; treat as unparseable.
		return 1.0, 1.0
	}
	return DominanceMultipliers(winnerSets, loserSets)
}

// TournamentMultiplier returns the K-factor scaling for a tournament name.
func TournamentMultiplier(tournamentName string) float64 {
	return models.ClassifyTournament(tournamentName).Multiplier()
}
