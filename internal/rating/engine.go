// Package rating implements the odds-weighted ladder (OWL) rating system:
// the point-exchange engine, the per-player rating ledger, chronological
// history replay, and point-in-time queries over the durable change log.
package rating

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	applogger "github.com/yourusername/owl-tennis/internal/logger"
	"github.com/yourusername/owl-tennis/internal/models"
)

// Exchange describes the point exchange computed for one finished match.
type Exchange struct {
	WinnerKey            string
	LoserKey             string
	WinnerOdds           float64
	LoserOdds            float64
	ExpectedWinProb      float64
	WinnerDominance      float64
	LoserDominance       float64
	TournamentMultiplier float64
	PointsGained         float64
	PointsLost           float64
	WinnerChange         models.RatingChange
	LoserChange          models.RatingChange
}

// Engine owns the in-memory rating state and computes point exchanges.
// It is deliberately single-threaded: replay correctness depends on strict
// chronological processing.
type Engine struct {
	players map[string]*models.PlayerRating
	logger  *applogger.RatingLogger
}

// NewEngine creates a rating engine with empty state.
func NewEngine(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		players: make(map[string]*models.PlayerRating),
		logger:  applogger.NewRatingLogger(logger),
	}
}

// Reset discards all rating state. Used before a full history replay.
func (e *Engine) Reset() {
	e.players = make(map[string]*models.PlayerRating)
}

// Player returns the current rating state for a player key, if any.
func (e *Engine) Player(key string) (*models.PlayerRating, bool) {
	p, ok := e.players[key]
	return p, ok
}

// Players returns all tracked players, ordered by descending rating.
func (e *Engine) Players() []*models.PlayerRating {
	out := make([]*models.PlayerRating, 0, len(e.players))
	for _, p := range e.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].PlayerKey < out[j].PlayerKey
	})
	return out
}

func (e *Engine) getOrCreate(key, name string) *models.PlayerRating {
	if p, ok := e.players[key]; ok {
		if p.PlayerName == "" && name != "" {
			p.PlayerName = name
		}
		return p
	}
	p := &models.PlayerRating{
		PlayerKey:  key,
		PlayerName: name,
		Rating:     DefaultRating,
		PeakRating: DefaultRating,
	}
	e.players[key] = p
	return p
}

// ProcessMatch computes and applies the point exchange for one finished
// match. The function is pure given (match, odds, pre-match ratings): the
// same inputs always produce the same deltas, which is what makes replay
// deterministic and backtests reproducible.
func (e *Engine) ProcessMatch(m *models.Match, odds *models.MatchOdds) (*Exchange, error) {
	winnerKey := m.ResolveWinnerKey()
	if winnerKey == "" {
		return nil, fmt.Errorf("match %s: %w", m.EventKey, models.ErrNoWinner)
	}
	loserKey := m.LoserKey()

	winner := e.getOrCreate(winnerKey, m.PlayerName(winnerKey))
	loser := e.getOrCreate(loserKey, m.PlayerName(loserKey))

	winnerOdds := odds.ForPlayer(m, winnerKey)
	loserOdds := odds.ForPlayer(m, loserKey)

	var expectedWinProb float64
	if winnerOdds > 1.0 {
		// Strip the assumed bookmaker margin before converting to a
		// probability, clamped away from certainty on both ends.
		expectedWinProb = clamp(minWinProb, maxWinProb, (1.0/winnerOdds)*bookmakerMargin)
	} else {
		expectedWinProb = eloWinProbability(winner.Rating, loser.Rating)
		winnerOdds = 1.0 / expectedWinProb
		loserOdds = 1.0 / (1.0 - expectedWinProb)
	}

	winnerDominance, loserDominance := dominanceForMatch(m, winnerKey)
	tournamentMult := TournamentMultiplier(m.TournamentName)

	k := baseKFactor * tournamentMult
	pointsGained := round1(k * (1.0 - expectedWinProb) * winnerDominance)
	pointsLost := round1(k * expectedWinProb * loserDominance)

	winnerChange := models.RatingChange{
		PlayerKey:            winnerKey,
		MatchKey:             m.EventKey,
		MatchDate:            m.Date,
		OpponentKey:          loserKey,
		OpponentName:         loser.PlayerName,
		OpponentRating:       loser.Rating,
		Won:                  true,
		Score:                m.FinalScore,
		OddsUsed:             winnerOdds,
		ExpectedWinProb:      expectedWinProb,
		DominanceMultiplier:  winnerDominance,
		TournamentMultiplier: tournamentMult,
		PointsChange:         pointsGained,
		RatingBefore:         winner.Rating,
		RatingAfter:          winner.Rating + pointsGained,
		Tournament:           m.TournamentName,
	}
	loserChange := models.RatingChange{
		PlayerKey:            loserKey,
		MatchKey:             m.EventKey,
		MatchDate:            m.Date,
		OpponentKey:          winnerKey,
		OpponentName:         winner.PlayerName,
		OpponentRating:       winner.Rating,
		Won:                  false,
		Score:                m.FinalScore,
		OddsUsed:             loserOdds,
		ExpectedWinProb:      1.0 - expectedWinProb,
		DominanceMultiplier:  loserDominance,
		TournamentMultiplier: tournamentMult,
		PointsChange:         -pointsLost,
		RatingBefore:         loser.Rating,
		RatingAfter:          loser.Rating - pointsLost,
		Tournament:           m.TournamentName,
	}

	applyChange(winner, winnerChange)
	applyChange(loser, loserChange)
	now := time.Now().UTC()
	winner.UpdatedAt = now
	loser.UpdatedAt = now

	e.logger.LogMatchProcessed(m.EventKey, winnerKey, loserKey,
		winnerOdds, expectedWinProb, pointsGained, pointsLost)

	return &Exchange{
		WinnerKey:            winnerKey,
		LoserKey:             loserKey,
		WinnerOdds:           winnerOdds,
		LoserOdds:            loserOdds,
		ExpectedWinProb:      expectedWinProb,
		WinnerDominance:      winnerDominance,
		LoserDominance:       loserDominance,
		TournamentMultiplier: tournamentMult,
		PointsGained:         pointsGained,
		PointsLost:           pointsLost,
		WinnerChange:         winnerChange,
		LoserChange:          loserChange,
	}, nil
}

// eloWinProbability is the fallback expectation when no usable odds exist.
func eloWinProbability(winnerRating, loserRating float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (loserRating-winnerRating)/400.0))
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
