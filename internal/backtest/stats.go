package backtest

// unitStake is the flat stake placed on every simulated bet.
const unitStake = 1.0

// BetStats accumulates wagering outcomes at flat unit stakes. The same
// accumulator backs backtest runs, confidence-bucket analysis, and live
// verification so the three report identical arithmetic.
type BetStats struct {
	Bets        int
	Wins        int
	TotalStake  float64
	TotalProfit float64
}

// Record books one settled unit-stake bet at the given decimal odds.
// A winning bet returns odds-1, a losing bet loses the stake.
func (s *BetStats) Record(odds float64, won bool) {
	s.Bets++
	s.TotalStake += unitStake
	if won {
		s.Wins++
		s.TotalProfit += odds - 1.0
	} else {
		s.TotalProfit -= unitStake
	}
}

// Accuracy returns the fraction of winning bets, 0 when none were placed.
func (s *BetStats) Accuracy() float64 {
	if s.Bets == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Bets)
}

// ROI returns profit over stake as a percentage, 0 when nothing was staked.
func (s *BetStats) ROI() float64 {
	if s.TotalStake == 0 {
		return 0
	}
	return s.TotalProfit / s.TotalStake * 100
}
