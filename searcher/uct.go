package searcher

import "math"

// Hyperparameters for MCTS

// CSquared is the squared exploration constant (C = sqrt(2)).
const CSquared = 2.0

// ucb1 scores a child from the acting player's perspective:
// UCB1 = q/n + sqrt(c^2*ln(N)/n), with c2LnN precomputed per parent.
func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}
	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}
