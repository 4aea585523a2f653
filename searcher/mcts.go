// Package searcher chooses moves for computer players with Monte-Carlo
// tree search. One MCTS instance owns one decision: the caller constructs
// it from a snapshot of the game, loops Iterate until its time budget
// elapses, then asks for the best action once. Iterate is a bounded,
// synchronous unit of work (one full rollout), so cancellation between
// iterations is the natural granularity for a caller that also services
// interactive input.
package searcher

import (
	"math"

	"golang.org/x/exp/rand"

	"hobogo/game"
)

// Stats summarizes the work done so far on one decision.
type Stats struct {
	Iterations int // completed select/expand/rollout/backup passes
	Nodes      int // materialized tree nodes, root included
	MaxDepth   int // deepest tree path reached during selection/expansion
}

// MCTS incrementally builds a decision tree over game states. It is not
// safe for concurrent use: one decision, one goroutine.
type MCTS struct {
	root  *game.State
	nodes []node  // arena; the root is index 0
	path  []int32 // scratch for the current iteration's tree path
	stats Stats
}

// New starts a search from state. The state is cloned; the caller's copy
// is never mutated.
func New(state *game.State) *MCTS {
	root := state.Clone()
	m := &MCTS{root: root, nodes: make([]node, 0, 1024)}
	m.nodes = append(m.nodes, newNode(root))
	return m
}

// Iterate runs one simulation: descend the tree by per-player UCB1,
// materialize one new child, roll out uniformly at random to a terminal
// state, and credit every visited node with each player's share of the
// final territory. All randomness comes from rng, so a fixed seed makes
// the search reproducible.
func (m *MCTS) Iterate(rng *rand.Rand) {
	state := m.root.Clone()
	path := append(m.path[:0], 0)
	idx := int32(0)

	// Selection: descend while fully expanded and non-terminal.
	for len(m.nodes[idx].untried) == 0 && !m.nodes[idx].terminal {
		action, child := m.selectChild(idx, rng)
		state = state.Apply(action)
		idx = child
		path = append(path, idx)
	}

	// Expansion: materialize one untried action, chosen at random.
	if !m.nodes[idx].terminal {
		n := &m.nodes[idx]
		k := rng.Intn(len(n.untried))
		action := n.untried[k]
		n.untried[k] = n.untried[len(n.untried)-1]
		n.untried = n.untried[:len(n.untried)-1]

		state = state.Apply(action)
		child := int32(len(m.nodes))
		m.nodes = append(m.nodes, newNode(state))
		m.nodes[idx].children[action] = child
		idx = child
		path = append(path, idx)
	}

	// Rollout: random play to the end. No nodes are created here.
	for !state.IsGameOver() {
		actions := state.LegalActions()
		state = state.Apply(actions[rng.Intn(len(actions))])
	}

	// Backpropagation.
	rewards := terminalRewards(state)
	for _, i := range path {
		n := &m.nodes[i]
		n.visits++
		for p, r := range rewards {
			n.rewards[p] += r
		}
	}

	m.path = path
	m.stats.Iterations++
	m.stats.Nodes = len(m.nodes)
	if depth := len(path) - 1; depth > m.stats.MaxDepth {
		m.stats.MaxDepth = depth
	}
}

// selectChild picks the child maximizing UCB1 from the perspective of the
// player to move at idx. Ties are broken with rng so iteration order never
// introduces a directional bias.
func (m *MCTS) selectChild(idx int32, rng *rand.Rand) (game.Action, int32) {
	n := &m.nodes[idx]
	c2LnN := CSquared * math.Log(float64(n.visits))

	best := math.Inf(-1)
	var actions []game.Action
	var children []int32
	for action, child := range n.children {
		c := &m.nodes[child]
		score := ucb1(c.rewards[n.player], c.visits, c2LnN)
		switch {
		case score > best:
			best = score
			actions = append(actions[:0], action)
			children = append(children[:0], child)
		case score == best:
			actions = append(actions, action)
			children = append(children, child)
		}
	}
	if len(actions) == 0 {
		panic("selectChild on a node without children")
	}
	k := 0
	if len(actions) > 1 {
		k = rng.Intn(len(actions))
	}
	return actions[k], children[k]
}

// BestAction returns the most-visited root action. Visit count is more
// robust than raw average reward under finite-sample noise. Returns false
// when the root has no children: zero iterations run, or the game was
// already over. Callers treat that as "skip the turn", not as an error.
func (m *MCTS) BestAction() (game.Action, bool) {
	root := &m.nodes[0]
	var best game.Action
	bestVisits := -1
	for action, child := range root.children {
		if v := m.nodes[child].visits; v > bestVisits {
			best = action
			bestVisits = v
		}
	}
	if bestVisits < 0 {
		return game.Action{}, false
	}
	return best, true
}

// Stats returns counters describing the search so far.
func (m *MCTS) Stats() Stats { return m.stats }

// terminalRewards converts a terminal score vector into each player's
// share of the claimed territory, in [0, 1]. The share is monotonic in
// territory size, which keeps backpropagation consistent with ranking
// root actions by visit count.
func terminalRewards(state *game.State) []float64 {
	points := state.Points()
	total := 0
	for _, pts := range points {
		total += pts
	}
	rewards := make([]float64, len(points))
	if total == 0 {
		return rewards
	}
	for p, pts := range points {
		rewards[p] = float64(pts) / float64(total)
	}
	return rewards
}
