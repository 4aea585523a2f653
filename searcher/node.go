package searcher

import "hobogo/game"

// node is one position in the search tree. Nodes live in the MCTS arena
// and refer to children by arena index keyed by action, so the tree has no
// pointer cycles and frees in one piece when a decision completes. The
// position itself is not stored: it is reproduced by replaying the action
// path from the root against a clone of the root state.
type node struct {
	player   game.Player // player to move at this node
	terminal bool
	untried  []game.Action         // legal actions not yet expanded
	children map[game.Action]int32 // tried action -> arena index
	visits   int
	rewards  []float64 // accumulated reward per player
}

func newNode(state *game.State) node {
	n := node{
		player:   state.NextPlayer,
		children: make(map[game.Action]int32),
		rewards:  make([]float64, state.NumPlayers),
	}
	if state.IsGameOver() {
		n.terminal = true
	} else {
		n.untried = state.LegalActions()
	}
	return n
}
