package game

import "fmt"

// State is the simulateable world handed to the search engine: a board plus
// whose turn it is. Operations on State are pure - Apply always returns a
// new copy, so a State can be shared as a snapshot without locking.
type State struct {
	Board      *Board
	NextPlayer Player
	NumPlayers int
}

// NewState returns a fresh state on an empty square board. numPlayers must
// be at least 2 and starting must be one of the players.
func NewState(boardSize, numPlayers int, starting Player) *State {
	if numPlayers < 2 {
		panic(fmt.Sprintf("need at least two players, got %d", numPlayers))
	}
	if starting < 0 || int(starting) >= numPlayers {
		panic(fmt.Sprintf("starting player %d out of range for %d players", starting, numPlayers))
	}
	return &State{
		Board:      NewBoard(boardSize, boardSize),
		NextPlayer: starting,
		NumPlayers: numPlayers,
	}
}

// Clone returns an independent deep copy.
func (s *State) Clone() *State {
	return &State{
		Board:      s.Board.Clone(),
		NextPlayer: s.NextPlayer,
		NumPlayers: s.NumPlayers,
	}
}

// Action is a closed choice: pass, or place the next player's stone at a
// coordinate. The zero value is a Move at A0; use Pass for the pass action.
// Actions are comparable and usable as map keys.
type Action struct {
	pass   bool
	target Coord
}

// Pass skips the turn and leaves the board unchanged.
var Pass = Action{pass: true}

// MoveAt places the next player's stone at c.
func MoveAt(c Coord) Action { return Action{target: c} }

// IsPass reports whether the action is a pass.
func (a Action) IsPass() bool { return a.pass }

// Target returns the placement coordinate, or false for a pass.
func (a Action) Target() (Coord, bool) {
	if a.pass {
		return Coord{}, false
	}
	return a.target, true
}

func (a Action) String() string {
	if a.pass {
		return "pass"
	}
	return a.target.String()
}

// Apply returns the state reached by playing action. Pass leaves the board
// untouched; a Move writes the stone. Either way the turn advances to the
// next player modulo NumPlayers. Applying an illegal Move is a caller bug
// and panics: the search engine only ever enumerates legal actions, and
// silently accepting one would corrupt the territory invariants.
func (s *State) Apply(a Action) *State {
	next := &State{
		Board:      s.Board,
		NextPlayer: (s.NextPlayer + 1) % Player(s.NumPlayers),
		NumPlayers: s.NumPlayers,
	}
	if !a.pass {
		if !s.Board.IsValidMove(a.target, s.NextPlayer, s.NumPlayers) {
			panic(fmt.Sprintf("illegal move %v for player %d", a, s.NextPlayer))
		}
		board := s.Board.Clone()
		board.place(a.target, s.NextPlayer)
		next.Board = board
	}
	return next
}

// LegalActions enumerates every legal Move for the next player. When no
// placement is legal the only action is Pass.
func (s *State) LegalActions() []Action {
	volatile := s.Board.VolatileCells(s.NumPlayers)
	actions := make([]Action, 0, len(volatile))
	for c := range s.Board.Coords() {
		i, _ := s.Board.Index(c)
		if !volatile[i] {
			continue
		}
		if _, occupied := s.Board.At(c); occupied {
			continue
		}
		actions = append(actions, MoveAt(c))
	}
	if len(actions) == 0 {
		return []Action{Pass}
	}
	return actions
}

// IsGameOver reports whether territory has fully stabilized.
func (s *State) IsGameOver() bool { return s.Board.IsGameOver(s.NumPlayers) }

// Points returns the current score vector, one entry per player.
func (s *State) Points() []int { return s.Board.Points(s.NumPlayers) }

// Influence resolves the territory claim for one cell.
func (s *State) Influence(c Coord) Influence { return s.Board.Influence(c, s.NumPlayers) }

// VolatileCells reports which cells are still in play, indexed like
// Board.Index.
func (s *State) VolatileCells() []bool { return s.Board.VolatileCells(s.NumPlayers) }

// IsValidMove reports whether the next player may place at c.
func (s *State) IsValidMove(c Coord) bool {
	return s.Board.IsValidMove(c, s.NextPlayer, s.NumPlayers)
}

// Leader returns the player with the highest score, or false on a tie for
// the lead.
func (s *State) Leader() (Player, bool) {
	points := s.Points()
	best, tied := 0, false
	for p := 1; p < len(points); p++ {
		switch {
		case points[p] > points[best]:
			best, tied = p, false
		case points[p] == points[best]:
			tied = true
		}
	}
	return Player(best), !tied
}
