package game

import (
	"fmt"
	"iter"
	"math"
)

// Player identifies one participant: 0-based and contiguous.
type Player int

// Coord addresses a single board cell.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	// Chess-style name: column letter, then row number
	return fmt.Sprintf("%c%d", 'A'+rune(c.X), c.Y)
}

const emptyCell = int8(-1)

// farAway stands in for an infinite stone distance.
const farAway = int16(math.MaxInt16)

// Board is a width x height grid of cells, each either empty or holding
// exactly one player's stone. Stones are never removed once placed.
// Influence and volatility are derived on demand rather than stored, which
// keeps a Board cheap to clone for tree search. A clone-local cache of the
// last derivation is kept purely as a speedup; correctness never depends
// on it because every mutation goes through place, which drops it.
type Board struct {
	width  int
	height int
	cells  []int8 // -1 empty, otherwise the owning player

	cached       *survey
	cachePlayers int
}

// NewBoard returns an empty width x height board.
func NewBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid board dimensions %dx%d", width, height))
	}
	cells := make([]int8, width*height)
	for i := range cells {
		cells[i] = emptyCell
	}
	return &Board{width: width, height: height, cells: cells}
}

// NewBoardFromCells rebuilds a board from a persisted cell grid.
func NewBoardFromCells(width, height int, cells []int8) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid board dimensions %dx%d", width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("cell grid has %d entries, want %d", len(cells), width*height)
	}
	b := &Board{width: width, height: height, cells: make([]int8, len(cells))}
	copy(b.cells, cells)
	for i, cell := range b.cells {
		if cell < emptyCell {
			return nil, fmt.Errorf("cell %d holds invalid player %d", i, cell)
		}
	}
	return b, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Cells returns a copy of the raw occupancy grid, indexed like Index.
// Intended for persistence; -1 marks an empty cell.
func (b *Board) Cells() []int8 {
	cells := make([]int8, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	clone := &Board{width: b.width, height: b.height, cells: make([]int8, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

// Coords yields every valid coordinate in row-major order. The sequence is
// restartable and is the canonical iteration order for rendering.
func (b *Board) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for y := 0; y < b.height; y++ {
			for x := 0; x < b.width; x++ {
				if !yield(Coord{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// Index returns the linear index of c, or false when c is out of bounds.
func (b *Board) Index(c Coord) (int, bool) {
	if c.X < 0 || c.X >= b.width || c.Y < 0 || c.Y >= b.height {
		return 0, false
	}
	return c.Y*b.width + c.X, true
}

// At reports the stone at c, if any. Out-of-bounds coordinates read as
// empty so rendering and hit-testing can treat them as "not applicable".
func (b *Board) At(c Coord) (Player, bool) {
	i, ok := b.Index(c)
	if !ok || b.cells[i] == emptyCell {
		return 0, false
	}
	return Player(b.cells[i]), true
}

// place puts a stone on the board. Only the State transition calls this;
// legality is checked there.
func (b *Board) place(c Coord, p Player) {
	i, ok := b.Index(c)
	if !ok {
		panic(fmt.Sprintf("place out of bounds: %v", c))
	}
	if b.cells[i] != emptyCell {
		panic(fmt.Sprintf("cell %v already occupied", c))
	}
	b.cells[i] = int8(p)
	b.cached = nil
}

// IsEmpty reports whether no stones have been placed yet.
func (b *Board) IsEmpty() bool {
	for _, cell := range b.cells {
		if cell != emptyCell {
			return false
		}
	}
	return true
}

// IsFull reports whether every cell holds a stone.
func (b *Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == emptyCell {
			return false
		}
	}
	return true
}

// Influence describes which player, if any, a cell currently counts for.
type Influence struct {
	player   Player
	claimed  bool
	occupied bool
}

// Player returns the claiming player, or false for a neutral cell.
func (in Influence) Player() (Player, bool) { return in.player, in.claimed }

// Occupied reports whether a stone physically occupies the cell.
func (in Influence) Occupied() bool { return in.occupied }

// Influence resolves the territory claim for a single cell. A stone-occupied
// cell always belongs to its occupant. An empty cell belongs to the player
// whose stones are strictly closest by 4-connected flood distance; distance
// ties, and boards where some player has no stones yet, leave it neutral.
// Out-of-bounds coordinates resolve to neutral.
func (b *Board) Influence(c Coord, numPlayers int) Influence {
	i, ok := b.Index(c)
	if !ok {
		return Influence{}
	}
	if b.cells[i] != emptyCell {
		return Influence{player: Player(b.cells[i]), claimed: true, occupied: true}
	}
	s := b.survey(numPlayers)
	if s.claimant[i] >= 0 {
		return Influence{player: Player(s.claimant[i]), claimed: true}
	}
	return Influence{}
}

// VolatileCells reports, for every cell, whether its influence assignment
// could still change through future play. The result is indexed like Index.
func (b *Board) VolatileCells(numPlayers int) []bool {
	s := b.survey(numPlayers)
	volatile := make([]bool, len(s.volatile))
	copy(volatile, s.volatile)
	return volatile
}

// IsValidMove reports whether player may place a stone at c: the cell must
// be in bounds, empty, and still volatile. Placements inside settled
// territory, own or rival, are illegal.
func (b *Board) IsValidMove(c Coord, player Player, numPlayers int) bool {
	if player < 0 || int(player) >= numPlayers {
		return false
	}
	i, ok := b.Index(c)
	if !ok || b.cells[i] != emptyCell {
		return false
	}
	return b.survey(numPlayers).volatile[i]
}

// Points returns the score vector: per player, the number of cells whose
// influence resolves to them. Stones count unconditionally; open cells
// count only while uniquely claimed.
func (b *Board) Points(numPlayers int) []int {
	s := b.survey(numPlayers)
	points := make([]int, numPlayers)
	for _, claimant := range s.claimant {
		if claimant >= 0 {
			points[claimant]++
		}
	}
	return points
}

// IsGameOver reports whether territory has fully stabilized: the board is
// filled, or no empty cell is volatile any more.
func (b *Board) IsGameOver(numPlayers int) bool {
	s := b.survey(numPlayers)
	for i, cell := range b.cells {
		if cell == emptyCell && s.volatile[i] {
			return false
		}
	}
	return true
}

// survey holds the per-cell influence resolution: the claiming player
// (-1 for neutral) and whether the claim can still change.
type survey struct {
	claimant []int8
	volatile []bool
}

// survey resolves influence and volatility for the whole board in one go:
// one multi-source BFS per player, then a per-cell margin test. An empty
// cell is volatile when some player has no stones yet (everyone still
// contests everything), or when the runner-up player's stone distance is
// within one of the claimant's, so that a single placement could still
// flip or tie the claim. Enclosed cells only one player can reach are
// settled.
func (b *Board) survey(numPlayers int) *survey {
	if b.cached != nil && b.cachePlayers == numPlayers {
		return b.cached
	}

	dists := make([][]int16, numPlayers)
	stoneless := false
	for p := 0; p < numPlayers; p++ {
		d, any := b.distances(Player(p))
		dists[p] = d
		if !any {
			stoneless = true
		}
	}

	s := &survey{
		claimant: make([]int8, len(b.cells)),
		volatile: make([]bool, len(b.cells)),
	}
	for i, cell := range b.cells {
		if cell != emptyCell {
			s.claimant[i] = cell
			continue
		}
		if stoneless {
			// A player who has not placed yet contests every open cell.
			s.claimant[i] = emptyCell
			s.volatile[i] = true
			continue
		}

		best, second := farAway, farAway
		bestPlayer := emptyCell
		for p := 0; p < numPlayers; p++ {
			d := dists[p][i]
			switch {
			case d < best:
				best, second = d, best
				bestPlayer = int8(p)
			case d < second:
				second = d
			}
		}

		switch {
		case best == farAway:
			// Walled-off pocket nobody can reach: settled neutral.
			s.claimant[i] = emptyCell
		case best == second:
			// Contested tie: neutral but still in play.
			s.claimant[i] = emptyCell
			s.volatile[i] = true
		default:
			s.claimant[i] = bestPlayer
			s.volatile[i] = second != farAway && second <= best+1
		}
	}

	b.cached = s
	b.cachePlayers = numPlayers
	return s
}

// distances runs a multi-source BFS from every stone of p across the
// 4-connected grid. Other players' stones block traversal, so territory
// does not leak through a wall. Cells p cannot reach stay at farAway. Also
// reports whether p has any stone at all.
func (b *Board) distances(p Player) ([]int16, bool) {
	dist := make([]int16, len(b.cells))
	for i := range dist {
		dist[i] = farAway
	}
	queue := make([]int32, 0, len(b.cells))
	for i, cell := range b.cells {
		if cell == int8(p) {
			dist[i] = 0
			queue = append(queue, int32(i))
		}
	}
	hasStone := len(queue) > 0

	for head := 0; head < len(queue); head++ {
		i := int(queue[head])
		x, y := i%b.width, i/b.width
		next := dist[i] + 1
		for _, n := range [4]struct{ dx, dy int }{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := x+n.dx, y+n.dy
			if nx < 0 || nx >= b.width || ny < 0 || ny >= b.height {
				continue
			}
			j := ny*b.width + nx
			if dist[j] != farAway || b.cells[j] != emptyCell {
				continue
			}
			dist[j] = next
			queue = append(queue, int32(j))
		}
	}
	return dist, hasStone
}
