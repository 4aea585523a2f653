package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// boardFromRows builds a board from a picture: '.' is empty, digits are
// player stones.
func boardFromRows(t *testing.T, rows ...string) *Board {
	t.Helper()
	height := len(rows)
	width := len(rows[0])
	cells := make([]int8, 0, width*height)
	for _, row := range rows {
		require.Len(t, row, width, "all rows must have the same width")
		for _, r := range row {
			if r == '.' {
				cells = append(cells, -1)
			} else {
				cells = append(cells, int8(r-'0'))
			}
		}
	}
	b, err := NewBoardFromCells(width, height, cells)
	require.NoError(t, err)
	return b
}

func TestBoardBasics(t *testing.T) {
	t.Run("coords iterate the whole grid in row-major order", func(t *testing.T) {
		b := NewBoard(3, 2)
		var got []Coord
		for c := range b.Coords() {
			got = append(got, c)
		}
		want := []Coord{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
		require.Equal(t, want, got)
	})

	t.Run("coords sequence is restartable", func(t *testing.T) {
		b := NewBoard(4, 4)
		seq := b.Coords()
		count := func() int {
			n := 0
			for range seq {
				n++
			}
			return n
		}
		require.Equal(t, 16, count())
		require.Equal(t, 16, count(), "second pass should see the full grid again")
	})

	t.Run("index rejects out-of-range coordinates", func(t *testing.T) {
		b := NewBoard(5, 5)
		for _, c := range []Coord{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {99, 99}} {
			_, ok := b.Index(c)
			require.False(t, ok, "coord %v should be out of range", c)
		}
		i, ok := b.Index(Coord{4, 4})
		require.True(t, ok)
		require.Equal(t, 24, i)
	})

	t.Run("reads outside the grid report no stone", func(t *testing.T) {
		b := boardFromRows(t, "01", "..")
		_, occupied := b.At(Coord{7, 7})
		require.False(t, occupied)
		p, occupied := b.At(Coord{1, 0})
		require.True(t, occupied)
		require.Equal(t, Player(1), p)
	})

	t.Run("empty and full detection", func(t *testing.T) {
		require.True(t, NewBoard(3, 3).IsEmpty())
		full := boardFromRows(t, "01", "10")
		require.False(t, full.IsEmpty())
		require.True(t, full.IsFull())
		require.False(t, boardFromRows(t, "0.", "..").IsEmpty())
	})

	t.Run("rebuilding from cells validates the grid", func(t *testing.T) {
		_, err := NewBoardFromCells(3, 3, make([]int8, 8))
		require.Error(t, err, "short cell grid should be rejected")
		cells := make([]int8, 9)
		cells[0] = -2
		for i := 1; i < 9; i++ {
			cells[i] = -1
		}
		_, err = NewBoardFromCells(3, 3, cells)
		require.Error(t, err, "invalid cell value should be rejected")
	})

	t.Run("clone is independent of the original", func(t *testing.T) {
		b := NewBoard(3, 3)
		clone := b.Clone()
		clone.place(Coord{1, 1}, 0)
		require.True(t, b.IsEmpty(), "placing on the clone must not touch the original")
		require.False(t, clone.IsEmpty())
	})
}

func TestInfluence(t *testing.T) {
	t.Run("scenario: first stone on an empty 5x5 claims only its own cell", func(t *testing.T) {
		b := NewBoard(5, 5)
		b.place(Coord{2, 2}, 0)

		in := b.Influence(Coord{2, 2}, 2)
		claimer, ok := in.Player()
		require.True(t, ok)
		require.Equal(t, Player(0), claimer)
		require.True(t, in.Occupied())

		require.Equal(t, []int{1, 0}, b.Points(2),
			"open cells stay neutral while a player has no stones")
	})

	t.Run("strictly closer player claims, ties are neutral", func(t *testing.T) {
		b := boardFromRows(t,
			"...",
			"0.1",
			"...")

		claimer, ok := b.Influence(Coord{0, 0}, 2).Player()
		require.True(t, ok, "corner next to player 0 should be claimed")
		require.Equal(t, Player(0), claimer)

		claimer, ok = b.Influence(Coord{2, 2}, 2).Player()
		require.True(t, ok)
		require.Equal(t, Player(1), claimer)

		for _, c := range []Coord{{1, 0}, {1, 1}, {1, 2}} {
			_, ok := b.Influence(c, 2).Player()
			require.False(t, ok, "equidistant cell %v should be neutral", c)
		}

		require.Equal(t, []int{3, 3}, b.Points(2))
	})

	t.Run("occupied cells are never claimed by a rival", func(t *testing.T) {
		b := boardFromRows(t,
			"00.",
			"001",
			"00.")
		claimer, ok := b.Influence(Coord{2, 1}, 2).Player()
		require.True(t, ok)
		require.Equal(t, Player(1), claimer, "a surrounded stone still belongs to its owner")
		require.True(t, b.Influence(Coord{2, 1}, 2).Occupied())
	})

	t.Run("stones wall off flood distance", func(t *testing.T) {
		// (0,0) is pocketed behind player 0's wall: player 1 cannot
		// reach it, so it is settled territory.
		b := boardFromRows(t,
			".0...",
			"00...",
			".....",
			".....",
			"....1")
		claimer, ok := b.Influence(Coord{0, 0}, 2).Player()
		require.True(t, ok)
		require.Equal(t, Player(0), claimer)

		volatile := b.VolatileCells(2)
		i, _ := b.Index(Coord{0, 0})
		require.False(t, volatile[i], "a cell only one player can reach is settled")
	})

	t.Run("points and influence agree cell by cell", func(t *testing.T) {
		b := boardFromRows(t,
			"0....",
			".....",
			"..1..",
			".....",
			"....0")
		points := b.Points(2)
		counted := make([]int, 2)
		claimedCells := 0
		for c := range b.Coords() {
			if claimer, ok := b.Influence(c, 2).Player(); ok {
				counted[claimer]++
				claimedCells++
			}
		}
		require.Equal(t, counted, points)
		require.Equal(t, claimedCells, points[0]+points[1],
			"score vector sums to exactly the claimed cells")
	})
}

func TestVolatilityAndLegality(t *testing.T) {
	t.Run("every empty cell is in play while someone has no stones", func(t *testing.T) {
		b := NewBoard(5, 5)
		b.place(Coord{2, 2}, 0)
		volatile := b.VolatileCells(2)
		for c := range b.Coords() {
			i, _ := b.Index(c)
			if _, occupied := b.At(c); occupied {
				require.False(t, volatile[i], "stones are settled")
			} else {
				require.True(t, volatile[i], "cell %v should be contested", c)
			}
		}
	})

	t.Run("settled territory admits no placement by anyone", func(t *testing.T) {
		b := boardFromRows(t,
			"...",
			"0.1",
			"...")
		// Corners are strictly closer to one player by margin 2.
		for _, c := range []Coord{{0, 0}, {0, 2}, {2, 0}, {2, 2}} {
			require.False(t, b.IsValidMove(c, 0, 2), "cell %v is settled", c)
			require.False(t, b.IsValidMove(c, 1, 2), "cell %v is settled", c)
		}
		// The middle column is tied, so both players may extend into it.
		for _, c := range []Coord{{1, 0}, {1, 1}, {1, 2}} {
			require.True(t, b.IsValidMove(c, 0, 2))
			require.True(t, b.IsValidMove(c, 1, 2))
		}
	})

	t.Run("moves are only valid on empty volatile cells", func(t *testing.T) {
		b := boardFromRows(t,
			"...",
			"0.1",
			"...")
		volatile := b.VolatileCells(2)
		for c := range b.Coords() {
			i, _ := b.Index(c)
			_, occupied := b.At(c)
			valid := b.IsValidMove(c, 0, 2)
			if valid {
				require.True(t, volatile[i] && !occupied,
					"valid move %v must be empty and volatile", c)
			}
			if occupied {
				require.False(t, valid, "stone cell %v is never a move target", c)
			}
		}
	})

	t.Run("out-of-range players and coords are invalid", func(t *testing.T) {
		b := NewBoard(5, 5)
		require.False(t, b.IsValidMove(Coord{9, 9}, 0, 2))
		require.False(t, b.IsValidMove(Coord{1, 1}, -1, 2))
		require.False(t, b.IsValidMove(Coord{1, 1}, 2, 2))
	})
}

func TestGameOver(t *testing.T) {
	t.Run("full board is over", func(t *testing.T) {
		b := boardFromRows(t, "01", "10")
		require.True(t, b.IsGameOver(2))
	})

	t.Run("scenario: fully partitioned board is over before it is full", func(t *testing.T) {
		// Walls on columns 1-3 split the board; the open flanks are
		// each reachable by only one player.
		b := boardFromRows(t,
			".001.",
			".001.",
			".011.",
			".001.",
			".001.")
		require.True(t, b.IsGameOver(2))
		require.Equal(t, []int{14, 11}, b.Points(2))

		for c := range b.Coords() {
			require.False(t, b.IsValidMove(c, 0, 2))
			require.False(t, b.IsValidMove(c, 1, 2))
		}
	})

	t.Run("a fresh board is not over", func(t *testing.T) {
		require.False(t, NewBoard(5, 5).IsGameOver(2))
	})

	t.Run("game over is monotonic under play", func(t *testing.T) {
		b := boardFromRows(t,
			".001.",
			".001.",
			".011.",
			".001.",
			".001.")
		require.True(t, b.IsGameOver(2))
		// No legal placement exists once the game is over, so the only
		// way to "continue" is passing, which cannot resurrect cells.
		for c := range b.Coords() {
			for p := Player(0); p < 2; p++ {
				require.False(t, b.IsValidMove(c, p, 2))
			}
		}
	})
}
