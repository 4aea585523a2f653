// Package ui renders the board and drives play in the terminal with
// tview. It only ever reads game state through the engine and applies
// changes through engine methods; bot searches run on a worker goroutine
// that owns a private snapshot.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"hobogo/engine"
	"hobogo/game"
)

// BoardView draws the grid and tracks the keyboard cursor. Each board cell
// is two terminal cells wide so the grid looks square.
type BoardView struct {
	Box  *tview.Box
	eng  *engine.Engine
	selX int
	selY int
}

func NewBoardView(eng *engine.Engine) *BoardView {
	v := &BoardView{Box: tview.NewBox(), eng: eng, selX: -1, selY: -1}
	v.Box.SetDrawFunc(v.draw)
	return v
}

// Selected returns the cursor coordinate, or false when no cell is
// selected.
func (v *BoardView) Selected() (game.Coord, bool) {
	if v.selX < 0 || v.selY < 0 {
		return game.Coord{}, false
	}
	return game.Coord{X: v.selX, Y: v.selY}, true
}

// MoveSelection shifts the cursor, clamping to the grid. The first
// movement starts at the board center.
func (v *BoardView) MoveSelection(dx, dy int) {
	board := v.eng.State().Board
	if v.selX < 0 || v.selY < 0 {
		v.selX, v.selY = board.Width()/2, board.Height()/2
		return
	}
	if x := v.selX + dx; x >= 0 && x < board.Width() {
		v.selX = x
	}
	if y := v.selY + dy; y >= 0 && y < board.Height() {
		v.selY = y
	}
}

func (v *BoardView) ResetSelection() {
	v.selX, v.selY = -1, -1
}

const leftMargin = 3 // room for row numbers

func (v *BoardView) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	state := v.eng.State()
	board := state.Board
	volatile := state.VolatileCells()

	for c := range board.Coords() {
		i, _ := board.Index(c)
		style := tcell.StyleDefault
		sx, sy := x+leftMargin+2*c.X, y+c.Y

		if p, occupied := board.At(c); occupied {
			// Stones render as solid blocks in the occupant's color.
			style = style.Background(PlayerColor(p))
			if cursor := v.isCursor(c); cursor {
				style = style.Reverse(true)
			}
			screen.SetContent(sx, sy, ' ', nil, style)
			screen.SetContent(sx+1, sy, ' ', nil, style)
			continue
		}

		// Open cells render as dots tinted by their current claim.
		fill := v.openCellColor(state, c, volatile[i])
		style = style.Foreground(fill)
		if v.isCursor(c) {
			if state.IsValidMove(c) && v.eng.NextIsHuman() {
				// Preview: show the stone the move would place.
				style = tcell.StyleDefault.Background(PlayerColor(state.NextPlayer))
				screen.SetContent(sx, sy, ' ', nil, style)
				screen.SetContent(sx+1, sy, ' ', nil, style)
				continue
			}
			style = style.Reverse(true)
		}
		screen.SetContent(sx, sy, '·', nil, style)
		screen.SetContent(sx+1, sy, ' ', nil, style)
	}

	labels := tcell.StyleDefault.Foreground(labelColor)
	for bx := 0; bx < board.Width(); bx++ {
		screen.SetContent(x+leftMargin+2*bx, y+board.Height(), rune('A'+bx), nil, labels)
	}
	for by := 0; by < board.Height(); by++ {
		for j, r := range fmt.Sprintf("%2d", by) {
			screen.SetContent(x+j, y+by, r, nil, labels)
		}
	}

	return x, y, width, height
}

// openCellColor mirrors the original coloring: claimed cells take their
// claimant's color, darker once settled; neutral cells are gray, with a
// darker shade when the human to move cannot play there.
func (v *BoardView) openCellColor(state *game.State, c game.Coord, isVolatile bool) tcell.Color {
	if claimer, ok := state.Influence(c).Player(); ok {
		color := PlayerColor(claimer)
		if !isVolatile {
			color = dimmed(color)
		}
		return color
	}
	if v.eng.NextIsHuman() && !state.IsValidMove(c) {
		return blockedColor
	}
	return neutralColor
}

func (v *BoardView) isCursor(c game.Coord) bool {
	return c.X == v.selX && c.Y == v.selY
}
