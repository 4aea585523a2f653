package ui

import (
	"github.com/gdamore/tcell/v2"

	"hobogo/game"
)

// Player palette, bright for contested ground and stones, dimmed once a
// cell is settled for the rest of the game.
var playerColors = []tcell.Color{
	tcell.NewRGBColor(239, 169, 0),  // yellow
	tcell.NewRGBColor(242, 73, 117), // pink
	tcell.NewRGBColor(31, 187, 171), // green
	tcell.NewRGBColor(121, 68, 219), // purple
}

var (
	neutralColor = tcell.NewRGBColor(150, 150, 160) // free, at least for some
	blockedColor = tcell.NewRGBColor(90, 90, 100)   // the human to move can't play here
	labelColor   = tcell.NewRGBColor(100, 100, 100)
)

// PlayerColor returns the display color for p, cycling past the palette
// for large player counts.
func PlayerColor(p game.Player) tcell.Color {
	return playerColors[int(p)%len(playerColors)]
}

func dimmed(c tcell.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(r/2, g/2, b/2)
}
