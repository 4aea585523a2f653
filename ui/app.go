package ui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hobogo/config"
	"hobogo/engine"
	"hobogo/game"
)

// App wires the board view, status and score panels, and the settings page
// into a tview application around one engine.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	board    *BoardView
	status   *tview.TextView
	score    *tview.TextView
	hint     *tview.TextView
	eng      *engine.Engine
	rng      *rand.Rand
	thinking bool
}

func NewApp(eng *engine.Engine, rng *rand.Rand) *App {
	a := &App{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		board:  NewBoardView(eng),
		status: tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter),
		score:  tview.NewTextView().SetDynamicColors(true),
		hint:   tview.NewTextView().SetTextAlign(tview.AlignCenter),
		eng:    eng,
		rng:    rng,
	}

	a.hint.SetText("arrows/hjkl move - enter place - u undo - n new game - s settings - q quit")
	a.score.SetBorder(true)
	a.score.SetTitle("Score")

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.score, 0, 1, false)
	center := tview.NewFlex().
		AddItem(a.board.Box, 0, 3, true).
		AddItem(right, 24, 0, false)
	page := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.status, 1, 0, false).
		AddItem(center, 0, 1, true).
		AddItem(a.hint, 1, 0, false)

	a.pages.AddPage("game", page, true, true)
	a.pages.AddPage("settings", a.settingsForm(), true, false)
	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.handleKey)
	return a
}

// Run refreshes the panels, kicks off a bot turn if one is due, and blocks
// until quit.
func (a *App) Run() error {
	a.refresh()
	a.maybeStartBot()
	return a.app.Run()
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if name, _ := a.pages.GetFrontPage(); name != "game" {
		return event
	}
	switch event.Key() {
	case tcell.KeyUp:
		a.board.MoveSelection(0, -1)
	case tcell.KeyDown:
		a.board.MoveSelection(0, 1)
	case tcell.KeyLeft:
		a.board.MoveSelection(-1, 0)
	case tcell.KeyRight:
		a.board.MoveSelection(1, 0)
	case tcell.KeyEnter:
		a.placeAtCursor()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'k':
			a.board.MoveSelection(0, -1)
		case 'j':
			a.board.MoveSelection(0, 1)
		case 'h':
			a.board.MoveSelection(-1, 0)
		case 'l':
			a.board.MoveSelection(1, 0)
		case ' ':
			a.placeAtCursor()
		case 'u':
			if a.eng.Undo() {
				a.refresh()
				a.maybeStartBot()
			}
		case 'n':
			a.newGame(a.eng.Settings())
		case 's':
			a.pages.SwitchToPage("settings")
		case 'q':
			a.app.Stop()
		default:
			return event
		}
	default:
		return event
	}
	a.refresh()
	return nil
}

func (a *App) placeAtCursor() {
	c, ok := a.board.Selected()
	if !ok || !a.eng.NextIsHuman() {
		return
	}
	if err := a.eng.HumanMove(c); err != nil {
		return // ignore clicks on illegal cells, like the original
	}
	a.refresh()
	a.maybeStartBot()
}

func (a *App) newGame(settings config.Settings) {
	if err := a.eng.Reset(settings); err != nil {
		log.Warn().Err(err).Msg("new game failed")
		return
	}
	a.board.ResetSelection()
	a.refresh()
	a.maybeStartBot()
}

// maybeStartBot hands a private snapshot to a worker goroutine when a bot
// is to move. The worker communicates back only the chosen action, which
// is re-validated on the UI loop before it touches the authoritative
// state.
func (a *App) maybeStartBot() {
	if a.thinking || a.eng.GameOver() || a.eng.NextIsHuman() {
		return
	}
	a.thinking = true
	snapshot := a.eng.State().Clone()
	budget := a.eng.Settings().ThinkBudget()
	rng := a.rng
	go func() {
		action, _ := engine.Decide(snapshot, budget, rng)
		a.app.QueueUpdateDraw(func() {
			a.thinking = false
			if err := a.eng.ApplyBotAction(action); err != nil {
				log.Debug().Err(err).Msg("dropping stale bot action")
				return
			}
			a.refresh()
			a.maybeStartBot()
		})
	}()
}

func (a *App) refresh() {
	state := a.eng.State()

	switch {
	case a.eng.GameOver():
		a.status.SetText("Game over!")
	case a.eng.NextIsHuman():
		a.status.SetText(fmt.Sprintf("[#%06x]%s to play", PlayerColor(state.NextPlayer).Hex(), a.eng.PlayerName(state.NextPlayer)))
	default:
		a.status.SetText(fmt.Sprintf("[#%06x]%s is thinking...", PlayerColor(state.NextPlayer).Hex(), a.eng.PlayerName(state.NextPlayer)))
	}

	scores := a.eng.Scores()
	text := ""
	for p, score := range scores {
		text += fmt.Sprintf("[#%06x]%-14s %3d\n", PlayerColor(game.Player(p)).Hex(), a.eng.PlayerName(game.Player(p)), score)
	}
	a.score.SetText(text)
}

// settingsForm builds the settings page. Applying starts a new game under
// the chosen settings, exactly like changing a slider in the original.
func (a *App) settingsForm() tview.Primitive {
	settings := a.eng.Settings()

	sizes := []string{"5", "7", "9", "11", "13", "15", "17"}
	sizeIndex := 2
	for i, s := range sizes {
		if s == strconv.Itoa(settings.BoardSize) {
			sizeIndex = i
		}
	}
	counts := []string{"0", "1", "2", "3", "4"}

	form := tview.NewForm()
	form.AddDropDown("Board size", sizes, sizeIndex, func(option string, _ int) {
		settings.BoardSize, _ = strconv.Atoi(option)
	})
	form.AddDropDown("Humans", counts, settings.NumHumans, func(option string, _ int) {
		settings.NumHumans, _ = strconv.Atoi(option)
	})
	form.AddDropDown("Bots", counts, settings.NumBots, func(option string, _ int) {
		settings.NumBots, _ = strconv.Atoi(option)
	})
	form.AddCheckbox("Humans go first", settings.HumansFirst, func(checked bool) {
		settings.HumansFirst = checked
	})
	form.AddInputField("Bot think time (s)", fmt.Sprintf("%.2f", settings.BotThinkTime), 6, nil, func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			settings.BotThinkTime = v
		}
	})
	form.AddButton("Apply", func() {
		for settings.NumPlayers() < 2 {
			settings.NumHumans++
		}
		if err := settings.Validate(); err != nil {
			log.Warn().Err(err).Msg("rejecting settings")
			return
		}
		if err := settings.Save(); err != nil {
			log.Warn().Err(err).Msg("saving settings failed")
		}
		a.pages.SwitchToPage("game")
		a.newGame(settings)
	})
	form.AddButton("Cancel", func() {
		a.pages.SwitchToPage("game")
	})
	form.SetBorder(true)
	form.SetTitle("Settings")
	return form
}
