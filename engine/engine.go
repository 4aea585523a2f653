// Package engine owns the authoritative game: turn alternation between
// human and bot participants, the single-step undo stack, wall-clock
// budgeting for bot decisions, snapshot autosave, and the finished-game
// archive. The rules live in package game and the bot brain in package
// searcher; the engine only wires them together.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hobogo/config"
	"hobogo/game"
	"hobogo/searcher"
	"hobogo/store"
)

// Option configures an Engine.
type Option func(*Engine)

// WithArchive records finished games to a.
func WithArchive(a *store.Archive) Option {
	return func(e *Engine) { e.archive = a }
}

// WithSnapshotFile autosaves a snapshot to path after every applied
// action.
func WithSnapshotFile(path string) Option {
	return func(e *Engine) { e.snapshotPath = path }
}

// WithRand fixes the random source used for bot search. Defaults to a
// time-seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// Engine drives one game at a time. It is not safe for concurrent use;
// the UI hands a state snapshot to a worker goroutine for bot thinking
// and applies the returned action from its own loop.
type Engine struct {
	settings     config.Settings
	state        *game.State
	undo         []*game.State
	rng          *rand.Rand
	archive      *store.Archive
	snapshotPath string
	started      time.Time
	recorded     bool
}

// New starts a fresh game from settings.
func New(settings config.Settings, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		settings: settings,
		state:    newState(settings),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return e, nil
}

// Restore resumes the game held in a snapshot.
func Restore(snap store.Snapshot, opts ...Option) (*Engine, error) {
	state, err := snap.State()
	if err != nil {
		return nil, err
	}
	settings := snap.Settings()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	e, err := New(settings, opts...)
	if err != nil {
		return nil, err
	}
	e.state = state
	return e, nil
}

// newState places the starting player: humans lead when HumansFirst,
// otherwise the first bot does.
func newState(settings config.Settings) *game.State {
	starting := game.Player(0)
	if !settings.HumansFirst {
		starting = game.Player(settings.NumHumans)
	}
	return game.NewState(settings.BoardSize, settings.NumPlayers(), starting)
}

// State is the authoritative game state. Callers must not mutate it; all
// changes go through HumanMove, BotTurn, Undo and Reset.
func (e *Engine) State() *game.State { return e.state }

func (e *Engine) Settings() config.Settings { return e.settings }

// IsHuman reports whether p is human-controlled. Humans occupy the low
// player numbers.
func (e *Engine) IsHuman(p game.Player) bool {
	return int(p) < e.settings.NumHumans
}

// NextIsHuman reports whether a human is to move (false once the game is
// over).
func (e *Engine) NextIsHuman() bool {
	return !e.GameOver() && e.IsHuman(e.state.NextPlayer)
}

func (e *Engine) GameOver() bool { return e.state.IsGameOver() }

func (e *Engine) Scores() []int { return e.state.Points() }

// PlayerName names a participant for display.
func (e *Engine) PlayerName(p game.Player) string {
	var name string
	switch p {
	case 0:
		name = "Yellow"
	case 1:
		name = "Pink"
	case 2:
		name = "Green"
	case 3:
		name = "Purple"
	default:
		name = fmt.Sprintf("Player %d", p)
	}
	if !e.IsHuman(p) {
		name += " (bot)"
	}
	return name
}

// HumanMove places the next player's stone at c. It validates the click
// before touching the authoritative state and pushes the previous state
// onto the undo stack.
func (e *Engine) HumanMove(c game.Coord) error {
	if e.GameOver() {
		return fmt.Errorf("game is over")
	}
	if !e.IsHuman(e.state.NextPlayer) {
		return fmt.Errorf("player %d is not human", e.state.NextPlayer)
	}
	if !e.state.IsValidMove(c) {
		return fmt.Errorf("illegal move %v", c)
	}
	e.undo = append(e.undo, e.state)
	e.apply(game.MoveAt(c))
	return nil
}

// Decide runs one budgeted search over a private clone of state. It is
// safe to call from a worker goroutine as long as the snapshot's ownership
// transfers with it: the worker communicates back only the chosen action.
// The budget check happens between iterations, so an in-flight iteration
// always completes; a search with no decision (terminal root) yields a
// pass.
func Decide(state *game.State, budget time.Duration, rng *rand.Rand) (game.Action, searcher.Stats) {
	mcts := searcher.New(state)
	start := time.Now()
	for {
		mcts.Iterate(rng)
		if time.Since(start) >= budget {
			break
		}
	}
	action, ok := mcts.BestAction()
	if !ok {
		action = game.Pass
	}
	return action, mcts.Stats()
}

// BotTurn searches for the next player under the configured think budget
// and applies the chosen action.
func (e *Engine) BotTurn() (game.Action, searcher.Stats, error) {
	if e.GameOver() {
		return game.Action{}, searcher.Stats{}, fmt.Errorf("game is over")
	}
	player := e.state.NextPlayer
	if e.IsHuman(player) {
		return game.Action{}, searcher.Stats{}, fmt.Errorf("player %d is not a bot", player)
	}

	start := time.Now()
	action, stats := Decide(e.state, e.settings.ThinkBudget(), e.rng)
	log.Info().
		Int("player", int(player)).
		Stringer("action", action).
		Int("iterations", stats.Iterations).
		Int("nodes", stats.Nodes).
		Dur("took", time.Since(start)).
		Msg("bot moved")

	e.apply(action)
	return action, stats, nil
}

// ApplyBotAction applies an action chosen by an off-thread search worker.
// The action is re-validated against the authoritative state, so a
// decision made stale by an undo or a new game is rejected instead of
// corrupting territory.
func (e *Engine) ApplyBotAction(a game.Action) error {
	if e.GameOver() {
		return fmt.Errorf("game is over")
	}
	if e.IsHuman(e.state.NextPlayer) {
		return fmt.Errorf("player %d is not a bot", e.state.NextPlayer)
	}
	if target, ok := a.Target(); ok && !e.state.IsValidMove(target) {
		return fmt.Errorf("stale bot move %v", a)
	}
	e.apply(a)
	return nil
}

// Undo reverts the last human move, if any.
func (e *Engine) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	e.state = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.recorded = false
	e.autosave()
	return true
}

func (e *Engine) CanUndo() bool { return len(e.undo) > 0 }

// Reset starts a new game under settings. The current game is pushed onto
// the undo stack unless its board is still empty.
func (e *Engine) Reset(settings config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if !e.state.Board.IsEmpty() {
		e.undo = append(e.undo, e.state)
	}
	e.settings = settings
	e.state = newState(settings)
	e.started = time.Now()
	e.recorded = false
	e.autosave()
	return nil
}

// Snapshot captures the game for persistence.
func (e *Engine) Snapshot() store.Snapshot {
	return store.NewSnapshot(e.state, e.settings)
}

func (e *Engine) apply(a game.Action) {
	e.state = e.state.Apply(a)
	e.autosave()
	e.maybeRecord()
}

func (e *Engine) autosave() {
	if e.snapshotPath == "" {
		return
	}
	if err := store.SaveSnapshot(e.snapshotPath, e.Snapshot()); err != nil {
		log.Warn().Err(err).Msg("snapshot save failed")
	}
}

// maybeRecord archives the game the first time it reaches a terminal
// state.
func (e *Engine) maybeRecord() {
	if e.recorded || e.archive == nil || !e.GameOver() {
		return
	}
	scores := e.Scores()
	winner := -1
	if leader, ok := e.state.Leader(); ok {
		winner = int(leader)
	}
	rec := store.GameRecord{
		StartedAt: e.started,
		EndedAt:   time.Now(),
		BoardSize: e.settings.BoardSize,
		NumHumans: e.settings.NumHumans,
		NumBots:   e.settings.NumBots,
		Scores:    scores,
		Winner:    winner,
	}
	if err := e.archive.Record(rec); err != nil {
		log.Warn().Err(err).Msg("archive record failed")
	} else {
		log.Info().Ints("scores", scores).Int("winner", winner).Msg("game archived")
	}
	e.recorded = true
}
