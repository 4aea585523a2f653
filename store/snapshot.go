// Package store persists game state: a JSON snapshot of the game in
// progress, and a SQLite archive of finished games.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"hobogo/config"
	"hobogo/game"
)

var snapshotFile = "hobogo/state.json"

// Snapshot is the persisted form of a game in progress. It round-trips the
// board dimensions, the full occupancy grid, whose turn it is, and the
// participant composition, which is everything needed to reconstruct the
// authoritative state exactly.
type Snapshot struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Cells        []int8  `json:"cells"` // row-major, -1 for empty
	NextPlayer   int     `json:"next_player"`
	NumHumans    int     `json:"num_humans"`
	NumBots      int     `json:"num_bots"`
	HumansFirst  bool    `json:"humans_first"`
	BotThinkTime float64 `json:"bot_think_time"`
}

// NewSnapshot captures state together with the settings it was played
// under.
func NewSnapshot(state *game.State, settings config.Settings) Snapshot {
	return Snapshot{
		Width:        state.Board.Width(),
		Height:       state.Board.Height(),
		Cells:        state.Board.Cells(),
		NextPlayer:   int(state.NextPlayer),
		NumHumans:    settings.NumHumans,
		NumBots:      settings.NumBots,
		HumansFirst:  settings.HumansFirst,
		BotThinkTime: settings.BotThinkTime,
	}
}

// Settings recovers the settings the snapshot was taken under.
func (s Snapshot) Settings() config.Settings {
	return config.Settings{
		BoardSize:    s.Width,
		NumHumans:    s.NumHumans,
		NumBots:      s.NumBots,
		HumansFirst:  s.HumansFirst,
		BotThinkTime: s.BotThinkTime,
	}
}

// State rebuilds the game state. A snapshot from a corrupt or stale file
// may be internally inconsistent, so everything is validated.
func (s Snapshot) State() (*game.State, error) {
	numPlayers := s.NumHumans + s.NumBots
	if numPlayers < 2 {
		return nil, fmt.Errorf("snapshot has %d players, need at least 2", numPlayers)
	}
	if s.NextPlayer < 0 || s.NextPlayer >= numPlayers {
		return nil, fmt.Errorf("snapshot next player %d out of range for %d players", s.NextPlayer, numPlayers)
	}
	board, err := game.NewBoardFromCells(s.Width, s.Height, s.Cells)
	if err != nil {
		return nil, err
	}
	for i, cell := range s.Cells {
		if int(cell) >= numPlayers {
			return nil, fmt.Errorf("cell %d owned by unknown player %d", i, cell)
		}
	}
	return &game.State{
		Board:      board,
		NextPlayer: game.Player(s.NextPlayer),
		NumPlayers: numPlayers,
	}, nil
}

// DefaultSnapshotPath is the per-user location of the snapshot file.
func DefaultSnapshotPath() (string, error) {
	return xdg.StateFile(snapshotFile)
}

// SaveSnapshot writes the snapshot to path, creating directories as
// needed.
func SaveSnapshot(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads a snapshot back. The caller decides whether a missing
// or invalid file means "start fresh".
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
