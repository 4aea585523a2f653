// Package config persists the player-facing settings between sessions.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

var cfgFile = "hobogo/config.json"

// Board and participant limits. Game logic supports any player count >= 2;
// these bound what the settings surface offers.
const (
	MinBoardSize = 5
	MaxBoardSize = 17
	MaxHumans    = 4
	MaxBots      = 4
	MinThinkTime = 0.01
	MaxThinkTime = 3.0
)

// InvalidConfig reports a settings value outside the supported range.
type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

// Settings mirrors the in-game settings panel.
type Settings struct {
	BoardSize    int     `json:"board_size"`
	NumHumans    int     `json:"num_humans"`
	NumBots      int     `json:"num_bots"`
	HumansFirst  bool    `json:"humans_first"`
	BotThinkTime float64 `json:"bot_think_time"` // seconds
}

// Default returns the out-of-the-box settings: one human against one bot
// on a 9x9 board, one second of thinking per bot move.
func Default() Settings {
	return Settings{
		BoardSize:    9,
		NumHumans:    1,
		NumBots:      1,
		HumansFirst:  true,
		BotThinkTime: 1.0,
	}
}

// NumPlayers is the combined human and bot count.
func (s Settings) NumPlayers() int { return s.NumHumans + s.NumBots }

// ThinkBudget is the wall-clock budget for one bot decision.
func (s Settings) ThinkBudget() time.Duration {
	return time.Duration(s.BotThinkTime * float64(time.Second))
}

func (s Settings) Validate() error {
	if s.BoardSize < MinBoardSize || s.BoardSize > MaxBoardSize {
		return &InvalidConfig{fmt.Sprintf("board size %d outside %d-%d", s.BoardSize, MinBoardSize, MaxBoardSize)}
	}
	if s.NumHumans < 0 || s.NumHumans > MaxHumans {
		return &InvalidConfig{fmt.Sprintf("humans %d outside 0-%d", s.NumHumans, MaxHumans)}
	}
	if s.NumBots < 0 || s.NumBots > MaxBots {
		return &InvalidConfig{fmt.Sprintf("bots %d outside 0-%d", s.NumBots, MaxBots)}
	}
	if s.NumPlayers() < 2 {
		return &InvalidConfig{"need at least two players"}
	}
	if s.BotThinkTime < MinThinkTime || s.BotThinkTime > MaxThinkTime {
		return &InvalidConfig{fmt.Sprintf("think time %.2fs outside %.2f-%.2f", s.BotThinkTime, MinThinkTime, MaxThinkTime)}
	}
	return nil
}

// Init loads the saved settings, falling back to defaults when no config
// file exists yet.
func Init() (Settings, error) {
	settings := Default()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readSettings(absPath, &settings); err != nil {
			return Settings{}, err
		}
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Save writes the settings to the user's config directory.
func (s Settings) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return writeSettings(absPath, s)
}

func writeSettings(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o664)
}

func readSettings(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s)
}
