package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		s := Default()
		require.NoError(t, s.Validate())
		require.Equal(t, 2, s.NumPlayers())
	})

	t.Run("think budget converts seconds to a duration", func(t *testing.T) {
		s := Default()
		s.BotThinkTime = 0.25
		require.Equal(t, 250*time.Millisecond, s.ThinkBudget())
	})

	t.Run("out-of-range values are rejected", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Settings)
		}{
			{"board too small", func(s *Settings) { s.BoardSize = 4 }},
			{"board too large", func(s *Settings) { s.BoardSize = 18 }},
			{"too many humans", func(s *Settings) { s.NumHumans = 5 }},
			{"negative bots", func(s *Settings) { s.NumBots = -1 }},
			{"fewer than two players", func(s *Settings) { s.NumHumans = 1; s.NumBots = 0 }},
			{"think time too short", func(s *Settings) { s.BotThinkTime = 0.005 }},
			{"think time too long", func(s *Settings) { s.BotThinkTime = 3.5 }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				s := Default()
				tc.mutate(&s)
				err := s.Validate()
				require.Error(t, err)
				var invalid *InvalidConfig
				require.ErrorAs(t, err, &invalid)
			})
		}
	})
}

func TestReadWriteSettings(t *testing.T) {
	t.Run("settings survive a write and read cycle", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.json")
		want := Settings{
			BoardSize:    11,
			NumHumans:    2,
			NumBots:      1,
			HumansFirst:  false,
			BotThinkTime: 0.5,
		}
		require.NoError(t, writeSettings(path, want))

		got := Default()
		require.NoError(t, readSettings(path, &got))
		require.Equal(t, want, got)
	})

	t.Run("reading a missing file fails", func(t *testing.T) {
		s := Default()
		err := readSettings(filepath.Join(t.TempDir(), "absent.json"), &s)
		require.Error(t, err)
	})

	t.Run("partial files keep defaults for missing fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"board_size": 13}`), 0o644))

		got := Default()
		require.NoError(t, readSettings(path, &got))
		require.Equal(t, 13, got.BoardSize)
		require.Equal(t, Default().NumHumans, got.NumHumans)
		require.Equal(t, Default().BotThinkTime, got.BotThinkTime)
	})
}
