package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hobogo/config"
	"hobogo/game"
)

func TestSnapshot(t *testing.T) {
	settings := config.Settings{
		BoardSize:    5,
		NumHumans:    1,
		NumBots:      1,
		HumansFirst:  true,
		BotThinkTime: 0.5,
	}

	t.Run("state and settings survive a save and load cycle", func(t *testing.T) {
		state := game.NewState(5, 2, 0).
			Apply(game.MoveAt(game.Coord{X: 2, Y: 2})).
			Apply(game.MoveAt(game.Coord{X: 0, Y: 0}))

		path := filepath.Join(t.TempDir(), "nested", "state.json")
		require.NoError(t, SaveSnapshot(path, NewSnapshot(state, settings)))

		snap, err := LoadSnapshot(path)
		require.NoError(t, err)
		require.Equal(t, settings, snap.Settings())

		restored, err := snap.State()
		require.NoError(t, err)
		require.Equal(t, state.NextPlayer, restored.NextPlayer)
		require.Equal(t, state.NumPlayers, restored.NumPlayers)
		require.Equal(t, state.Board.Cells(), restored.Board.Cells())
	})

	t.Run("loading a missing file fails", func(t *testing.T) {
		_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})

	t.Run("corrupt json fails to load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := LoadSnapshot(path)
		require.Error(t, err)
	})

	t.Run("inconsistent snapshots are rejected on rebuild", func(t *testing.T) {
		valid := NewSnapshot(game.NewState(5, 2, 0), settings)

		next := valid
		next.NextPlayer = 2
		_, err := next.State()
		require.Error(t, err, "next player must be below the player count")

		owner := valid
		owner.Cells = append([]int8(nil), valid.Cells...)
		owner.Cells[0] = 3
		_, err = owner.State()
		require.Error(t, err, "stones owned by unknown players must be rejected")

		short := valid
		short.Cells = valid.Cells[:10]
		_, err = short.State()
		require.Error(t, err, "cell grid must match the dimensions")

		lonely := valid
		lonely.NumBots = 0
		_, err = lonely.State()
		require.Error(t, err, "a one-player snapshot is unplayable")
	})
}
