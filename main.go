// hobogo is a multiplayer territory-claiming board game played in the
// terminal against MCTS-driven bots.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hobogo/config"
	"hobogo/engine"
	"hobogo/game"
	"hobogo/store"
	"hobogo/ui"
)

var (
	flagSize     = flag.Int("size", 0, "Board size (5-17)")
	flagHumans   = flag.Int("humans", -1, "Number of human players (0-4)")
	flagBots     = flag.Int("bots", -1, "Number of bot players (0-4)")
	flagThink    = flag.Float64("think", 0, "Bot think time in seconds (0.01-3)")
	flagSelfplay = flag.Bool("selfplay", false, "Run a headless bot-vs-bot game and exit")
	flagSeed     = flag.Uint64("seed", 0, "Random seed for selfplay (0 = time-based)")
	flagHistory  = flag.Int("history", 0, "Print the N most recent finished games and exit")
	flagDB       = flag.String("db", "", "Path to the game archive database (default: XDG data dir)")
	flagFresh    = flag.Bool("new", false, "Ignore any saved game and start fresh")
	flagVerbose  = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Parse()

	level := zerolog.WarnLevel
	if *flagVerbose || *flagSelfplay {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	settings, err := config.Init()
	if err != nil {
		log.Warn().Err(err).Msg("bad config, using defaults")
		settings = config.Default()
	}
	overrideSettings(&settings)
	if err := settings.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagHistory > 0 {
		if err := printHistory(*flagHistory); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	archive := openArchive()
	if archive != nil {
		defer archive.Close()
	}

	if *flagSelfplay {
		if err := runSelfplay(settings, archive); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runUI(settings, archive); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func overrideSettings(settings *config.Settings) {
	if *flagSize > 0 {
		settings.BoardSize = *flagSize
	}
	if *flagHumans >= 0 {
		settings.NumHumans = *flagHumans
	}
	if *flagBots >= 0 {
		settings.NumBots = *flagBots
	}
	if *flagThink > 0 {
		settings.BotThinkTime = *flagThink
	}
}

func archivePath() (string, error) {
	if *flagDB != "" {
		return *flagDB, nil
	}
	return store.DefaultArchivePath()
}

func openArchive() *store.Archive {
	path, err := archivePath()
	if err == nil {
		var archive *store.Archive
		if archive, err = store.OpenArchive(path); err == nil {
			return archive
		}
	}
	log.Warn().Err(err).Msg("game archive unavailable")
	return nil
}

func printHistory(n int) error {
	path, err := archivePath()
	if err != nil {
		return err
	}
	archive, err := store.OpenArchive(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	records, err := archive.Recent(n)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no finished games yet")
		return nil
	}
	for _, rec := range records {
		winner := "draw"
		if rec.Winner >= 0 {
			winner = fmt.Sprintf("player %d", rec.Winner)
		}
		fmt.Printf("%s  %dx%d  %dh/%db  scores %v  %s\n",
			rec.EndedAt.Format(time.DateTime), rec.BoardSize, rec.BoardSize,
			rec.NumHumans, rec.NumBots, rec.Scores, winner)
	}
	return nil
}

// runSelfplay plays one full bot-vs-bot game without a UI, logging each
// move. Useful for benchmarking the searcher and for populating the
// archive.
func runSelfplay(settings config.Settings, archive *store.Archive) error {
	settings.NumHumans = 0
	if settings.NumBots < 2 {
		settings.NumBots = 2
	}

	opts := []engine.Option{}
	if archive != nil {
		opts = append(opts, engine.WithArchive(archive))
	}
	if *flagSeed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewSource(*flagSeed))))
	}
	eng, err := engine.New(settings, opts...)
	if err != nil {
		return err
	}

	log.Info().Int("size", settings.BoardSize).Int("bots", settings.NumBots).Msg("selfplay starting")
	for !eng.GameOver() {
		if _, _, err := eng.BotTurn(); err != nil {
			return err
		}
	}
	scores := eng.Scores()
	log.Info().Ints("scores", scores).Msg("selfplay finished")
	for p, score := range scores {
		fmt.Printf("%-14s %3d\n", eng.PlayerName(game.Player(p)), score)
	}
	return nil
}

func runUI(settings config.Settings, archive *store.Archive) error {
	opts := []engine.Option{}
	if archive != nil {
		opts = append(opts, engine.WithArchive(archive))
	}
	if path, err := store.DefaultSnapshotPath(); err == nil {
		opts = append(opts, engine.WithSnapshotFile(path))
	}

	eng := restoreOrNew(settings, opts)
	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	return ui.NewApp(eng, rng).Run()
}

// restoreOrNew resumes the snapshotted game when there is one, matching
// the original's restore-on-launch behavior.
func restoreOrNew(settings config.Settings, opts []engine.Option) *engine.Engine {
	if !*flagFresh {
		if path, err := store.DefaultSnapshotPath(); err == nil {
			if snap, err := store.LoadSnapshot(path); err == nil {
				if eng, err := engine.Restore(snap, opts...); err == nil {
					return eng
				}
				log.Warn().Msg("saved game unusable, starting fresh")
			}
		}
	}
	eng, err := engine.New(settings, opts...)
	if err != nil {
		// Settings were validated in main; this is unreachable.
		panic(err)
	}
	return eng
}
