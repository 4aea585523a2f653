package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var archiveFile = "hobogo/games.db"

// Archive records finished games in a SQLite database.
type Archive struct {
	db *sql.DB
}

// GameRecord is one finished game. Winner is -1 for a drawn game.
type GameRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	BoardSize int
	NumHumans int
	NumBots   int
	Scores    []int
	Winner    int
}

// DefaultArchivePath is the per-user location of the archive database.
func DefaultArchivePath() (string, error) {
	return xdg.DataFile(archiveFile)
}

// OpenArchive opens (and if necessary creates) the archive at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		started_at DATETIME,
		ended_at DATETIME,
		board_size INTEGER,
		num_humans INTEGER,
		num_bots INTEGER,
		scores TEXT,
		winner INTEGER
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

// Record inserts a finished game. A missing ID is filled in.
func (a *Archive) Record(rec GameRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(
		`INSERT INTO games (id, started_at, ended_at, board_size, num_humans, num_bots, scores, winner)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt, rec.EndedAt, rec.BoardSize, rec.NumHumans, rec.NumBots, string(scores), rec.Winner,
	)
	return err
}

// Recent returns up to n finished games, newest first.
func (a *Archive) Recent(n int) ([]GameRecord, error) {
	rows, err := a.db.Query(
		`SELECT id, started_at, ended_at, board_size, num_humans, num_bots, scores, winner
		 FROM games ORDER BY ended_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var rec GameRecord
		var scores string
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.EndedAt, &rec.BoardSize,
			&rec.NumHumans, &rec.NumBots, &scores, &rec.Winner); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(scores), &rec.Scores); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
