// Package storage provides SQLite-based persistence for level runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunEntry represents one recorded simulation run of a level.
type RunEntry struct {
	ID           int64
	LevelID      string
	Ticks        int
	BlocksPlaced int
	Won          bool
	CreatedAt    time.Time
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID    string
	RunsCount  int
	WinsCount  int
	BestTicks  int // fastest winning run, 0 when no wins
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			blocks_placed INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level_id, won, ticks ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished simulation run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(levelID string, ticks, blocksPlaced int, won bool) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (level_id, ticks, blocks_placed, won) VALUES (?, ?, ?, ?)",
		levelID, ticks, blocksPlaced, won,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Runs retrieves the most recent runs for the given level, winning runs
// first, faster wins ahead of slower ones.
func (s *Store) Runs(levelID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, ticks, blocks_placed, won, created_at
		 FROM runs
		 WHERE level_id = ?
		 ORDER BY won DESC, ticks ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		e, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// BestRun returns the fastest winning run for the given level.
// Returns nil if the level has never been won.
func (s *Store) BestRun(levelID string) (*RunEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, level_id, ticks, blocks_placed, won, created_at
		 FROM runs
		 WHERE level_id = ? AND won = 1
		 ORDER BY ticks ASC
		 LIMIT 1`,
		levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Completed reports whether the level has at least one winning run.
func (s *Store) Completed(levelID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM runs WHERE level_id = ? AND won = 1",
		levelID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query completion: %w", err)
	}
	return count > 0, nil
}

// ClearRuns deletes all recorded runs for the given level.
func (s *Store) ClearRuns(levelID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for a specific level.
func (s *Store) Stats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(won), 0),
		        COALESCE(MIN(CASE WHEN won = 1 THEN ticks END), 0)
		 FROM runs WHERE level_id = ?`,
		levelID,
	).Scan(&stats.RunsCount, &stats.WinsCount, &stats.BestTicks)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE level_id = ? ORDER BY created_at DESC LIMIT 1`,
		levelID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseDBTime(lastPlayed)
	}
	return stats, nil
}

// AllStats retrieves statistics for every level that has recorded runs.
func (s *Store) AllStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id,
		        COUNT(*),
		        COALESCE(SUM(won), 0),
		        COALESCE(MIN(CASE WHEN won = 1 THEN ticks END), 0),
		        MAX(created_at)
		 FROM runs
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.LevelID, &ls.RunsCount, &ls.WinsCount, &ls.BestTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = parseDBTime(lastPlayed)
		stats[ls.LevelID] = &ls
	}
	return stats, rows.Err()
}

func scanRun(rows *sql.Rows) (RunEntry, error) {
	var e RunEntry
	var createdAt any
	if err := rows.Scan(&e.ID, &e.LevelID, &e.Ticks, &e.BlocksPlaced, &e.Won, &createdAt); err != nil {
		return RunEntry{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	e.CreatedAt = parseDBTime(createdAt)
	return e, nil
}

// parseDBTime handles both time.Time and string datetime representations
// coming back from the driver.
func parseDBTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
