// Package storage provides SQLite-based persistence for race history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-derby/internal/race"
)

// Store manages the SQLite database connection for race history.
type Store struct {
	db *sql.DB
}

// RaceRecord is a stored race with its final ranking.
type RaceRecord struct {
	ID         string           `json:"id"`
	Seed       int64            `json:"seed"`
	Profile    string           `json:"profile"`
	Event      string           `json:"event,omitempty"`
	Reversed   bool             `json:"reversed"`
	Ticks      int              `json:"ticks"`
	Runners    int              `json:"runners"`
	Winner     string           `json:"winner"`
	CreatedAt  time.Time        `json:"created_at"`
	Placements []race.Placement `json:"placements,omitempty"`
}

// RunnerStats aggregates the results of one runner name across races.
type RunnerStats struct {
	Name      string  `json:"name"`
	Races     int     `json:"races"`
	Wins      int     `json:"wins"`
	Podiums   int     `json:"podiums"`
	AvgPlace  float64 `json:"avg_place"`
	BestTicks int     `json:"best_ticks,omitempty"` // Fastest finish, 0 if never finished
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
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS races (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			profile TEXT NOT NULL DEFAULT 'standard',
			event TEXT NOT NULL DEFAULT '',
			reversed INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			runners INTEGER NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_races_created ON races(created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS placements (
			race_id TEXT NOT NULL REFERENCES races(id) ON DELETE CASCADE,
			place INTEGER NOT NULL,
			name TEXT NOT NULL,
			lane INTEGER NOT NULL,
			finished INTEGER NOT NULL DEFAULT 0,
			finish_tick INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (race_id, place)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_placements_name ON placements(name)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRace records a finished race and its ranking in one transaction.
// Returns the generated race ID.
func (s *Store) SaveRace(res race.Result, profile string) (string, error) {
	if len(res.Placements) == 0 {
		return "", errors.New("storage: cannot save race: no placements")
	}
	if profile == "" {
		profile = "standard"
	}
	id := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO races (id, seed, profile, event, reversed, ticks, runners, winner)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Seed, profile, res.Event, res.Reversed, res.Ticks, len(res.Placements), res.Placements[0].Name,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save race: %w", err)
	}

	for _, p := range res.Placements {
		_, err := tx.Exec(
			`INSERT INTO placements (race_id, place, name, lane, finished, finish_tick)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.Place, p.Name, p.Lane, p.Finished, p.FinishTick,
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save placement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit race: %w", err)
	}
	return id, nil
}

const raceColumns = `id, seed, profile, event, reversed, ticks, runners, winner, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRace(row scanner) (RaceRecord, error) {
	var r RaceRecord
	var createdAt any
	err := row.Scan(&r.ID, &r.Seed, &r.Profile, &r.Event, &r.Reversed, &r.Ticks, &r.Runners, &r.Winner, &createdAt)
	if err != nil {
		return r, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
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

// RaceByID retrieves a race with its placements. Returns nil if not found.
func (s *Store) RaceByID(id string) (*RaceRecord, error) {
	row := s.db.QueryRow(`SELECT `+raceColumns+` FROM races WHERE id = ?`, id)
	rec, err := scanRace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT place, name, lane, finished, finish_tick
		 FROM placements
		 WHERE race_id = ?
		 ORDER BY place`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query placements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p race.Placement
		if err := rows.Scan(&p.Place, &p.Name, &p.Lane, &p.Finished, &p.FinishTick); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.Placements = append(rec.Placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return &rec, nil
}

// RecentRaces retrieves the most recent races, newest first.
func (s *Store) RecentRaces(limit int) ([]RaceRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+raceColumns+`
		 FROM races
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query races: %w", err)
	}
	defer rows.Close()

	var records []RaceRecord
	for rows.Next() {
		rec, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// Leaderboard aggregates placements by runner name, best first: most
// wins, then most podiums, then best average place.
func (s *Store) Leaderboard(limit int) ([]RunnerStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT name,
		        COUNT(*),
		        SUM(CASE WHEN place = 1 AND finished = 1 THEN 1 ELSE 0 END),
		        SUM(CASE WHEN place <= 2 AND finished = 1 THEN 1 ELSE 0 END),
		        AVG(place),
		        COALESCE(MIN(CASE WHEN finished = 1 THEN finish_tick END), 0)
		 FROM placements
		 GROUP BY name
		 ORDER BY 3 DESC, 4 DESC, 5 ASC, name ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var stats []RunnerStats
	for rows.Next() {
		var st RunnerStats
		if err := rows.Scan(&st.Name, &st.Races, &st.Wins, &st.Podiums, &st.AvgPlace, &st.BestTicks); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// EventCounts returns how often each halfway event has fired.
func (s *Store) EventCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT event, COUNT(*) FROM races WHERE event != '' GROUP BY event`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// ClearRaces deletes all race history.
func (s *Store) ClearRaces() error {
	if _, err := s.db.Exec("DELETE FROM placements"); err != nil {
		return fmt.Errorf("storage: cannot clear placements: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM races"); err != nil {
		return fmt.Errorf("storage: cannot clear races: %w", err)
	}
	return nil
}
