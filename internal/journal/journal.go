// Package journal provides SQLite persistence for reflections: everything
// the feed has ever shown, hydrated essays, and read marks. The in-session
// feed order lives in the feed store; the journal is the durable archive
// and the essay cache consulted before regeneration.
package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// Journal handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Stats summarizes the archive for the tdbg CLI.
type Stats struct {
	Total    int
	Hydrated int
	Read     int
	ByKind   map[feed.Kind]int
}

// Open creates a Journal at the given database path, creating tables if
// needed. Uses WAL mode for file-based DBs; :memory: gets shared cache
// and a single connection so every query sees the same database.
func Open(dbPath string) (*Journal, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	j := &Journal{db: db}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return j, nil
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reflections (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		short TEXT NOT NULL,
		full TEXT,
		origin TEXT,
		fetched_at DATETIME NOT NULL,
		read_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_reflections_fetched ON reflections(fetched_at DESC);
	CREATE INDEX IF NOT EXISTS idx_reflections_kind ON reflections(kind);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// SaveItems archives items, returning the count of new rows. Duplicates
// (by id) are silently ignored via INSERT OR IGNORE.
func (j *Journal) SaveItems(items []feed.Item) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(items) == 0 {
		return 0, nil
	}

	stmt, err := j.db.Prepare(`
		INSERT OR IGNORE INTO reflections (id, kind, title, short, full, origin, fetched_at, read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, it := range items {
		var readAt any
		if !it.ReadAt.IsZero() {
			readAt = it.ReadAt
		}
		result, err := stmt.Exec(it.ID, string(it.Kind), it.Title, it.Short, it.Full, it.Origin, it.Fetched, readAt)
		if err != nil {
			return newCount, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}
	return newCount, nil
}

// SaveEssay stores the hydrated full text for an item.
func (j *Journal) SaveEssay(id, full string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec("UPDATE reflections SET full = ? WHERE id = ?", full, id)
	return err
}

// Essay returns the cached full text for an item, if any.
func (j *Journal) Essay(id string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var full sql.NullString
	err := j.db.QueryRow("SELECT full FROM reflections WHERE id = ?", id).Scan(&full)
	if err != nil || !full.Valid || full.String == "" {
		return "", false
	}
	return full.String, true
}

// MarkRead records the read timestamp for an item. The first mark wins.
func (j *Journal) MarkRead(id string, at time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec("UPDATE reflections SET read_at = ? WHERE id = ? AND read_at IS NULL", at, id)
	return err
}

// Recent returns the most recently fetched reflections.
func (j *Journal) Recent(limit int) ([]feed.Item, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.Query(`
		SELECT id, kind, title, short, full, origin, fetched_at, read_at
		FROM reflections
		ORDER BY fetched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []feed.Item
	for rows.Next() {
		var it feed.Item
		var kind string
		var full, origin sql.NullString
		var readAt sql.NullTime
		if err := rows.Scan(&it.ID, &kind, &it.Title, &it.Short, &full, &origin, &it.Fetched, &readAt); err != nil {
			return nil, err
		}
		it.Kind = feed.Kind(kind)
		it.Full = full.String
		it.Origin = origin.String
		if readAt.Valid {
			it.ReadAt = readAt.Time
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Stats aggregates archive counts.
func (j *Journal) Stats() (Stats, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	s := Stats{ByKind: make(map[feed.Kind]int)}

	err := j.db.QueryRow(`
		SELECT COUNT(*),
			COUNT(CASE WHEN full IS NOT NULL AND full != '' THEN 1 END),
			COUNT(read_at)
		FROM reflections
	`).Scan(&s.Total, &s.Hydrated, &s.Read)
	if err != nil {
		return s, err
	}

	rows, err := j.db.Query("SELECT kind, COUNT(*) FROM reflections GROUP BY kind")
	if err != nil {
		return s, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return s, err
		}
		s.ByKind[feed.Kind(kind)] = n
	}
	return s, rows.Err()
}
