package suggest

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists search history in a local sqlite database, so the
// history survives restarts of the host process.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and if needed creates) the history database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		query       TEXT PRIMARY KEY,
		searched_at DATETIME NOT NULL,
		count       INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_search_history_count ON search_history(count);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns the persisted history, most frequent first.
func (s *SQLiteStore) Load() ([]SearchRecord, error) {
	rows, err := s.db.Query(
		`SELECT query, searched_at, count FROM search_history
		 ORDER BY count DESC, searched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var rec SearchRecord
		if err := rows.Scan(&rec.Query, &rec.Timestamp, &rec.Count); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Save replaces the whole persisted list in a single transaction.
func (s *SQLiteStore) Save(records []SearchRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM search_history`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear history: %w", err)
	}
	for _, rec := range records {
		if _, err := tx.Exec(
			`INSERT INTO search_history (query, searched_at, count) VALUES (?, ?, ?)`,
			rec.Query, rec.Timestamp, rec.Count); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert history row: %w", err)
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
