package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// RenderRecord is one row of render history.
type RenderRecord struct {
	ID            int64
	CreatedAt     time.Time
	Source        string
	CharCount     int
	TokenEstimate int
	WarningCount  int
	ContentSHA    string
}

// Store records render history in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (creating if needed) the history database at path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS renders (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at     TEXT NOT NULL,
			source         TEXT NOT NULL,
			char_count     INTEGER NOT NULL,
			token_estimate INTEGER NOT NULL,
			warning_count  INTEGER NOT NULL,
			content_sha    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
		CREATE INDEX IF NOT EXISTS idx_renders_source ON renders(source);
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRender inserts one history row for a rendered prompt.
func (s *Store) RecordRender(source, content string, tokenEstimate, warningCount int) (*RenderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := sha256.Sum256([]byte(content))
	rec := RenderRecord{
		CreatedAt:     time.Now(),
		Source:        source,
		CharCount:     len(content),
		TokenEstimate: tokenEstimate,
		WarningCount:  warningCount,
		ContentSHA:    hex.EncodeToString(sum[:]),
	}

	result, err := s.db.Exec(`
		INSERT INTO renders (created_at, source, char_count, token_estimate, warning_count, content_sha)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.CreatedAt.Format(time.RFC3339), rec.Source, rec.CharCount, rec.TokenEstimate, rec.WarningCount, rec.ContentSHA)
	if err != nil {
		return nil, err
	}

	rec.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRenders returns the most recent history rows, newest first.
func (s *Store) ListRenders(limit int) ([]RenderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, created_at, source, char_count, token_estimate, warning_count, content_sha
		FROM renders
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Source, &rec.CharCount, &rec.TokenEstimate, &rec.WarningCount, &rec.ContentSHA); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
