// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package store persists annotation payloads in a local SQLite database,
// keyed by document ID. Payloads are the opaque bytes produced by
// Annotator.MarshalAnnotations; the store never inspects them.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports a document ID with no stored payload.
var ErrNotFound = errors.New("store: annotation payload not found")

// Store is a SQLite-backed payload store. It is safe for concurrent use;
// writes are serialized on a single connection.
type Store struct {
	conn *sql.DB
}

// Info describes one stored payload without its bytes.
type Info struct {
	DocumentID string
	Size       int64
	UpdatedAt  time.Time
}

// Open opens (or creates) the store at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS annotations (
			document_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_updated ON annotations(updated_at)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Save writes or replaces the payload for documentID.
func (s *Store) Save(documentID string, payload []byte) error {
	if documentID == "" {
		return errors.New("store: empty document id")
	}
	_, err := s.conn.Exec(
		`INSERT INTO annotations (document_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		documentID, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", documentID, err)
	}
	return nil
}

// Load returns the payload stored for documentID, or ErrNotFound.
func (s *Store) Load(documentID string) ([]byte, error) {
	var payload []byte
	err := s.conn.QueryRow(
		`SELECT payload FROM annotations WHERE document_id = ?`, documentID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: %q: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", documentID, err)
	}
	return payload, nil
}

// List returns every stored payload's metadata, most recently updated
// first.
func (s *Store) List() ([]Info, error) {
	rows, err := s.conn.Query(
		`SELECT document_id, length(payload), updated_at FROM annotations ORDER BY updated_at DESC, document_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.DocumentID, &info.Size, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the payload for documentID, reporting ErrNotFound if
// nothing was stored.
func (s *Store) Delete(documentID string) error {
	res, err := s.conn.Exec(`DELETE FROM annotations WHERE document_id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", documentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", documentID, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %q: %w", documentID, ErrNotFound)
	}
	return nil
}
