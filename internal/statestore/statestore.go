// Package statestore implements the process-wide SQLite-backed
// key-value store (spec §4.9): a single state_store table keyed on
// (session_id, key), scoped per handle to either a session or the
// empty-string project sentinel, with one connection opened per
// operation rather than a cached, long-lived handle.
//
// Grounded on original_source/utils/_state_store.py's SQLiteStateStore,
// translating its sqlite3/pydantic plumbing into database/sql against
// the teacher's own driver choice: untoldecay-BeadsLog's
// internal/storage/sqlite package blank-imports
// github.com/ncruces/go-sqlite3/driver and .../embed and opens with
// sql.Open("sqlite3", path); this package follows the same idiom.
package statestore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/oaps-dev/oaps/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS state_store (
	session_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value BLOB,
	created_at TEXT NOT NULL,
	created_by TEXT,
	updated_at TEXT NOT NULL,
	updated_by TEXT,
	PRIMARY KEY (session_id, key)
);
CREATE INDEX IF NOT EXISTS idx_state_store_session_updated
ON state_store (session_id, updated_at);
`

// projectScope is the sentinel session_id for project-scoped entries:
// SQLite's ON CONFLICT target cannot match a NULL key column, so the
// empty string stands in for "no session" (spec §4.9).
const projectScope = ""

// Store is a handle onto one session's (or the project's) view of the
// shared state database at Path. Every operation opens its own
// connection, runs in a transaction where needed, and closes before
// returning (spec §4.9 Connection discipline) — no connection is
// cached on the Store.
type Store struct {
	Path      string
	SessionID string // effective session id; "" means project scope
}

// NewProjectStore opens a handle scoped to the project (session_id =
// "").
func NewProjectStore(path string) *Store {
	return &Store{Path: path, SessionID: projectScope}
}

// NewSessionStore opens a handle scoped to sessionID. An empty
// sessionID is equivalent to NewProjectStore.
func NewSessionStore(path, sessionID string) *Store {
	return &Store{Path: path, SessionID: sessionID}
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure state store schema: %w", err)
	}
	return db, nil
}

// ErrNotFound is returned by Get when the key does not exist.
type ErrNotFound struct {
	Key string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("state store key not found: %s", e.Key)
}

// Get returns the value stored for key, or ErrNotFound if it doesn't
// exist.
func (s *Store) Get(key string) (any, error) {
	entry, err := s.GetEntry(key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &ErrNotFound{Key: key}
	}
	return entry.Value, nil
}

// GetEntry returns the full entry (including metadata) for key, or nil
// if it doesn't exist.
func (s *Store) GetEntry(key string) (*types.StateEntry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	row := db.QueryRow(
		`SELECT session_id, key, value, created_at, created_by, updated_at, updated_by
		 FROM state_store WHERE session_id = ? AND key = ?`,
		s.SessionID, key,
	)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Keys returns every key in this handle's scope, ordered.
func (s *Store) Keys() ([]string, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		`SELECT key FROM state_store WHERE session_id = ? ORDER BY key`, s.SessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Len returns the number of entries in this handle's scope.
func (s *Store) Len() (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM state_store WHERE session_id = ?`, s.SessionID).Scan(&count)
	return count, err
}

// Has reports whether key exists in this handle's scope.
func (s *Store) Has(key string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	var exists int
	err = db.QueryRow(
		`SELECT 1 FROM state_store WHERE session_id = ? AND key = ?`, s.SessionID, key,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Set stores value under key, preserving created_at/created_by if the
// key already exists and always refreshing updated_at/updated_by.
func (s *Store) Set(key string, value any, author *string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := nowISO8601()
	var createdAt string
	var createdBy sql.NullString
	err = tx.QueryRow(
		`SELECT created_at, created_by FROM state_store WHERE session_id = ? AND key = ?`,
		s.SessionID, key,
	).Scan(&createdAt, &createdBy)
	switch {
	case err == sql.ErrNoRows:
		createdAt = now
		createdBy = sql.NullString{String: derefOrEmpty(author), Valid: author != nil}
	case err != nil:
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO state_store (session_id, key, value, created_at, created_by, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (session_id, key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at,
		   updated_by = excluded.updated_by`,
		s.SessionID, key, value, createdAt, nullableString(createdBy), now, nullableAuthor(author),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes key, reporting whether it existed.
func (s *Store) Delete(key string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	result, err := db.Exec(
		`DELETE FROM state_store WHERE session_id = ? AND key = ?`, s.SessionID, key,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// Clear removes every entry in this handle's scope.
func (s *Store) Clear() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`DELETE FROM state_store WHERE session_id = ?`, s.SessionID)
	return err
}

// AtomicIncrement atomically adds amount to the existing numeric value
// of key (initializing to 0 if absent, or if the existing value is
// non-numeric), returning the new value (spec §4.9 Atomic increment
// protocol: a single INSERT ... ON CONFLICT ... RETURNING statement).
func (s *Store) AtomicIncrement(key string, amount int64, author *string) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	now := nowISO8601()
	row := db.QueryRow(
		`INSERT INTO state_store
		    (session_id, key, value, created_at, created_by, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (session_id, key) DO UPDATE SET
		    value = COALESCE(
		        CASE
		            WHEN typeof(state_store.value) IN ('integer', 'real')
		            THEN CAST(state_store.value AS INTEGER)
		            ELSE 0
		        END, 0
		    ) + excluded.value,
		    updated_at = excluded.updated_at,
		    updated_by = excluded.updated_by
		 RETURNING value`,
		s.SessionID, key, amount, now, nullableAuthor(author), now, nullableAuthor(author),
	)

	var newValue int64
	if err := row.Scan(&newValue); err != nil {
		return 0, err
	}
	return newValue, nil
}

func scanEntry(row *sql.Row) (*types.StateEntry, error) {
	var sessionID, key, createdAt, updatedAt string
	var value any
	var createdBy, updatedBy sql.NullString
	if err := row.Scan(&sessionID, &key, &value, &createdAt, &createdBy, &updatedAt, &updatedBy); err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		created = time.Time{}
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		updated = time.Time{}
	}
	return &types.StateEntry{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		CreatedAt: created,
		CreatedBy: nullableToPtr(createdBy),
		UpdatedAt: updated,
		UpdatedBy: nullableToPtr(updatedBy),
	}, nil
}

func nowISO8601() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullableAuthor(author *string) any {
	if author == nil {
		return nil
	}
	return *author
}

func nullableString(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

func nullableToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
