package statestore

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewProjectStore(filepath.Join(dir, "state.db"))
}

func ptr(s string) *string { return &s }

func TestSetAndGetRoundTrips(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("greeting", "hello", ptr("alice")); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := s.Get("greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "hello" {
		t.Fatalf("expected hello, got %v", value)
	}

	entry, err := s.GetEntry("greeting")
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.CreatedBy == nil || *entry.CreatedBy != "alice" {
		t.Fatalf("expected created_by alice, got %+v", entry)
	}
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("missing"); err == nil {
		t.Fatalf("expected error for missing key")
	} else if _, ok := err.(*ErrNotFound); !ok {
		t.Fatalf("expected ErrNotFound, got %T: %v", err, err)
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := newTestStore(t)
	s.Set("a", "1", nil)
	s.Set("b", "2", nil)

	deleted, err := s.Delete("a")
	if err != nil || !deleted {
		t.Fatalf("expected a to be deleted, got %v, %v", deleted, err)
	}
	deleted, err = s.Delete("a")
	if err != nil || deleted {
		t.Fatalf("expected second delete to be a no-op, got %v, %v", deleted, err)
	}

	n, err := s.Len()
	if err != nil || n != 1 {
		t.Fatalf("expected 1 remaining entry, got %d, %v", n, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, err = s.Len()
	if err != nil || n != 0 {
		t.Fatalf("expected 0 entries after clear, got %d, %v", n, err)
	}
}

func TestAtomicIncrementInitializesAndAccumulates(t *testing.T) {
	s := newTestStore(t)

	got, err := s.AtomicIncrement("counter", 5, nil)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}

	got, err = s.AtomicIncrement("counter", -2, nil)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestAtomicIncrementTreatsNonNumericExistingValueAsZero(t *testing.T) {
	s := newTestStore(t)
	s.Set("counter", "not-a-number", nil)

	got, err := s.AtomicIncrement("counter", 4, nil)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected non-numeric existing value treated as 0, got %d", got)
	}
}

func TestSessionScopeIsolatesKeys(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "state.db")
	project := NewSessionStore(dbPath, "")
	session := NewSessionStore(dbPath, "sess-1")

	project.Set("shared-key", "project-value", nil)
	session.Set("shared-key", "session-value", nil)

	v, err := project.Get("shared-key")
	if err != nil || v != "project-value" {
		t.Fatalf("expected project scope isolated, got %v, %v", v, err)
	}
	v, err = session.Get("shared-key")
	if err != nil || v != "session-value" {
		t.Fatalf("expected session scope isolated, got %v, %v", v, err)
	}
}
