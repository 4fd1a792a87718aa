// Package ideastore implements the idea store (spec §4.6): a flat
// collection of free-form exploration documents with its own index and
// a history.jsonl audit log appended on every mutation.
//
// Grounded on original_source/idea/_manager.py's IdeaManager, with the
// root-index-plus-per-entity-file shape shared with internal/specstore
// (both generalize internal/artifactstore's read-through-cache index
// idiom) and the history log's append style grounded on the teacher's
// internal/audit package.
package ideastore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oaps-dev/oaps/internal/oapserrors"
)

const (
	indexFileName   = "index.json"
	historyFileName = "history.jsonl"
	lockFileName    = ".ideas.lock"
	ideaFileSuffix  = ".md"
)

// Store is a handle onto one idea store rooted at BasePath.
type Store struct {
	basePath string

	mu    sync.Mutex
	index *Index
	lock  *flock.Flock
}

// New creates a store handle rooted at basePath.
func New(basePath string) *Store {
	return &Store{
		basePath: basePath,
		lock:     flock.New(filepath.Join(basePath, lockFileName)),
	}
}

func (s *Store) indexPath() string   { return filepath.Join(s.basePath, indexFileName) }
func (s *Store) historyPath() string { return filepath.Join(s.basePath, historyFileName) }
func (s *Store) ideaPath(id string) string {
	return filepath.Join(s.basePath, id+ideaFileSuffix)
}

// Initialize creates the idea directory and an empty index file if
// neither exists yet.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(s.indexPath()); os.IsNotExist(err) {
		return s.writeIndex(&Index{Updated: time.Now().UTC(), Ideas: []map[string]any{}})
	}
	return nil
}

// withLock acquires the cross-process file lock for the duration of fn,
// invalidating the in-memory index cache on both sides of the call.
func (s *Store) withLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return &oapserrors.ConcurrencyError{Reason: "acquiring idea store lock: " + err.Error()}
	}
	defer func() { _ = s.lock.Unlock() }()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil

	err := fn()
	s.index = nil
	return err
}
