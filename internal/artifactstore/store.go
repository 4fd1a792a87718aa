// Package artifactstore implements the artifact store (spec §4.3): CRUD
// over registry-typed knowledge records backed by Markdown-plus-
// front-matter files (text types) or a content file plus YAML sidecar
// (binary types), with a JSON index held as a read-through cache.
//
// Grounded on original_source/artifacts/_store.py's ArtifactStore,
// re-expressed in Go with the teacher's write-temp-then-rename and
// gofrs/flock locking idioms (see cmd/bd/sync.go in the teacher for the
// flock pattern this package's withLock mirrors).
package artifactstore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/registry"
)

const (
	artifactsDirName = "artifacts"
	indexFileName    = "artifacts.json"
	lockFileName     = ".artifacts.lock"
	sidecarSuffix    = ".metadata.yaml"
)

// Store is a handle onto one artifact store rooted at BasePath. A Store
// is safe for concurrent use within a process; the file lock additionally
// guards mutations across processes.
type Store struct {
	basePath string
	reg      *registry.Registry

	mu    sync.Mutex // protects the in-memory index cache
	index *Index
	lock  *flock.Flock
}

// New creates a store handle rooted at basePath. reg may be nil, in
// which case registry.Default() is used.
func New(basePath string, reg *registry.Registry) *Store {
	if reg == nil {
		reg = registry.Default()
	}
	return &Store{
		basePath: basePath,
		reg:      reg,
		lock:     flock.New(filepath.Join(basePath, lockFileName)),
	}
}

func (s *Store) artifactsPath() string { return filepath.Join(s.basePath, artifactsDirName) }
func (s *Store) indexPath() string     { return filepath.Join(s.basePath, indexFileName) }

// Initialize creates the artifacts/ subdirectory and an empty index file
// if neither exists yet.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(s.artifactsPath(), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(s.indexPath()); os.IsNotExist(err) {
		return s.writeIndex(&Index{Updated: time.Now().UTC(), Artifacts: []map[string]any{}})
	}
	return nil
}

// withLock acquires the cross-process file lock for the duration of fn,
// and drops the in-memory index cache afterward so the next read picks
// up whatever another process may have written meanwhile.
func (s *Store) withLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return &oapserrors.ConcurrencyError{Reason: "acquiring artifact store lock: " + err.Error()}
	}
	defer func() { _ = s.lock.Unlock() }()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil // force a fresh read under the lock

	err := fn()
	s.index = nil // force a fresh read on the next access after mutating
	return err
}
