// Package specstore implements the spec store (spec §4.4): CRUD over
// specification documents, each owning a subdirectory holding its own
// requirements/tests/artifacts, plus a root index with a computed
// (never persisted) dependents relationship and DAG cycle checking over
// depends_on edges.
//
// Grounded on spec.md §4.4's explicit note that this store is
// "behaviorally similar to the artifact store" (internal/artifactstore,
// itself grounded on original_source/artifacts/_store.py) and on
// original_source/idea/_manager.py's root-index-plus-per-entity-file
// shape, the closest fully retrieved sibling store.
package specstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
	"golang.org/x/mod/semver"
)

const (
	specsDirName  = "specs"
	indexFileName = "index.json"
	lockFileName  = ".specs.lock"
	perSpecIndex  = "index.json"
	specMetaFile  = "spec.json"
)

// Store is a handle onto one spec store rooted at basePath/specs.
type Store struct {
	basePath string

	mu    sync.Mutex
	index *rootIndex
	lock  *flock.Flock
}

// rootIndex is the persisted root index.json: one summary per spec.
type rootIndex struct {
	Updated time.Time             `json:"updated"`
	Specs   []types.SpecMetadata  `json:"specs"`
}

func New(basePath string) *Store {
	return &Store{
		basePath: basePath,
		lock:     flock.New(filepath.Join(basePath, lockFileName)),
	}
}

func (s *Store) specsPath() string   { return filepath.Join(s.basePath, specsDirName) }
func (s *Store) indexPath() string   { return filepath.Join(s.specsPath(), indexFileName) }
func (s *Store) specDir(id, slug string) string {
	return filepath.Join(s.specsPath(), fmt.Sprintf("%s-%s", id, slug))
}

// SpecDir returns the on-disk subdirectory for id, the root
// internal/reqteststore and internal/query use to open a spec's own
// requirements.jsonl/tests.jsonl.
func (s *Store) SpecDir(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if err != nil {
		return "", err
	}
	m := idx.find(id)
	if m == nil {
		return "", &oapserrors.NotFoundError{Kind: "spec", ID: id}
	}
	return s.specDir(m.ID, m.Slug), nil
}

// Initialize creates the specs/ directory and an empty root index if
// neither exists yet.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(s.specsPath(), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(s.indexPath()); os.IsNotExist(err) {
		return s.writeIndex(&rootIndex{Specs: []types.SpecMetadata{}})
	}
	return nil
}

func (s *Store) withLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return &oapserrors.ConcurrencyError{Reason: "acquiring spec store lock: " + err.Error()}
	}
	defer func() { _ = s.lock.Unlock() }()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
	err := fn()
	s.index = nil
	return err
}

func (s *Store) load() (*rootIndex, error) {
	if s.index != nil {
		return s.index, nil
	}
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		idx := &rootIndex{Specs: []types.SpecMetadata{}}
		s.index = idx
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	var idx rootIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &oapserrors.FormatError{Path: s.indexPath(), Reason: "malformed spec index", Err: err}
	}
	if idx.Specs == nil {
		idx.Specs = []types.SpecMetadata{}
	}
	s.index = &idx
	return &idx, nil
}

func (s *Store) writeIndex(idx *rootIndex) error {
	idx.Updated = time.Now().UTC()
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.indexPath()); err != nil {
		return err
	}
	s.index = idx
	return nil
}

func (idx *rootIndex) find(id string) *types.SpecMetadata {
	for i := range idx.Specs {
		if idx.Specs[i].ID == id {
			return &idx.Specs[i]
		}
	}
	return nil
}

func (idx *rootIndex) findBySlug(slug string) *types.SpecMetadata {
	for i := range idx.Specs {
		if idx.Specs[i].Slug == slug {
			return &idx.Specs[i]
		}
	}
	return nil
}

func (idx *rootIndex) nextNumber() int {
	max := 0
	for _, m := range idx.Specs {
		_, n, ok := types.ParseArtifactID(m.ID)
		if ok && n > max {
			max = n
		}
	}
	return max + 1
}

// dependents computes, for id, every other live spec whose DependsOn
// names it. Always computed, never persisted (spec §4.4 Get).
func (idx *rootIndex) dependents(id string) []string {
	var out []string
	for _, m := range idx.Specs {
		for _, dep := range m.DependsOn {
			if dep == id {
				out = append(out, m.ID)
				break
			}
		}
	}
	return out
}

// ValidateVersion checks a spec's Version field is empty (unset) or a
// valid semantic version per golang.org/x/mod/semver.
func ValidateVersion(version string) error {
	if version == "" {
		return nil
	}
	v := version
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return &oapserrors.ValidationError{Field: "version", Reason: fmt.Sprintf("%q is not a valid semantic version", version)}
	}
	return nil
}

// BumpVersion returns the next version per bump ("major", "minor",
// "patch"; an empty bump means "patch"). An unset version counts as
// "0.0.0", so a minor bump of it gives "0.1.0".
func BumpVersion(version, bump string) (string, error) {
	if version == "" {
		version = "0.0.0"
	}
	v := "v" + version
	if !semver.IsValid(v) {
		return "", &oapserrors.ValidationError{Field: "version", Reason: fmt.Sprintf("%q is not a valid semantic version", version)}
	}
	major, minor, patch := parseSemverParts(semver.Canonical(v))
	switch bump {
	case "major":
		major, minor, patch = major+1, 0, 0
	case "minor":
		minor, patch = minor+1, 0
	case "patch", "":
		patch++
	default:
		return "", &oapserrors.ValidationError{Field: "bump", Reason: fmt.Sprintf("unknown bump kind %q", bump)}
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

func parseSemverParts(canonical string) (major, minor, patch int) {
	fmt.Sscanf(canonical, "v%d.%d.%d", &major, &minor, &patch)
	return
}
