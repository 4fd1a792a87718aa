package ideastore

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// Index is the index.json cache: a flat list of idea summary maps.
type Index struct {
	Updated time.Time        `json:"updated"`
	Ideas   []map[string]any `json:"ideas"`
}

func (s *Store) load() (*Index, error) {
	if s.index != nil {
		return s.index, nil
	}
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		idx := &Index{Ideas: []map[string]any{}}
		s.index = idx
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &oapserrors.FormatError{Path: s.indexPath(), Reason: "malformed idea index", Err: err}
	}
	if idx.Ideas == nil {
		idx.Ideas = []map[string]any{}
	}
	s.index = &idx
	return &idx, nil
}

func (s *Store) writeIndex(idx *Index) error {
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

// findEntry returns the summary entry for id, or nil if absent.
func (idx *Index) findEntry(id string) map[string]any {
	for _, e := range idx.Ideas {
		if s, _ := e["id"].(string); s == id {
			return e
		}
	}
	return nil
}

// exists reports whether id has a live entry.
func (idx *Index) exists(id string) bool {
	return idx.findEntry(id) != nil
}

// uniqueID appends a numeric suffix to base until the result is unique
// within the index, matching the original's slugified-title id scheme
// with a collision-avoidance fallback.
func (idx *Index) uniqueID(base string) string {
	if !idx.exists(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + itoa(n)
		if !idx.exists(candidate) {
			return candidate
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}

// rebuildFromDisk walks basePath and reconstructs index entries from
// every idea file found there.
func (s *Store) rebuildFromDisk() ([]map[string]any, error) {
	entries, err := os.ReadDir(s.basePath)
	if os.IsNotExist(err) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ideaFileSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sortStrings(names)

	var out []map[string]any
	for _, name := range names {
		id := strings.TrimSuffix(name, ideaFileSuffix)
		idea, err := s.loadIdea(id)
		if err != nil {
			continue
		}
		out = append(out, ideaToSummary(idea))
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
