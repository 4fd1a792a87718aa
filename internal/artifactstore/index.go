package artifactstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// Index is the artifacts.json cache: a flat list of summary maps, each
// carrying the standard summary fields plus any registry type_fields
// inlined alongside them, matching the on-disk shape the original store
// produces.
type Index struct {
	Updated   time.Time        `json:"updated"`
	Artifacts []map[string]any `json:"artifacts"`
}

// load reads the cached index, rebuilding the in-memory copy from disk
// the first time it's touched after a mutation or process start.
func (s *Store) load() (*Index, error) {
	if s.index != nil {
		return s.index, nil
	}
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		idx := &Index{Artifacts: []map[string]any{}}
		s.index = idx
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &oapserrors.FormatError{Path: s.indexPath(), Reason: "malformed artifact index", Err: err}
	}
	if idx.Artifacts == nil {
		idx.Artifacts = []map[string]any{}
	}
	s.index = &idx
	return &idx, nil
}

// writeIndex persists idx via write-temp-then-rename, so a reader never
// observes a partially written file.
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
	for _, e := range idx.Artifacts {
		if s, _ := e["id"].(string); s == id {
			return e
		}
	}
	return nil
}

// nextNumber returns 1 + the maximum existing number for prefix across
// live entries, implementing the monotonic-numbering invariant.
func (idx *Index) nextNumber(prefix string) int {
	max := 0
	for _, e := range idx.Artifacts {
		id, _ := e["id"].(string)
		p, n, ok := types.ParseArtifactID(id)
		if !ok || p != prefix {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// numberGap returns the first missing number (1-based) in the
// contiguous numbering for prefix, or 0 if there is no gap.
func (idx *Index) numberGap(prefix string) int {
	var numbers []int
	for _, e := range idx.Artifacts {
		id, _ := e["id"].(string)
		p, n, ok := types.ParseArtifactID(id)
		if !ok || p != prefix {
			continue
		}
		numbers = append(numbers, n)
	}
	sortInts(numbers)
	for i, n := range numbers {
		if n != i+1 {
			return i + 1
		}
	}
	return 0
}

func sortInts(nums []int) {
	for i := 1; i < len(nums); i++ {
		for j := i; j > 0 && nums[j-1] > nums[j]; j-- {
			nums[j-1], nums[j] = nums[j], nums[j-1]
		}
	}
}

// referencesTo returns the ids of every live artifact whose References
// list contains id.
func (idx *Index) referencesTo(id string) []string {
	var out []string
	for _, e := range idx.Artifacts {
		refsAny, _ := e["references"].([]any)
		for _, r := range refsAny {
			if rs, _ := r.(string); rs == id {
				if eid, _ := e["id"].(string); eid != "" {
					out = append(out, eid)
				}
				break
			}
		}
	}
	return out
}

// rebuildFromDisk walks artifactsPath and reconstructs the index content
// from the files found there, skipping dotfiles, sidecars, and files
// that fail to parse (spec §4.3 index rebuild algorithm).
func (s *Store) rebuildFromDisk() ([]map[string]any, error) {
	entries, err := os.ReadDir(s.artifactsPath())
	if os.IsNotExist(err) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sortStrings(names)

	var out []map[string]any
	for _, name := range names {
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, sidecarSuffix) {
			continue
		}
		path := filepath.Join(s.artifactsPath(), name)
		art, err := s.loadArtifactFromFile(path)
		if err != nil || art == nil {
			continue
		}
		out = append(out, artifactToSummary(art, s.basePath))
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

// loadArtifactFromFile reconstructs an Artifact from a single on-disk
// file, consulting a sidecar if one exists next to it.
func (s *Store) loadArtifactFromFile(path string) (*types.Artifact, error) {
	sidecarPath := path + sidecarSuffix
	if _, err := os.Stat(sidecarPath); err == nil {
		meta, err := readSidecar(sidecarPath)
		if err != nil {
			return nil, err
		}
		art := metadataToArtifact(meta)
		art.FilePath = path
		art.MetadataFilePath = sidecarPath
		return art, nil
	}

	if !strings.HasSuffix(path, ".md") {
		return nil, nil
	}
	meta, _, err := readFrontmatterFile(path)
	if err != nil {
		return nil, err
	}
	art := metadataToArtifact(meta)
	art.FilePath = path
	return art, nil
}
