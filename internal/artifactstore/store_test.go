package artifactstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oaps-dev/oaps/internal/registry"
	"github.com/oaps-dev/oaps/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := New(dir, registry.Default())
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func TestAddAndGetArtifact(t *testing.T) {
	s := newTestStore(t)
	art, err := s.AddArtifact("DC", "First Decision", "alice", AddOptions{
		Content: []byte("Body text"),
		Tags:    []string{"infra"},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if art.ID != "DC-0001" {
		t.Fatalf("expected DC-0001, got %s", art.ID)
	}

	got, err := s.GetArtifact(art.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "First Decision" || got.Status != types.StatusDraft {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	data, err := os.ReadFile(got.FilePath)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !contains(string(data), "Body text") {
		t.Fatalf("expected body in file, got:\n%s", data)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}

func TestMonotonicNumbering(t *testing.T) {
	s := newTestStore(t)
	a1, _ := s.AddArtifact("DC", "One", "alice", AddOptions{})
	a2, _ := s.AddArtifact("DC", "Two", "alice", AddOptions{})
	if a1.ID != "DC-0001" || a2.ID != "DC-0002" {
		t.Fatalf("expected sequential ids, got %s %s", a1.ID, a2.ID)
	}
}

func TestUnknownTypeRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddArtifact("ZZ", "Nope", "alice", AddOptions{}); err == nil {
		t.Fatal("expected error for unregistered prefix")
	}
}

func TestUpdateMergesTypeFields(t *testing.T) {
	s := newTestStore(t)
	art, _ := s.AddArtifact("DC", "Decision", "alice", AddOptions{
		TypeFields: map[string]any{"rationale": "because", "alternatives_considered": []string{"x"}},
	})
	updated, err := s.UpdateArtifact(art.ID, UpdateOptions{
		TypeFields: map[string]any{"rationale": "because it scales"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TypeFields["rationale"] != "because it scales" {
		t.Fatalf("expected merged rationale, got %v", updated.TypeFields)
	}
	if _, ok := updated.TypeFields["alternatives_considered"]; !ok {
		t.Fatalf("expected untouched key preserved, got %v", updated.TypeFields)
	}
}

func TestDeleteBlockedByReference(t *testing.T) {
	s := newTestStore(t)
	target, _ := s.AddArtifact("DC", "Target", "alice", AddOptions{})
	_, err := s.AddArtifact("RV", "Referrer", "alice", AddOptions{References: []string{target.ID}})
	if err != nil {
		t.Fatalf("add referrer: %v", err)
	}
	if err := s.DeleteArtifact(target.ID, false); err == nil {
		t.Fatal("expected referential integrity error")
	}
	if err := s.DeleteArtifact(target.ID, true); err != nil {
		t.Fatalf("expected force delete to succeed: %v", err)
	}
}

func TestSupersedeArtifact(t *testing.T) {
	s := newTestStore(t)
	old, _ := s.AddArtifact("DC", "Old Decision", "alice", AddOptions{})
	next, _ := s.AddArtifact("DC", "New Decision", "alice", AddOptions{})

	oldArt, newArt, err := s.SupersedeArtifact(old.ID, next.ID)
	if err != nil {
		t.Fatalf("supersede: %v", err)
	}
	if oldArt.Status != types.StatusSuperseded || oldArt.SupersededBy != next.ID {
		t.Fatalf("old artifact not updated: %+v", oldArt)
	}
	if newArt.Supersedes != old.ID {
		t.Fatalf("new artifact not updated: %+v", newArt)
	}

	if _, _, err := s.SupersedeArtifact(old.ID, next.ID); err == nil {
		t.Fatal("expected error re-superseding an already-superseded artifact")
	}
}

func TestSupersedeRequiresSameType(t *testing.T) {
	s := newTestStore(t)
	old, _ := s.AddArtifact("DC", "Decision", "alice", AddOptions{})
	other, _ := s.AddArtifact("RV", "Review", "alice", AddOptions{})
	if _, _, err := s.SupersedeArtifact(old.ID, other.ID); err == nil {
		t.Fatal("expected type-mismatch error")
	}
}

func TestRebuildIndexFromDisk(t *testing.T) {
	s := newTestStore(t)
	art, _ := s.AddArtifact("DC", "Decision", "alice", AddOptions{})

	if err := os.Remove(s.indexPath()); err != nil {
		t.Fatalf("remove index: %v", err)
	}
	s.index = nil

	if err := s.RebuildIndex(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	got, err := s.GetArtifact(art.ID)
	if err != nil {
		t.Fatalf("get after rebuild: %v", err)
	}
	if got.Title != "Decision" {
		t.Fatalf("rebuild mismatch: %+v", got)
	}
}

func TestValidateStrictReportsGap(t *testing.T) {
	s := newTestStore(t)
	a1, _ := s.AddArtifact("DC", "One", "alice", AddOptions{})
	a2, _ := s.AddArtifact("DC", "Two", "alice", AddOptions{})
	_ = a2
	if err := s.DeleteArtifact(a1.ID, false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, _ = s.AddArtifact("DC", "Three", "alice", AddOptions{})

	problems, err := s.Validate(true)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(problems) == 0 {
		t.Fatal("expected a numbering-gap warning")
	}
}

func TestBinaryArtifactWritesSidecar(t *testing.T) {
	s := newTestStore(t)
	art, err := s.AddArtifact("IM", "Screenshot", "alice", AddOptions{Content: []byte{0x89, 'P', 'N', 'G'}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !art.IsBinary() {
		t.Fatal("expected binary artifact to carry a sidecar path")
	}
	if filepath.Ext(art.MetadataFilePath) != ".yaml" {
		t.Fatalf("unexpected sidecar path: %s", art.MetadataFilePath)
	}
	if _, err := os.Stat(art.MetadataFilePath); err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}
}
