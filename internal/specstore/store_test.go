package specstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oaps-dev/oaps/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := New(dir)
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func TestCreateAndGetSpec(t *testing.T) {
	s := newTestStore(t)
	spec, err := s.CreateSpec("My Feature", types.SpecFeature, CreateOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if spec.ID != "SPEC-0001" {
		t.Fatalf("expected SPEC-0001, got %s", spec.ID)
	}
	if spec.Slug != "my-feature" {
		t.Fatalf("expected auto slug, got %s", spec.Slug)
	}

	got, err := s.GetSpec(spec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "My Feature" {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestEnhancementRequiresExtends(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateSpec("Enhance X", types.SpecEnhancement, CreateOptions{}); err == nil {
		t.Fatal("expected error: enhancement without extends")
	}
	base, _ := s.CreateSpec("Base", types.SpecFeature, CreateOptions{})
	if _, err := s.CreateSpec("Enhance X", types.SpecEnhancement, CreateOptions{Extends: base.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIntegrationRequiresTwoIntegrates(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateSpec("A", types.SpecFeature, CreateOptions{})
	b, _ := s.CreateSpec("B", types.SpecFeature, CreateOptions{})
	if _, err := s.CreateSpec("Combine", types.SpecIntegration, CreateOptions{Integrates: []string{a.ID}}); err == nil {
		t.Fatal("expected error: integration with <2 integrates")
	}
	if _, err := s.CreateSpec("Combine", types.SpecIntegration, CreateOptions{Integrates: []string{a.ID, b.ID}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCircularDependencyRejected(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateSpec("A", types.SpecFeature, CreateOptions{})
	b, err := s.CreateSpec("B", types.SpecFeature, CreateOptions{DependsOn: []string{a.ID}})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	depOn := []string{b.ID}
	if _, err := s.UpdateSpec(a.ID, UpdateOptions{DependsOn: &depOn}); err == nil {
		t.Fatal("expected circular dependency error")
	}
}

func TestDependentsComputed(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateSpec("A", types.SpecFeature, CreateOptions{})
	b, _ := s.CreateSpec("B", types.SpecFeature, CreateOptions{DependsOn: []string{a.ID}})

	got, err := s.GetSpec(a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := types.Relationships{Dependents: []string{b.ID}}
	if diff := cmp.Diff(want, got.Relationships); diff != "" {
		t.Fatalf("relationships mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateSlugRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateSpec("Same Name", types.SpecFeature, CreateOptions{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateSpec("Same Name", types.SpecFeature, CreateOptions{}); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestRenameSpec(t *testing.T) {
	s := newTestStore(t)
	spec, _ := s.CreateSpec("Original", types.SpecFeature, CreateOptions{})
	renamed, err := s.RenameSpec(spec.ID, "new-slug")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.ID != spec.ID || renamed.Slug != "new-slug" {
		t.Fatalf("rename mismatch: %+v", renamed)
	}
	if _, err := s.RenameSpec(spec.ID, "new-slug"); err != nil {
		t.Fatalf("no-op rename should succeed: %v", err)
	}
}

func TestDeleteBlockedByDependents(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateSpec("A", types.SpecFeature, CreateOptions{})
	_, _ = s.CreateSpec("B", types.SpecFeature, CreateOptions{DependsOn: []string{a.ID}})
	if err := s.DeleteSpec(a.ID, false); err == nil {
		t.Fatal("expected delete blocked by dependents")
	}
	if err := s.DeleteSpec(a.ID, true); err != nil {
		t.Fatalf("forced delete should succeed: %v", err)
	}
}

func TestArchiveSpec(t *testing.T) {
	s := newTestStore(t)
	spec, _ := s.CreateSpec("A", types.SpecFeature, CreateOptions{})
	archived, err := s.ArchiveSpec(spec.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != types.SpecDeprecated {
		t.Fatalf("expected deprecated status, got %s", archived.Status)
	}
	listed, err := s.ListSpecs(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, l := range listed {
		if l.ID == spec.ID {
			t.Fatal("expected archived spec excluded from default listing")
		}
	}
}

func TestBumpVersion(t *testing.T) {
	next, err := BumpVersion("1.2.3", "minor")
	if err != nil {
		t.Fatalf("bump: %v", err)
	}
	if next != "1.3.0" {
		t.Fatalf("expected 1.3.0, got %s", next)
	}
}
