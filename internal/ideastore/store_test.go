package ideastore

import (
	"testing"

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

func TestCreateAndGetIdea(t *testing.T) {
	s := newTestStore(t)
	idea, err := s.Create("Cache warm requests", types.IdeaFeature, []string{"perf"}, "some body text", "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if idea.ID != "cache-warm-requests" {
		t.Fatalf("expected slugified id, got %s", idea.ID)
	}
	if idea.Status != types.IdeaSeed {
		t.Fatalf("expected seed status, got %s", idea.Status)
	}

	got, err := s.GetIdea(idea.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Body != "some body text" {
		t.Fatalf("body mismatch: %+v", got)
	}
}

func TestCreateDuplicateTitleGetsSuffixedID(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Create("Same Title", types.IdeaFeature, nil, "", "alice")
	b, err := s.Create("Same Title", types.IdeaFeature, nil, "", "alice")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both got %s", a.ID)
	}
	if b.ID != "same-title-2" {
		t.Fatalf("expected suffixed id, got %s", b.ID)
	}
}

func TestCreateEmptyTitleRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create("  ", types.IdeaFeature, nil, "", "alice"); err == nil {
		t.Fatal("expected validation error for empty title")
	}
}

func TestListFiltersByStatusAndTags(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Create("A", types.IdeaFeature, []string{"x"}, "", "alice")
	_, _ = s.Create("B", types.IdeaResearch, []string{"y"}, "", "alice")
	if _, err := s.UpdateStatus(a.ID, types.IdeaExplored, "alice"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	explored, err := s.ListIdeas(ListOptions{Status: types.IdeaExplored})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(explored) != 1 || explored[0].ID != a.ID {
		t.Fatalf("expected only A, got %+v", explored)
	}

	tagged, err := s.ListIdeas(ListOptions{Tags: []string{"y"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Title != "B" {
		t.Fatalf("expected only B, got %+v", tagged)
	}
}

func TestArchivedExcludedByDefault(t *testing.T) {
	s := newTestStore(t)
	idea, _ := s.Create("A", types.IdeaFeature, nil, "", "alice")
	if _, err := s.Archive(idea.ID, "alice"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	listed, err := s.ListIdeas(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected archived idea excluded, got %+v", listed)
	}
	withArchived, err := s.ListIdeas(ListOptions{IncludeArchived: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(withArchived) != 1 {
		t.Fatalf("expected archived idea included, got %+v", withArchived)
	}
}

func TestSearchFallsBackToBody(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create("Unrelated Title", types.IdeaFeature, nil, "mentions needle somewhere", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	results, err := s.Search("needle", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one match via body search, got %d", len(results))
	}
}

func TestSearchMatchesTitleWithoutLoadingBody(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create("Findme Special", types.IdeaFeature, nil, "", "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	results, err := s.Search("findme", []string{"title"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected title match, got %d", len(results))
	}
}

func TestLinkIdeasValidatesTargetsAndDropsSelf(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Create("A", types.IdeaFeature, nil, "", "alice")
	b, _ := s.Create("B", types.IdeaFeature, nil, "", "alice")

	if _, err := s.LinkIdeas(a.ID, []string{"missing-idea"}, "alice"); err == nil {
		t.Fatal("expected not-found error for missing related idea")
	}

	linked, err := s.LinkIdeas(a.ID, []string{b.ID, a.ID}, "alice")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(linked.RelatedIdeas) != 1 || linked.RelatedIdeas[0] != b.ID {
		t.Fatalf("expected self-reference dropped, got %v", linked.RelatedIdeas)
	}
}

func TestAddTagsMergesAndDedupes(t *testing.T) {
	s := newTestStore(t)
	idea, _ := s.Create("A", types.IdeaFeature, []string{"a"}, "", "alice")
	updated, err := s.AddTags(idea.ID, []string{"a", "b"}, "alice")
	if err != nil {
		t.Fatalf("add tags: %v", err)
	}
	if len(updated.Tags) != 2 {
		t.Fatalf("expected deduped tags, got %v", updated.Tags)
	}
}

func TestRebuildIndexFromDisk(t *testing.T) {
	s := newTestStore(t)
	idea, _ := s.Create("A", types.IdeaFeature, nil, "", "alice")

	s.index = nil
	count, err := s.RebuildIndex()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 idea found, got %d", count)
	}
	got, err := s.GetIdea(idea.ID)
	if err != nil {
		t.Fatalf("get after rebuild: %v", err)
	}
	if got.ID != idea.ID {
		t.Fatalf("mismatch after rebuild: %+v", got)
	}
}
