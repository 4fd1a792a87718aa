package reqteststore

import (
	"testing"

	"github.com/oaps-dev/oaps/internal/types"
)

func TestRequirementCreateAndGet(t *testing.T) {
	dir := t.TempDir()
	s := NewRequirementStore(dir, "SPEC-0001")

	req, err := s.Create(types.ReqFunctional, "Must do X", "desc", "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.ID != "REQ-0001" {
		t.Fatalf("expected REQ-0001, got %s", req.ID)
	}

	got, err := s.Get(req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Must do X" {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestRequirementMonotonicNumbering(t *testing.T) {
	dir := t.TempDir()
	s := NewRequirementStore(dir, "SPEC-0001")

	first, _ := s.Create(types.ReqFunctional, "A", "", "alice")
	second, _ := s.Create(types.ReqFunctional, "B", "", "alice")
	if first.ID != "REQ-0001" || second.ID != "REQ-0002" {
		t.Fatalf("expected sequential ids, got %s %s", first.ID, second.ID)
	}
}

func TestRequirementInvalidType(t *testing.T) {
	dir := t.TempDir()
	s := NewRequirementStore(dir, "SPEC-0001")
	if _, err := s.Create(types.RequirementType("bogus"), "A", "", "alice"); err == nil {
		t.Fatal("expected validation error for invalid requirement type")
	}
}

func TestRequirementUpdate(t *testing.T) {
	dir := t.TempDir()
	s := NewRequirementStore(dir, "SPEC-0001")
	req, _ := s.Create(types.ReqFunctional, "A", "", "alice")

	newTitle := "B"
	newStatus := types.ReqVerified
	updated, err := s.Update(req.ID, RequirementUpdate{Title: &newTitle, Status: &newStatus})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "B" || updated.Status != types.ReqVerified {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestRequirementUpdateInvalidStatus(t *testing.T) {
	dir := t.TempDir()
	s := NewRequirementStore(dir, "SPEC-0001")
	req, _ := s.Create(types.ReqFunctional, "A", "", "alice")

	bogus := types.RequirementStatus("bogus")
	if _, err := s.Update(req.ID, RequirementUpdate{Status: &bogus}); err == nil {
		t.Fatal("expected validation error for invalid status")
	}
}

func TestRequirementDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewRequirementStore(dir, "SPEC-0001")
	req, _ := s.Create(types.ReqFunctional, "A", "", "alice")

	if err := s.Delete(req.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := s.Exists(req.ID); ok {
		t.Fatal("expected requirement gone after delete")
	}
	if err := s.Delete(req.ID); err == nil {
		t.Fatal("expected not-found on double delete")
	}
}

func TestRequirementPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	s1 := NewRequirementStore(dir, "SPEC-0001")
	req, _ := s1.Create(types.ReqFunctional, "A", "", "alice")

	s2 := NewRequirementStore(dir, "SPEC-0001")
	got, err := s2.Get(req.ID)
	if err != nil {
		t.Fatalf("get from fresh store: %v", err)
	}
	if got.ID != req.ID {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestTestCreateAndGet(t *testing.T) {
	dir := t.TempDir()
	s := NewTestStore(dir, "SPEC-0001")

	test, err := s.Create(types.TestUnit, "Covers X", []string{"REQ-0001"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if test.ID != "TEST-0001" {
		t.Fatalf("expected TEST-0001, got %s", test.ID)
	}
	if test.Status != types.TestProposed {
		t.Fatalf("expected proposed status, got %s", test.Status)
	}
	if test.LastResult != types.ResultUnknown {
		t.Fatalf("expected unknown result, got %s", test.LastResult)
	}
}

func TestTestInvalidMethod(t *testing.T) {
	dir := t.TempDir()
	s := NewTestStore(dir, "SPEC-0001")
	if _, err := s.Create(types.TestMethod("bogus"), "A", nil); err == nil {
		t.Fatal("expected validation error for invalid test method")
	}
}

func TestTestUpdateResult(t *testing.T) {
	dir := t.TempDir()
	s := NewTestStore(dir, "SPEC-0001")
	test, _ := s.Create(types.TestUnit, "A", nil)

	result := types.ResultPass
	status := types.TestImplemented
	updated, err := s.Update(test.ID, TestUpdate{LastResult: &result, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.LastResult != types.ResultPass || updated.Status != types.TestImplemented {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestTestDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewTestStore(dir, "SPEC-0001")
	test, _ := s.Create(types.TestUnit, "A", nil)

	if err := s.Delete(test.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := s.Exists(test.ID); ok {
		t.Fatal("expected test gone after delete")
	}
}

func TestRequirementAndTestStoresIndependentNumbering(t *testing.T) {
	dir := t.TempDir()
	reqs := NewRequirementStore(dir, "SPEC-0001")
	tests := NewTestStore(dir, "SPEC-0001")

	req, _ := reqs.Create(types.ReqFunctional, "A", "", "alice")
	test, _ := tests.Create(types.TestUnit, "B", []string{req.ID})
	if req.ID != "REQ-0001" || test.ID != "TEST-0001" {
		t.Fatalf("expected independent per-file numbering, got %s %s", req.ID, test.ID)
	}
}
