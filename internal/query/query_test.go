package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oaps-dev/oaps/internal/reqteststore"
	"github.com/oaps-dev/oaps/internal/specstore"
	"github.com/oaps-dev/oaps/internal/types"
)

func newTestEngine(t *testing.T) (*Engine, *specstore.Store) {
	t.Helper()
	dir := t.TempDir()
	specs := specstore.New(dir)
	if err := specs.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return New(specs, nil), specs
}

func mustCreateSpec(t *testing.T, specs *specstore.Store, title string, opts specstore.CreateOptions) *types.Spec {
	t.Helper()
	s, err := specs.CreateSpec(title, types.SpecFeature, opts)
	if err != nil {
		t.Fatalf("create spec %s: %v", title, err)
	}
	return s
}

func TestProgressCountsByStatusAndType(t *testing.T) {
	e, specs := newTestEngine(t)
	spec := mustCreateSpec(t, specs, "Auth", specstore.CreateOptions{})
	dir, err := specs.SpecDir(spec.ID)
	if err != nil {
		t.Fatalf("spec dir: %v", err)
	}
	reqs := reqteststore.NewRequirementStore(dir, spec.ID)

	a, _ := reqs.Create(types.ReqFunctional, "A", "", "alice")
	b, _ := reqs.Create(types.ReqFunctional, "B", "", "alice")
	reqs.Create(types.ReqSecurity, "C", "", "alice")

	implemented := types.ReqImplemented
	verified := types.ReqVerified
	reqs.Update(a.ID, reqteststore.RequirementUpdate{Status: &implemented})
	reqs.Update(b.ID, reqteststore.RequirementUpdate{Status: &verified})

	report, err := e.Progress(spec.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if report.TotalRequirements != 3 || report.ImplementedRequirements != 2 || report.VerifiedRequirements != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.OverallPercentage < 66 || report.OverallPercentage > 67 {
		t.Fatalf("unexpected percentage: %v", report.OverallPercentage)
	}
	wantByType := []types.TypeProgress{
		{ReqType: types.ReqFunctional, Total: 2, Implemented: 2, Verified: 1, Percentage: 100},
		{ReqType: types.ReqSecurity, Total: 1, Implemented: 0, Verified: 0, Percentage: 0},
	}
	if diff := cmp.Diff(wantByType, report.ByType); diff != "" {
		t.Fatalf("by_type mismatch (-want +got):\n%s", diff)
	}
}

func TestCoverageOnlyCountsPassingTests(t *testing.T) {
	e, specs := newTestEngine(t)
	spec := mustCreateSpec(t, specs, "Billing", specstore.CreateOptions{})
	dir, _ := specs.SpecDir(spec.ID)
	reqs := reqteststore.NewRequirementStore(dir, spec.ID)
	tests := reqteststore.NewTestStore(dir, spec.ID)

	r1, _ := reqs.Create(types.ReqFunctional, "A", "", "alice")
	r2, _ := reqs.Create(types.ReqFunctional, "B", "", "alice")

	passing, _ := tests.Create(types.TestUnit, "covers r1", []string{r1.ID})
	failing, _ := tests.Create(types.TestUnit, "covers r2", []string{r2.ID})

	passResult := types.ResultPass
	failResult := types.ResultFail
	tests.Update(passing.ID, reqteststore.TestUpdate{LastResult: &passResult})
	tests.Update(failing.ID, reqteststore.TestUpdate{LastResult: &failResult})

	report, err := e.Coverage(spec.ID)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if report.CoveredRequirements != 1 {
		t.Fatalf("expected 1 covered requirement, got %+v", report)
	}
	wantReqToTests := map[string][]string{r1.ID: {passing.ID}}
	if diff := cmp.Diff(wantReqToTests, report.RequirementToTests); diff != "" {
		t.Fatalf("requirement_to_tests mismatch (-want +got):\n%s", diff)
	}

	unverified, err := e.Unverified(spec.ID)
	if err != nil {
		t.Fatalf("unverified: %v", err)
	}
	if len(unverified) != 1 || unverified[0].ID != r2.ID {
		t.Fatalf("expected r2 unverified, got %+v", unverified)
	}
}

func TestOrphansFindsDanglingTestsAndMissingFiles(t *testing.T) {
	e, specs := newTestEngine(t)
	spec := mustCreateSpec(t, specs, "Search", specstore.CreateOptions{})
	dir, _ := specs.SpecDir(spec.ID)
	reqs := reqteststore.NewRequirementStore(dir, spec.ID)
	tests := reqteststore.NewTestStore(dir, spec.ID)

	live, _ := reqs.Create(types.ReqFunctional, "A", "", "alice")
	tests.Create(types.TestUnit, "covers live", []string{live.ID})
	tests.Create(types.TestUnit, "dangling", []string{"REQ-9999"})

	report, err := e.Orphans(spec.ID)
	if err != nil {
		t.Fatalf("orphans: %v", err)
	}
	if len(report.OrphanedTests) != 1 {
		t.Fatalf("expected 1 orphaned test, got %+v", report.OrphanedTests)
	}
	if len(report.TestsMissingFile) != 2 {
		t.Fatalf("expected both tests missing file/function, got %+v", report.TestsMissingFile)
	}
}

func TestDependencyGraphRootsLeavesAndCycle(t *testing.T) {
	e, specs := newTestEngine(t)
	base := mustCreateSpec(t, specs, "Base", specstore.CreateOptions{})
	mid := mustCreateSpec(t, specs, "Mid", specstore.CreateOptions{DependsOn: []string{base.ID}})
	top := mustCreateSpec(t, specs, "Top", specstore.CreateOptions{DependsOn: []string{mid.ID}})

	graph, err := e.DependencyGraph("")
	if err != nil {
		t.Fatalf("dependency graph: %v", err)
	}
	if graph.HasCycles {
		t.Fatalf("did not expect cycle: %+v", graph)
	}
	if diff := cmp.Diff([]string{top.ID}, graph.Roots); diff != "" {
		t.Fatalf("roots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{base.ID}, graph.Leaves); diff != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", diff)
	}
	wantOrder := []string{top.ID, mid.ID, base.ID}
	if diff := cmp.Diff(wantOrder, graph.TopologicalOrder); diff != "" {
		t.Fatalf("topological order mismatch (-want +got):\n%s", diff)
	}
	wantEdges := [][2]string{{mid.ID, base.ID}, {top.ID, mid.ID}}
	if diff := cmp.Diff(wantEdges, graph.Edges); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}

	scoped, err := e.DependencyGraph(mid.ID)
	if err != nil {
		t.Fatalf("scoped dependency graph: %v", err)
	}
	// Scoping by mid pulls in both its ancestors (top, which depends on
	// it) and its descendants (base, which it depends on).
	wantScopedIDs := []string{base.ID, mid.ID, top.ID}
	var gotScopedIDs []string
	for _, n := range scoped.Nodes {
		gotScopedIDs = append(gotScopedIDs, n.SpecID)
	}
	if diff := cmp.Diff(wantScopedIDs, gotScopedIDs); diff != "" {
		t.Fatalf("scoped nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestRelationshipGraphFiltersByType(t *testing.T) {
	e, specs := newTestEngine(t)
	a := mustCreateSpec(t, specs, "A", specstore.CreateOptions{})
	b := mustCreateSpec(t, specs, "B", specstore.CreateOptions{Extends: a.ID})

	graph, err := e.RelationshipGraph("", []types.RelationshipType{types.RelExtends})
	if err != nil {
		t.Fatalf("relationship graph: %v", err)
	}
	wantEdges := []types.RelationshipEdge{
		{From: b.ID, To: a.ID, Type: types.RelExtends},
	}
	if diff := cmp.Diff(wantEdges, graph.Edges); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
}
