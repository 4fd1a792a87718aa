package validation

import (
	"testing"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

func TestExistsFailsOnNilArtifact(t *testing.T) {
	err := Exists()("rv-1", nil)
	if _, ok := err.(*oapserrors.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v (%T)", err, err)
	}
}

func TestNotSupersededFailsWhenAlreadySuperseded(t *testing.T) {
	art := &types.Artifact{SupersededBy: "rv-2"}
	err := NotSuperseded()("rv-1", art)
	if _, ok := err.(*oapserrors.SupersessionError); !ok {
		t.Fatalf("expected SupersessionError, got %v (%T)", err, err)
	}
}

func TestHasStatusAcceptsAndRejects(t *testing.T) {
	art := &types.Artifact{Status: types.StatusDraft}
	if err := HasStatus(types.StatusDraft, types.StatusReview)("rv-1", art); err != nil {
		t.Fatalf("expected draft to be an allowed status, got %v", err)
	}
	if err := HasStatus(types.StatusComplete)("rv-1", art); err == nil {
		t.Fatalf("expected draft to be rejected against complete-only allowlist")
	}
}

func TestNotStatusRejectsForbidden(t *testing.T) {
	art := &types.Artifact{Status: types.StatusRetracted}
	if err := NotStatus(types.StatusRetracted)("rv-1", art); err == nil {
		t.Fatalf("expected retracted status to be rejected")
	}
}

func TestSameTypeRejectsMismatch(t *testing.T) {
	old := &types.Artifact{Type: "review"}
	nw := &types.Artifact{Type: "decision"}
	err := SameType(nw)("rv-1", old)
	if _, ok := err.(*oapserrors.SupersessionError); !ok {
		t.Fatalf("expected SupersessionError for type mismatch, got %v (%T)", err, err)
	}
}

func TestChainStopsAtFirstError(t *testing.T) {
	calls := 0
	track := func(id string, art *types.Artifact) error { calls++; return nil }
	fail := func(id string, art *types.Artifact) error { return &oapserrors.ValidationError{Field: "x", Reason: "nope"} }

	chain := Chain(track, fail, track)
	if err := chain("rv-1", &types.Artifact{}); err == nil {
		t.Fatalf("expected chain to surface the failing validator's error")
	}
	if calls != 1 {
		t.Fatalf("expected the validator after the failure to be skipped, got %d calls", calls)
	}
}

func TestForSupersedeRequiresExistsAndNotAlreadySuperseded(t *testing.T) {
	if err := ForSupersede()("rv-1", nil); err == nil {
		t.Fatalf("expected missing artifact to fail")
	}
	already := &types.Artifact{SupersededBy: "rv-2"}
	if err := ForSupersede()("rv-1", already); err == nil {
		t.Fatalf("expected already-superseded artifact to fail")
	}
	fresh := &types.Artifact{}
	if err := ForSupersede()("rv-1", fresh); err != nil {
		t.Fatalf("expected fresh artifact to pass, got %v", err)
	}
}

func TestNotReferencedRespectsForceAndLooksUpLazily(t *testing.T) {
	looked := false
	refsTo := func(id string) []string {
		looked = true
		return []string{"rv-2"}
	}
	if err := NotReferenced("rv-1", true, refsTo); err != nil {
		t.Fatalf("expected force=true to bypass the check, got %v", err)
	}
	if looked {
		t.Fatalf("expected refsTo to be skipped entirely under force")
	}
	if err := NotReferenced("rv-1", false, refsTo); err == nil {
		t.Fatalf("expected referential integrity error")
	}
	if !looked {
		t.Fatalf("expected refsTo to be consulted when force=false")
	}
}
