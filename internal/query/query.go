// Package query implements the read-only query engine (spec §4.7): pure
// functions over the spec, requirement/test, and artifact stores that
// compute progress, coverage, and dependency/relationship graphs. Every
// function returns a frozen snapshot; none of them mutate store state.
//
// Grounded on original_source/spec/_query_manager.py's QueryManager,
// which builds the same reports atop the rustworkx graph library. Go
// has no equivalent graph library anywhere in the retrieved example
// pack, so the graph algorithms here (ancestor/descendant walks, cycle
// detection, topological sort, BFS depth) are hand-rolled adjacency-map
// traversals, grounded on internal/specstore/graph.go's checkAcyclic
// three-color DFS idiom for the cycle-detection piece specifically.
package query

import (
	"github.com/oaps-dev/oaps/internal/artifactstore"
	"github.com/oaps-dev/oaps/internal/reqteststore"
	"github.com/oaps-dev/oaps/internal/specstore"
)

// Engine answers read-only queries across the spec, requirement/test,
// and (optionally) artifact stores. Artifacts is nil when orphan
// queries should skip orphaned_artifacts (spec §4.7: optional
// dependency).
type Engine struct {
	Specs     *specstore.Store
	Artifacts *artifactstore.Store
}

// New returns an Engine over specs, with artifacts wired in when
// orphaned_artifacts detection is needed.
func New(specs *specstore.Store, artifacts *artifactstore.Store) *Engine {
	return &Engine{Specs: specs, Artifacts: artifacts}
}

func (e *Engine) reqStore(specID string) (*reqteststore.RequirementStore, error) {
	dir, err := e.Specs.SpecDir(specID)
	if err != nil {
		return nil, err
	}
	return reqteststore.NewRequirementStore(dir, specID), nil
}

func (e *Engine) testStore(specID string) (*reqteststore.TestStore, error) {
	dir, err := e.Specs.SpecDir(specID)
	if err != nil {
		return nil, err
	}
	return reqteststore.NewTestStore(dir, specID), nil
}
