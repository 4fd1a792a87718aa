package query

import (
	"github.com/oaps-dev/oaps/internal/specstore"
	"github.com/oaps-dev/oaps/internal/types"
)

// DependencyGraph builds the depends_on graph over every spec (edge
// semantics: "A depends_on B" ⇒ edge A→B). When specID is non-empty the
// result is restricted to {specID} ∪ ancestors(specID) ∪
// descendants(specID); otherwise every spec is included.
func (e *Engine) DependencyGraph(specID string) (*types.DependencyGraph, error) {
	if specID != "" {
		if _, err := e.Specs.GetSpec(specID); err != nil {
			return nil, err
		}
	}

	specs, err := e.Specs.ListSpecs(specstore.ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, err
	}

	g := newDigraph()
	titles := make(map[string]string, len(specs))
	statuses := make(map[string]types.SpecStatus, len(specs))
	for _, s := range specs {
		g.addNode(s.ID)
		titles[s.ID] = s.Title
		statuses[s.ID] = s.Status
	}
	for _, s := range specs {
		for _, dep := range s.Relationships.DependsOn {
			if g.seen[dep] {
				g.addEdge(s.ID, dep)
			}
		}
	}

	var included map[string]bool
	if specID != "" && g.seen[specID] {
		included = g.ancestors(specID)
		for id := range g.descendants(specID) {
			included[id] = true
		}
		included[specID] = true
	} else {
		included = make(map[string]bool, len(g.nodes))
		for _, id := range g.nodes {
			included[id] = true
		}
	}

	cycle := g.findCycle()
	hasCycles := cycle != nil

	var roots, leaves []string
	for _, id := range g.nodes {
		if !included[id] {
			continue
		}
		if g.inDegree(id) == 0 {
			roots = append(roots, id)
		}
		if g.outDegree(id) == 0 {
			leaves = append(leaves, id)
		}
	}

	var topoOrder []string
	if !hasCycles {
		for _, id := range g.topologicalSort() {
			if included[id] {
				topoOrder = append(topoOrder, id)
			}
		}
	}

	depths := g.depthsFromRoots(roots)

	var nodes []types.DependencyNode
	for _, id := range g.nodes {
		if !included[id] {
			continue
		}
		nodes = append(nodes, types.DependencyNode{
			SpecID: id,
			Title:  titles[id],
			Status: statuses[id],
			Depth:  depths[id],
		})
	}

	var edges [][2]string
	for _, id := range g.nodes {
		if !included[id] {
			continue
		}
		for _, target := range g.forward[id] {
			if included[target] {
				edges = append(edges, [2]string{id, target})
			}
		}
	}

	return &types.DependencyGraph{
		Nodes:            nodes,
		Edges:            edges,
		Roots:            roots,
		Leaves:           leaves,
		TopologicalOrder: topoOrder,
		HasCycles:        hasCycles,
		CyclePath:        cycle,
	}, nil
}
