package query

import (
	"github.com/oaps-dev/oaps/internal/specstore"
	"github.com/oaps-dev/oaps/internal/types"
)

var allRelationshipTypes = []types.RelationshipType{
	types.RelDependsOn, types.RelExtends, types.RelSupersedes, types.RelIntegrates,
}

// RelationshipGraph builds the full multi-relationship graph over every
// spec (depends_on, extends, supersedes, integrates). When types is
// non-empty only those relationship kinds are included as edges; when
// specID is non-empty the result is restricted to the subgraph of
// ancestors and descendants of specID across the included edge kinds.
func (e *Engine) RelationshipGraph(specID string, relTypes []types.RelationshipType) (*types.RelationshipGraph, error) {
	if specID != "" {
		if _, err := e.Specs.GetSpec(specID); err != nil {
			return nil, err
		}
	}

	specs, err := e.Specs.ListSpecs(specstore.ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, err
	}

	want := make(map[types.RelationshipType]bool)
	if len(relTypes) == 0 {
		relTypes = allRelationshipTypes
	}
	for _, t := range relTypes {
		want[t] = true
	}

	validIDs := make(map[string]bool, len(specs))
	nodes := make([]types.SpecNode, 0, len(specs))
	for _, s := range specs {
		validIDs[s.ID] = true
		nodes = append(nodes, types.SpecNode{
			SpecID:   s.ID,
			Title:    s.Title,
			SpecType: s.SpecType,
			Status:   s.Status,
		})
	}

	var edges []types.RelationshipEdge
	for _, s := range specs {
		rel := s.Relationships
		if want[types.RelDependsOn] {
			for _, dep := range rel.DependsOn {
				if validIDs[dep] {
					edges = append(edges, types.RelationshipEdge{From: s.ID, To: dep, Type: types.RelDependsOn})
				}
			}
		}
		if want[types.RelExtends] && rel.Extends != "" && validIDs[rel.Extends] {
			edges = append(edges, types.RelationshipEdge{From: s.ID, To: rel.Extends, Type: types.RelExtends})
		}
		if want[types.RelSupersedes] && rel.Supersedes != "" && validIDs[rel.Supersedes] {
			edges = append(edges, types.RelationshipEdge{From: s.ID, To: rel.Supersedes, Type: types.RelSupersedes})
		}
		if want[types.RelIntegrates] {
			for _, integ := range rel.Integrates {
				if validIDs[integ] {
					edges = append(edges, types.RelationshipEdge{From: s.ID, To: integ, Type: types.RelIntegrates})
				}
			}
		}
	}

	if specID == "" {
		return &types.RelationshipGraph{Nodes: nodes, Edges: edges}, nil
	}

	g := newDigraph()
	for _, n := range nodes {
		g.addNode(n.SpecID)
	}
	for _, ed := range edges {
		g.addEdge(ed.From, ed.To)
	}
	if !g.seen[specID] {
		return &types.RelationshipGraph{Nodes: nodes, Edges: edges}, nil
	}
	included := g.ancestors(specID)
	for id := range g.descendants(specID) {
		included[id] = true
	}
	included[specID] = true

	var filteredNodes []types.SpecNode
	for _, n := range nodes {
		if included[n.SpecID] {
			filteredNodes = append(filteredNodes, n)
		}
	}
	var filteredEdges []types.RelationshipEdge
	for _, ed := range edges {
		if included[ed.From] && included[ed.To] {
			filteredEdges = append(filteredEdges, ed)
		}
	}
	return &types.RelationshipGraph{Nodes: filteredNodes, Edges: filteredEdges}, nil
}
