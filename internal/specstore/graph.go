package specstore

import (
	"fmt"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// checkAcyclic runs a DFS over depends_on edges starting from every spec
// in specs, rejecting the graph if a back edge is found. edges is keyed
// by spec id.
func checkAcyclic(edges map[string][]string) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(edges))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			cyclePath := append(append([]string{}, path...), id)
			return &oapserrors.ReferentialIntegrityError{
				Reason:      fmt.Sprintf("circular dependency detected: %v", cyclePath),
				ReferringBy: cyclePath,
			}
		}
		state[id] = visiting
		path = append(path, id)
		for _, dep := range edges[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for id := range edges {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateRelationships enforces spec invariant 8: ENHANCEMENT requires
// Extends, INTEGRATION requires at least two Integrates entries.
func validateRelationships(specType types.SpecType, rel types.Relationships) error {
	switch specType {
	case types.SpecEnhancement:
		if rel.Extends == "" {
			return &oapserrors.ValidationError{Field: "extends", Reason: "enhancement specs must set extends"}
		}
	case types.SpecIntegration:
		if len(rel.Integrates) < 2 {
			return &oapserrors.ValidationError{Field: "integrates", Reason: "integration specs must list at least two integrates entries"}
		}
	}
	return nil
}

// buildEdges constructs the depends_on adjacency map for every spec
// currently in idx, substituting a hypothetical edge set for newID when
// provided (used by create/update to validate before committing).
func (idx *rootIndex) buildEdges(overrideID string, overrideDeps []string) map[string][]string {
	edges := make(map[string][]string, len(idx.Specs)+1)
	for _, m := range idx.Specs {
		if m.ID == overrideID {
			continue
		}
		edges[m.ID] = append([]string{}, m.DependsOn...)
	}
	if overrideID != "" {
		edges[overrideID] = append([]string{}, overrideDeps...)
	}
	return edges
}
