package specstore

import (
	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// ValidateSpec walks every spec summary, re-checking slug grammar,
// relationship-type discipline, and (in strict mode) that every
// depends_on target still exists.
func (s *Store) ValidateSpec(strict bool) ([]error, error) {
	s.mu.Lock()
	idx, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var problems []error
	for _, m := range idx.Specs {
		if !types.ValidSpecSlug(m.Slug) {
			problems = append(problems, &oapserrors.ValidationError{Field: "slug", Reason: "spec " + m.ID + " has an invalid slug " + m.Slug})
		}
		rel := types.Relationships{DependsOn: m.DependsOn, Extends: m.Extends, Integrates: m.Integrates}
		if err := validateRelationships(m.SpecType, rel); err != nil {
			problems = append(problems, err)
		}
		if strict {
			for _, dep := range m.DependsOn {
				if idx.find(dep) == nil {
					problems = append(problems, &oapserrors.ReferentialIntegrityError{Reason: "spec " + m.ID + " depends on missing spec " + dep})
				}
			}
		}
	}

	edges := idx.buildEdges("", nil)
	if err := checkAcyclic(edges); err != nil {
		problems = append(problems, err)
	}
	return problems, nil
}
