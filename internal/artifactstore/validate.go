package artifactstore

import (
	"fmt"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/registry"
	"github.com/oaps-dev/oaps/internal/types"
)

// Validate walks every live artifact, checking its type-field rules. In
// strict mode it additionally reports (at most) one numbering-gap
// warning per prefix present in the store.
func (s *Store) Validate(strict bool) ([]error, error) {
	s.mu.Lock()
	idx, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var problems []error
	prefixesSeen := map[string]bool{}
	for _, e := range idx.Artifacts {
		id, _ := e["id"].(string)
		prefix, _, ok := types.ParseArtifactID(id)
		if ok {
			prefixesSeen[prefix] = true
		}
		art := summaryToArtifact(e, s.basePath)
		if verr := s.validateOne(art); verr != nil {
			problems = append(problems, verr)
		}
	}

	if strict {
		for prefix := range prefixesSeen {
			if gap := idx.numberGap(prefix); gap > 0 {
				problems = append(problems, &oapserrors.ValidationError{
					Reason: fmt.Sprintf("number gap in %s artifacts: missing %s", prefix, types.FormatArtifactID(prefix, gap)),
				})
			}
		}
	}
	return problems, nil
}

// ValidateArtifact re-runs type-field validation for a single artifact.
func (s *Store) ValidateArtifact(id string) error {
	art, err := s.GetArtifact(id)
	if err != nil {
		return err
	}
	return s.validateOne(art)
}

func (s *Store) validateOne(art *types.Artifact) error {
	def, ok := s.reg.ByName(art.Type)
	if !ok {
		return &oapserrors.TypeNotRegisteredError{Prefix: art.Type}
	}
	if !registry.ValidSubtype(def, art.Subtype) {
		return &oapserrors.ValidationError{Field: "subtype", Reason: fmt.Sprintf("%q is not a valid subtype for %s", art.Subtype, def.Name)}
	}
	return registry.ValidateTypeFields(def, art.TypeFields)
}
