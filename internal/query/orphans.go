package query

import (
	"strings"

	"github.com/oaps-dev/oaps/internal/types"
)

// Orphans finds tests that no longer reference a live requirement,
// tests missing file/function location, and (when an artifact store is
// attached) artifacts whose references name no live requirement.
func (e *Engine) Orphans(specID string) (*types.OrphanReport, error) {
	reqs, err := e.requirements(specID)
	if err != nil {
		return nil, err
	}
	tests, err := e.tests(specID)
	if err != nil {
		return nil, err
	}

	validReqIDs := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		validReqIDs[r.ID] = true
	}

	report := &types.OrphanReport{SpecID: specID}
	for _, t := range tests {
		if !anyCovered(t.TestsRequirements, validReqIDs) {
			report.OrphanedTests = append(report.OrphanedTests, t)
		}
		if t.File == "" || t.Function == "" {
			report.TestsMissingFile = append(report.TestsMissingFile, t)
		}
	}

	if e.Artifacts != nil {
		artifacts, err := e.Artifacts.ListArtifacts("", "", "")
		if err != nil {
			return nil, err
		}
		for _, a := range artifacts {
			if len(a.References) == 0 {
				continue
			}
			if !referencesSpecRequirement(a.References, specID, validReqIDs) {
				report.OrphanedArtifacts = append(report.OrphanedArtifacts, a.ID)
			}
		}
	}
	return report, nil
}

func anyCovered(ids []string, valid map[string]bool) bool {
	for _, id := range ids {
		if valid[id] {
			return true
		}
	}
	return false
}

// referencesSpecRequirement reports whether any reference names a live
// requirement of specID. References may be bare requirement ids
// ("REQ-0001") or spec-qualified ("SPEC-0001/REQ-0001"); either form is
// accepted so artifacts attached at the registry level can still
// reference requirements scoped to one spec.
func referencesSpecRequirement(refs []string, specID string, valid map[string]bool) bool {
	for _, ref := range refs {
		id := ref
		if idx := strings.LastIndex(ref, "/"); idx != -1 {
			if ref[:idx] != specID {
				continue
			}
			id = ref[idx+1:]
		}
		if valid[id] {
			return true
		}
	}
	return false
}
