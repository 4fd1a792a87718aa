// Package validation provides composable lifecycle guards for artifact
// mutations (delete, supersede, retract) — whether the artifact exists,
// has an allowed status, or isn't already superseded.
//
// Grounded on the teacher's internal/validation/issue.go: the same
// ArtifactValidator/Chain shape as its IssueValidator/Chain, carried
// over unchanged as a pattern and retargeted at types.Artifact and
// oaps's own lifecycle statuses. The teacher's agent-ID parsing,
// priority parsing, and template-section linting (bead.go,
// template.go, and issue.go's template-specific guards) have no
// SPEC_FULL.md analogue — required type_fields and allowed-value
// validation already live in internal/registry.ValidateTypeFields, so
// those files were dropped rather than adapted; see DESIGN.md.
package validation

import (
	"fmt"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// ArtifactValidator validates an artifact and returns an error if
// validation fails. Validators compose via Chain.
type ArtifactValidator func(id string, art *types.Artifact) error

// Chain composes multiple validators into one. They run in order; the
// first error stops the chain.
func Chain(validators ...ArtifactValidator) ArtifactValidator {
	return func(id string, art *types.Artifact) error {
		for _, v := range validators {
			if err := v(id, art); err != nil {
				return err
			}
		}
		return nil
	}
}

// Exists validates that an artifact was found.
func Exists() ArtifactValidator {
	return func(id string, art *types.Artifact) error {
		if art == nil {
			return &oapserrors.NotFoundError{Kind: "artifact", ID: id}
		}
		return nil
	}
}

// NotSuperseded validates that an artifact hasn't already been
// superseded by another one.
func NotSuperseded() ArtifactValidator {
	return func(id string, art *types.Artifact) error {
		if art == nil {
			return nil // Exists() reports the missing-artifact case
		}
		if art.SupersededBy != "" {
			return &oapserrors.SupersessionError{
				Reason: fmt.Sprintf("artifact %s is already superseded by %s", id, art.SupersededBy),
			}
		}
		return nil
	}
}

// HasStatus validates that an artifact's status is one of allowed.
func HasStatus(allowed ...types.ArtifactStatus) ArtifactValidator {
	return func(id string, art *types.Artifact) error {
		if art == nil {
			return nil
		}
		for _, status := range allowed {
			if art.Status == status {
				return nil
			}
		}
		return &oapserrors.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("artifact %s has status %s, expected one of %v", id, art.Status, allowed),
		}
	}
}

// NotStatus validates that an artifact's status is not one of forbidden.
func NotStatus(forbidden ...types.ArtifactStatus) ArtifactValidator {
	return func(id string, art *types.Artifact) error {
		if art == nil {
			return nil
		}
		for _, status := range forbidden {
			if art.Status == status {
				return &oapserrors.ValidationError{
					Field:  "status",
					Reason: fmt.Sprintf("artifact %s has status %s, which is not allowed here", id, art.Status),
				}
			}
		}
		return nil
	}
}

// SameType validates that two artifacts share a registry type, the
// precondition for a valid supersession.
func SameType(other *types.Artifact) ArtifactValidator {
	return func(id string, art *types.Artifact) error {
		if art == nil || other == nil {
			return nil
		}
		if art.Type != other.Type {
			return &oapserrors.SupersessionError{
				Reason: fmt.Sprintf("cannot supersede: types don't match (%s vs %s)", art.Type, other.Type),
			}
		}
		return nil
	}
}

// ForSupersede returns the guard chain for the artifact being
// superseded: it must exist and not already be superseded.
func ForSupersede() ArtifactValidator {
	return Chain(Exists(), NotSuperseded())
}

// ForRetract returns the guard chain for a retract operation: the
// artifact must exist and not already be retracted.
func ForRetract() ArtifactValidator {
	return Chain(Exists(), NotStatus(types.StatusRetracted))
}
