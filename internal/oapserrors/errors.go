// Package oapserrors defines the structured error taxonomy raised by the
// store, query, checkpoint, and state-store layers (spec §7). Each kind
// carries whatever payload a caller needs to recover or report; callers
// decide whether to surface or recover. errors.As/errors.Is work against
// every type here.
package oapserrors

import "fmt"

// NotFoundError is returned when an artifact, spec, requirement, test,
// idea, or worktree id does not resolve to a live record.
type NotFoundError struct {
	Kind string // "artifact", "spec", "requirement", "test", "idea", "worktree"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError covers invalid slugs, invalid status values, missing
// required type fields, disallowed values, malformed binary-source
// combinations, too-few integrates entries, enhancement-without-extends,
// and empty titles.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
}

// MultiValidationError aggregates more than one ValidationError, used by
// validate() passes that collect every problem before reporting.
type MultiValidationError struct {
	Errors []*ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e.Errors))
	for _, ve := range e.Errors {
		msg += "\n  - " + ve.Error()
	}
	return msg
}

// DuplicateError covers slug collisions and id collisions surfaced during
// index rebuild.
type DuplicateError struct {
	Kind  string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Kind, e.Value)
}

// ReferentialIntegrityError covers delete-blocked-by-reference,
// depends_on of an unknown spec, and circular dependencies.
type ReferentialIntegrityError struct {
	Reason      string
	ReferringBy []string // ids that hold the blocking reference, when applicable
}

func (e *ReferentialIntegrityError) Error() string {
	if len(e.ReferringBy) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (referenced by: %v)", e.Reason, e.ReferringBy)
}

// SupersessionError covers type mismatch, already-superseded, and
// self-supersession failures.
type SupersessionError struct {
	Reason string
}

func (e *SupersessionError) Error() string {
	return e.Reason
}

// TypeNotRegisteredError is raised when an artifact prefix has no
// registered type definition.
type TypeNotRegisteredError struct {
	Prefix string
}

func (e *TypeNotRegisteredError) Error() string {
	return fmt.Sprintf("artifact type not registered: %s", e.Prefix)
}

// ConcurrencyError covers race-detected commit conflicts, a locked
// repository, and a path that resolves outside the repository root. The
// checkpoint layer is the only place this can be raised *after* an
// irreversible side effect; SHA carries the commit that was written
// before the conflict was observed.
type ConcurrencyError struct {
	Reason string
	SHA    string // non-empty only for a race-detected commit conflict
}

func (e *ConcurrencyError) Error() string {
	if e.SHA == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (commit sha: %s)", e.Reason, e.SHA)
}

// FormatError covers malformed YAML front-matter, malformed JSON index
// files, and unreadable files.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ExpressionError covers compile or evaluation failures in the boolean
// expression evaluator.
type ExpressionError struct {
	Expr   string
	Reason string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression error in %q: %s", e.Expr, e.Reason)
}
