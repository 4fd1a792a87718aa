package checkpoint

import (
	"path/filepath"
	"strings"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// WithinRoot resolves symlinks on both root and path and reports
// whether the resolved path is contained in the resolved root (spec
// §4.8 Path containment: resolve before checking, so a symlink cannot
// be used to escape the repository).
func WithinRoot(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	resolvedRoot, err := resolveSymlinks(absRoot)
	if err != nil {
		return false, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	resolvedPath, err := resolveSymlinks(absPath)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(resolvedRoot, resolvedPath)
	if err != nil {
		return false, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}

// toRelative validates path against the repo root and returns it
// relative to Root, for passing to git subcommands.
func (r *Repo) toRelative(path string) (string, error) {
	ok, err := r.validate(r.Root, path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &oapserrors.ConcurrencyError{Reason: "path resolves outside repository root: " + path}
	}
	absRoot, err := filepath.Abs(r.Root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
