package checkpoint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// CommitOptions carries optional trailers appended to a commit
// message as "Key: value" lines, one per entry (SUPPLEMENTED feature,
// matching the trailer convention spec §6 names for callers wrapping a
// checkpoint commit with extra metadata).
type CommitOptions struct {
	Trailers map[string]string
}

func formatMessage(message string, opts CommitOptions) string {
	if len(opts.Trailers) == 0 {
		return message
	}
	keys := make([]string, 0, len(opts.Trailers))
	for k := range opts.Trailers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\n")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", k, opts.Trailers[k])
	}
	return b.String()
}

// headSHA returns the current HEAD commit sha, or "" for an empty
// repository with no commits yet (spec §4.8 _get_head_sha).
func (r *Repo) headSHA() (string, error) {
	out, err := r.git("rev-parse", "HEAD").Output()
	if err != nil {
		return "", nil
	}
	return trimNewline(string(out)), nil
}

// Commit stages the given paths (or nothing, if stagedPaths is empty
// and the index already has staged content) and commits. Captures
// head_before prior to the write, then verifies the new commit's first
// parent matches it afterward, raising a ConcurrencyError carrying the
// already-written sha if another process committed concurrently (spec
// §4.8: optimistic, no auto-rollback).
func (r *Repo) Commit(message string, stagedPaths []string, opts CommitOptions) (*types.CommitResult, error) {
	if len(stagedPaths) > 0 {
		if err := r.Stage(stagedPaths); err != nil {
			return nil, err
		}
	}
	return r.commit(message, opts)
}

// CommitPending stages every uncommitted change (modified, deleted,
// untracked) and commits it.
func (r *Repo) CommitPending(message string, opts CommitOptions) (*types.CommitResult, error) {
	if err := r.stagePending(); err != nil {
		return nil, err
	}
	return r.commit(message, opts)
}

func (r *Repo) commit(message string, opts CommitOptions) (*types.CommitResult, error) {
	staged, err := r.nameList("diff", "--name-only", "--cached")
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return &types.CommitResult{NoChanges: true}, nil
	}

	headBefore, err := r.headSHA()
	if err != nil {
		return nil, err
	}

	full := formatMessage(message, opts)
	args := []string{"commit", "--author", r.authorLine(), "-m", full}
	if _, err := r.git(args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("git commit: %w", err)
	}

	newSHA, err := r.headSHA()
	if err != nil {
		return nil, err
	}

	parent, err := r.firstParent(newSHA)
	if err != nil {
		return nil, err
	}
	if parent != headBefore {
		return nil, &oapserrors.ConcurrencyError{
			Reason: "concurrent commit detected: HEAD moved during commit",
			SHA:    newSHA,
		}
	}

	return &types.CommitResult{SHA: newSHA, Files: r.toAbsolute(staged)}, nil
}

func (r *Repo) firstParent(sha string) (string, error) {
	out, err := r.git("rev-list", "--parents", "-n", "1", sha).Output()
	if err != nil {
		return "", err
	}
	fields := strings.Fields(trimNewline(string(out)))
	if len(fields) < 2 {
		return "", nil
	}
	return fields[1], nil
}
