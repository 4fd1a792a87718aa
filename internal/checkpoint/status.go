package checkpoint

import (
	"path/filepath"
	"strings"

	"github.com/oaps-dev/oaps/internal/types"
)

// Status reports the repository's staged, modified, and untracked
// files (spec §4.8 get_status), as absolute paths.
func (r *Repo) Status() (*types.RepoStatus, error) {
	staged, err := r.nameList("diff", "--name-only", "--cached")
	if err != nil {
		return nil, err
	}
	modified, err := r.nameList("diff", "--name-only")
	if err != nil {
		return nil, err
	}
	untracked, err := r.nameList("ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return &types.RepoStatus{
		Staged:    r.toAbsolute(staged),
		Modified:  r.toAbsolute(modified),
		Untracked: r.toAbsolute(untracked),
	}, nil
}

// Stage adds paths to the index. Each path is validated against the
// repository root before being passed to git.
func (r *Repo) Stage(paths []string) error {
	rels, err := r.toRelativeAll(paths)
	if err != nil {
		return err
	}
	if len(rels) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, rels...)
	_, err = r.git(args...).CombinedOutput()
	return err
}

// stagePending stages every uncommitted change: modified, deleted, and
// untracked files (spec §4.8 _stage_pending, used by CommitPending).
func (r *Repo) stagePending() error {
	_, err := r.git("add", "-A").CombinedOutput()
	return err
}

func (r *Repo) nameList(args ...string) ([]string, error) {
	out, err := r.git(args...).Output()
	if err != nil {
		return nil, err
	}
	return splitNonEmptyLines(string(out)), nil
}

func splitNonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (r *Repo) toAbsolute(relPaths []string) []string {
	if len(relPaths) == 0 {
		return nil
	}
	abs := make([]string, len(relPaths))
	for i, p := range relPaths {
		abs[i] = filepath.Join(r.Root, filepath.FromSlash(p))
	}
	return abs
}

func (r *Repo) toRelativeAll(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := r.toRelative(p)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}
