package checkpoint

import "github.com/oaps-dev/oaps/internal/types"

// DiscardChanges unstages and restores files to their HEAD state. When
// paths is empty every staged and modified file is targeted; otherwise
// only the (validated) given paths are. Untracked files are never
// touched. Only paths present in the HEAD tree are restored (spec §4.8
// discard_changes).
func (r *Repo) DiscardChanges(paths []string) (*types.DiscardResult, error) {
	head, err := r.headSHA()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return &types.DiscardResult{NoChanges: true}, nil
	}

	staged, err := r.nameList("diff", "--name-only", "--cached")
	if err != nil {
		return nil, err
	}
	modified, err := r.nameList("diff", "--name-only")
	if err != nil {
		return nil, err
	}

	target := dedupe(append(append([]string{}, staged...), modified...))
	if len(paths) > 0 {
		rels, err := r.toRelativeAll(paths)
		if err != nil {
			return nil, err
		}
		wanted := make(map[string]bool, len(rels))
		for _, p := range rels {
			wanted[p] = true
		}
		var filtered []string
		for _, p := range target {
			if wanted[p] {
				filtered = append(filtered, p)
			}
		}
		target = filtered
	}

	if len(target) == 0 {
		return &types.DiscardResult{NoChanges: true}, nil
	}

	unstageArgs := append([]string{"reset", "HEAD", "--"}, target...)
	if _, err := r.git(unstageArgs...).CombinedOutput(); err != nil {
		return nil, err
	}

	var restored []string
	for _, p := range target {
		inTree, err := r.pathInTree(head, p)
		if err != nil {
			return nil, err
		}
		if !inTree {
			continue
		}
		if _, err := r.git("checkout", head, "--", p).CombinedOutput(); err != nil {
			return nil, err
		}
		restored = append(restored, p)
	}

	return &types.DiscardResult{
		Unstaged:  r.toAbsolute(target),
		Restored:  r.toAbsolute(restored),
		NoChanges: false,
	}, nil
}

func (r *Repo) pathInTree(sha, relPath string) (bool, error) {
	err := r.git("cat-file", "-e", sha+":"+relPath).Run()
	return err == nil, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
