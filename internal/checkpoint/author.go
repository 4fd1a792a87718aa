package checkpoint

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAuthorName  = "OAPS"
	defaultAuthorEmail = "oaps@localhost"
)

// resolveSymlinks resolves symlinks in path, tolerating a path that
// does not exist yet by resolving as much of it as does exist.
func resolveSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	parent, base := filepath.Split(path)
	parent = strings.TrimSuffix(parent, string(filepath.Separator))
	if parent == "" || parent == path {
		return path, nil
	}
	resolvedParent, err := resolveSymlinks(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, base), nil
}

// authorLine formats the --author flag value for a commit, reading git
// config user.name/user.email from the repo (falling back to global
// config), and falling back to the OAPS <oaps@localhost> identity when
// neither is configured (spec §4.8 Author identity fallback).
func (r *Repo) authorLine() string {
	name := r.gitConfig("user.name")
	email := r.gitConfig("user.email")
	if name == "" {
		name = defaultAuthorName
	}
	if email == "" {
		email = defaultAuthorEmail
	}
	return name + " <" + email + ">"
}

func (r *Repo) gitConfig(key string) string {
	out, err := r.git("config", "--get", key).Output()
	if err != nil {
		return ""
	}
	return trimNewline(string(out))
}
