package checkpoint

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "user.email", "test@example.com")

	repo, err := NewStoreCheckpoint(dir)
	if err != nil {
		t.Fatalf("NewStoreCheckpoint: %v", err)
	}
	return repo
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestCommitCreatesCommitAndReportsNoChangesWhenClean(t *testing.T) {
	repo := newTestRepo(t)
	path := writeFile(t, repo.Root, "a.txt", "hello")

	result, err := repo.Commit("add a.txt", []string{path}, CommitOptions{})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if result.NoChanges || result.SHA == "" {
		t.Fatalf("expected a real commit, got %+v", result)
	}

	again, err := repo.Commit("nothing to commit", nil, CommitOptions{})
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if !again.NoChanges {
		t.Fatalf("expected no-op commit to report NoChanges, got %+v", again)
	}
}

func TestCommitAppendsTrailers(t *testing.T) {
	repo := newTestRepo(t)
	path := writeFile(t, repo.Root, "b.txt", "hi")

	_, err := repo.Commit("add b.txt", []string{path}, CommitOptions{
		Trailers: map[string]string{"Session-Id": "abc123"},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	commits, err := repo.GetLastCommits(1)
	if err != nil {
		t.Fatalf("get last commits: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	if got := commits[0].Message; !strings.Contains(got, "Session-Id: abc123") {
		t.Fatalf("expected trailer in message, got %q", got)
	}
}

func TestStatusReportsUntrackedAndStaged(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo.Root, "u.txt", "untracked")

	status, err := repo.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Untracked) != 1 {
		t.Fatalf("expected 1 untracked file, got %+v", status.Untracked)
	}

	if err := repo.Stage(status.Untracked); err != nil {
		t.Fatalf("stage: %v", err)
	}
	status, err = repo.Status()
	if err != nil {
		t.Fatalf("status after stage: %v", err)
	}
	if len(status.Staged) != 1 {
		t.Fatalf("expected 1 staged file, got %+v", status.Staged)
	}
}

func TestDiscardChangesRestoresTrackedFile(t *testing.T) {
	repo := newTestRepo(t)
	path := writeFile(t, repo.Root, "c.txt", "original")
	if _, err := repo.Commit("add c.txt", []string{path}, CommitOptions{}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	writeFile(t, repo.Root, "c.txt", "modified")
	result, err := repo.DiscardChanges(nil)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if len(result.Restored) != 1 {
		t.Fatalf("expected 1 restored file, got %+v", result)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("expected file restored to original content, got %q", data)
	}
}

func TestCommitPendingStagesAndCommitsEverything(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo.Root, "d.txt", "d")
	writeFile(t, repo.Root, "e.txt", "e")

	result, err := repo.CommitPending("checkpoint", CommitOptions{})
	if err != nil {
		t.Fatalf("commit pending: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files committed, got %+v", result)
	}
}

func TestWithinRootRejectsEscapingPath(t *testing.T) {
	repo := newTestRepo(t)
	outside := t.TempDir()
	outsidePath := writeFile(t, outside, "f.txt", "f")

	if err := repo.Stage([]string{outsidePath}); err == nil {
		t.Fatalf("expected path outside root to be rejected")
	}
}
