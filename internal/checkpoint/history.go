package checkpoint

import (
	"strconv"
	"strings"
	"time"

	"github.com/oaps-dev/oaps/internal/types"
)

const commitLogFormat = "%H%x00%P%x00%an%x00%ae%x00%at%x00%B%x01"

// GetLastCommits walks the repository history from HEAD, most recent
// first, returning at most n entries (spec §4.8 get_last_commits).
func (r *Repo) GetLastCommits(n int) ([]types.CommitInfo, error) {
	head, err := r.headSHA()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, nil
	}

	out, err := r.git("log", "-n", strconv.Itoa(n), "--pretty=format:"+commitLogFormat).Output()
	if err != nil {
		return nil, err
	}

	var commits []types.CommitInfo
	for _, entry := range strings.Split(string(out), "\x01") {
		entry = strings.Trim(entry, "\n")
		if entry == "" {
			continue
		}
		fields := strings.SplitN(entry, "\x00", 6)
		if len(fields) != 6 {
			continue
		}
		sha, parents, name, email, unixTime, message := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]

		var parentSHAs []string
		if parents != "" {
			parentSHAs = strings.Fields(parents)
		}
		sec, _ := strconv.ParseInt(unixTime, 10, 64)

		changed, err := r.countFilesChanged(sha, parentSHAs)
		if err != nil {
			return nil, err
		}

		commits = append(commits, types.CommitInfo{
			SHA:          sha,
			Message:      strings.TrimRight(message, "\n"),
			AuthorName:   name,
			AuthorEmail:  email,
			Timestamp:    time.Unix(sec, 0).UTC(),
			FilesChanged: changed,
			ParentSHAs:   parentSHAs,
		})
	}
	return commits, nil
}

// countFilesChanged reports the number of files touched by a commit: a
// full tree leaf count for a root commit (no parent), otherwise a diff
// against the first parent (spec §4.8 _count_files_changed).
func (r *Repo) countFilesChanged(sha string, parents []string) (int, error) {
	var out []byte
	var err error
	if len(parents) == 0 {
		out, err = r.git("ls-tree", "-r", "--name-only", sha).Output()
	} else {
		out, err = r.git("diff-tree", "--no-commit-id", "--name-only", "-r", parents[0], sha).Output()
	}
	if err != nil {
		return 0, err
	}
	return len(splitNonEmptyLines(string(out))), nil
}
