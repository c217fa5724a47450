package git

import (
	"context"
	"strings"
)

// FileStatus is one entry of `git status --porcelain`.
type FileStatus struct {
	Path   string
	Status string
}

var porcelainStatus = map[byte]string{
	'M': "modified",
	'A': "added",
	'D': "deleted",
	'R': "renamed",
	'C': "copied",
	'U': "unmerged",
	'?': "untracked",
}

// UnstagedFiles lists work tree changes that could be staged.
func (g *Git) UnstagedFiles(ctx context.Context) ([]FileStatus, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelain(out), nil
}

func parsePorcelain(out string) []FileStatus {
	var files []FileStatus
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		// Column two is the work tree side; "??" marks untracked files.
		code := line[1]
		if code == ' ' {
			continue
		}
		status, ok := porcelainStatus[code]
		if !ok {
			status = "changed"
		}
		path := line[3:]
		if _, to, found := strings.Cut(path, " -> "); found {
			path = to
		}
		files = append(files, FileStatus{Path: strings.Trim(path, `"`), Status: status})
	}
	return files
}
