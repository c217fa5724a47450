package git

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

// RepoInfo is the read-only summary printed by `gcop info`.
// Fields git cannot answer (no remote, no tags) are left empty.
type RepoInfo struct {
	Name               string
	Branch             string
	LatestCommit       string
	UncommittedChanges int
	RemoteURL          string
	TotalCommits       int
	Contributors       int
	FirstCommitDate    string
	LastCommitDate     string
	LatestTag          string
	BranchCount        int
	UntrackedFiles     int
	LatestMerge        string
	MostChangedFile    string
}

func countLines(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}

// optional runs a command whose failure only means "no answer".
func (g *Git) optional(ctx context.Context, args ...string) string {
	out, err := g.run(ctx, args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Info gathers repository statistics. Only failing to resolve the work
// tree is an error; every other missing piece is reported empty.
func (g *Git) Info(ctx context.Context) (RepoInfo, error) {
	root, err := g.Root(ctx)
	if err != nil {
		return RepoInfo{}, err
	}

	info := RepoInfo{
		Name:           filepath.Base(root),
		Branch:         g.optional(ctx, "rev-parse", "--abbrev-ref", "HEAD"),
		LatestCommit:   g.optional(ctx, "log", "-1", "--oneline"),
		RemoteURL:      g.optional(ctx, "config", "--get", "remote.origin.url"),
		LastCommitDate: g.optional(ctx, "log", "-1", "--date=iso", "--format=%ad"),
		LatestTag:      g.optional(ctx, "describe", "--tags", "--abbrev=0"),
		LatestMerge:    g.optional(ctx, "log", "--merges", "-n", "1", "--pretty=format:%h - %s"),
	}

	info.UncommittedChanges = countLines(g.optional(ctx, "status", "--porcelain"))
	info.BranchCount = countLines(g.optional(ctx, "branch", "-a"))
	info.UntrackedFiles = countLines(g.optional(ctx, "ls-files", "--others", "--exclude-standard"))
	if n, err := strconv.Atoi(g.optional(ctx, "rev-list", "--count", "HEAD")); err == nil {
		info.TotalCommits = n
	}

	authors := map[string]struct{}{}
	for _, email := range strings.Split(g.optional(ctx, "log", "--format=%ae"), "\n") {
		if email = strings.TrimSpace(email); email != "" {
			authors[email] = struct{}{}
		}
	}
	info.Contributors = len(authors)

	if dates := g.optional(ctx, "log", "--reverse", "--date=iso", "--format=%ad"); dates != "" {
		first, _, _ := strings.Cut(dates, "\n")
		info.FirstCommitDate = strings.TrimSpace(first)
	}

	changes := map[string]int{}
	for _, name := range strings.Split(g.optional(ctx, "log", "--pretty=format:", "--name-only"), "\n") {
		if name = strings.TrimSpace(name); name != "" {
			changes[name]++
		}
	}
	best := 0
	for name, n := range changes {
		if n > best || (n == best && name < info.MostChangedFile) {
			best, info.MostChangedFile = n, name
		}
	}

	return info, nil
}
