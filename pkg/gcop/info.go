package gcop

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/git"
)

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display information about the current git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			info, err := repo.Info(cmd.Context())
			if err != nil {
				return err
			}
			for _, row := range infoRows(info) {
				colors.Info(a.out, "%s: ", row[0])
				colors.Text(a.out, "%s\n", row[1])
			}
			return nil
		},
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func infoRows(info git.RepoInfo) [][2]string {
	return [][2]string{
		{"Project Name", info.Name},
		{"Current Branch", orDefault(info.Branch, "unknown")},
		{"Latest Commit", orDefault(info.LatestCommit, "No commits yet")},
		{"Uncommitted Changes", strconv.Itoa(info.UncommittedChanges)},
		{"Remote URL", orDefault(info.RemoteURL, "No remote configured")},
		{"Total Commits", strconv.Itoa(info.TotalCommits)},
		{"Contributors", strconv.Itoa(info.Contributors)},
		{"Repository Created", orDefault(info.FirstCommitDate, "unknown")},
		{"Last Modified", orDefault(info.LastCommitDate, "unknown")},
		{"Most Changed File", orDefault(info.MostChangedFile, "none")},
		{"Latest Tag", orDefault(info.LatestTag, "No tags found")},
		{"Branch Count", strconv.Itoa(info.BranchCount)},
		{"Untracked Files", strconv.Itoa(info.UntrackedFiles)},
		{"Latest Merge Commit", orDefault(info.LatestMerge, "No merge commits found")},
	}
}
