package gcop

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/edhuardotierrez/gcop/internal/git"
	"github.com/edhuardotierrez/gcop/internal/refine"
	"github.com/edhuardotierrez/gcop/internal/ui"
)

type commitOptions struct {
	instruction     string
	previousMessage string
	diffLines       int
}

func (a *app) newCommitCmd() *cobra.Command {
	var opts commitOptions
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate a commit message for the staged changes and commit them",
		Long: `Generate a git commit message based on the staged changes and commit them.

Select "yes" to commit with the generated message, "retry" to generate a new
one, "retry by feedback" to tell the model what to change, or "exit" to leave
without committing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCommit(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.instruction, "instruction", "", "Additional instruction for commit message generation")
	cmd.Flags().StringVar(&opts.previousMessage, "previous-message", "", "Previous commit message to refine")
	cmd.Flags().IntVar(&opts.diffLines, "diff-lines", ui.DefaultDiffLines, "Lines of the staged diff to show, 0 for all")
	return cmd
}

func (a *app) runCommit(ctx context.Context, opts commitOptions) error {
	cfg, err := a.manager.Load()
	if err != nil {
		return err
	}
	repo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}

	console := a.console(cfg.Model.ModelName)
	console.Spinner.Start("Analyzing git changes...")
	diff, err := repo.StagedDiff(ctx)
	console.Spinner.Stop()
	if err != nil {
		return err
	}

	input := refine.Input{
		Diff:            diff.String(),
		Template:        cfg.CommitTemplate,
		PreviousMessage: opts.previousMessage,
		Feedback:        opts.instruction,
	}

	loop := &refine.Loop{Prompter: a.prompter, Committer: repo, Observer: console}
	if !diff.Empty() {
		if cfg.IncludeGitHistory {
			history, err := repo.History(ctx, git.HistoryOneline, cfg.HistoryLearningLimit)
			if err != nil {
				a.log.WithError(err).Warn("could not read commit history, continuing without it")
			} else {
				input.History = history
			}
		}
		console.ShowDiff(diff, opts.diffLines)

		loop.Generator, err = a.newGenerator(ctx, cfg.Model, a.log)
		if err != nil {
			return err
		}
	}

	session, err := loop.Run(ctx, input)
	a.log.WithField("state", session.State.String()).WithField("iterations", session.Iterations).Debug("commit session finished")

	if session.AbortReason == refine.ReasonNoChanges {
		if files, ferr := repo.UnstagedFiles(ctx); ferr == nil {
			console.ShowUnstaged(files)
		}
	}
	if err != nil {
		if session.AbortReason == refine.ReasonFailed {
			// Already reported by the console.
			return exitError(1)
		}
		return err
	}
	if session.State == refine.StateCommitted && session.ExitStatus != 0 {
		return exitError(session.ExitStatus)
	}
	return nil
}
