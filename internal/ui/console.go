// Package ui renders the commit workflow on the terminal and collects the
// operator's decisions.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/git"
	"github.com/edhuardotierrez/gcop/internal/refine"
	"github.com/edhuardotierrez/gcop/internal/types"
)

const (
	// DefaultDiffLines is how much of the diff is echoed before generation.
	DefaultDiffLines = 40
	// maxUnstagedShown caps the "could be staged" hint.
	maxUnstagedShown = 10
	rule             = "---------------------------------------------------------------"
)

// Console implements refine.Observer on a writer.
type Console struct {
	Out     io.Writer
	Model   string
	Spinner *Spinner
	Log     logrus.FieldLogger
}

var _ refine.Observer = (*Console)(nil)

func (c *Console) log() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ShowDiff echoes up to maxLines of the staged diff, coloring added and
// removed lines. maxLines <= 0 shows everything.
func (c *Console) ShowDiff(diff git.Diff, maxLines int) {
	lines := strings.Split(strings.TrimRight(diff.String(), "\n"), "\n")
	shown := lines
	if maxLines > 0 && len(lines) > maxLines {
		shown = lines[:maxLines]
	}

	colors.Info(c.Out, "\n📄 Staged changes:\n%s\n", rule)
	for _, line := range shown {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "diff --git"):
			colors.Header(c.Out, "%s\n", line)
		case strings.HasPrefix(line, "+"):
			colors.Added(c.Out, "%s\n", line)
		case strings.HasPrefix(line, "-"):
			colors.Removed(c.Out, "%s\n", line)
		default:
			fmt.Fprintln(c.Out, line)
		}
	}
	if hidden := len(lines) - len(shown); hidden > 0 {
		colors.Desc(c.Out, "... %d more lines\n", hidden)
	}
	colors.Info(c.Out, "%s\n", rule)
}

// ShowUnstaged lists files the operator could stage.
func (c *Console) ShowUnstaged(files []git.FileStatus) {
	if len(files) == 0 {
		return
	}
	colors.Desc(c.Out, "Modified files that could be staged:\n")
	colors.Desc(c.Out, "----------------------------------\n")
	n := min(len(files), maxUnstagedShown)
	for _, f := range files[:n] {
		colors.Text(c.Out, "  • %s (%s)\n", f.Path, f.Status)
	}
	if len(files) > n {
		colors.Desc(c.Out, "\nAnd %d more files...\n", len(files)-n)
	}
	colors.Desc(c.Out, "\nTry: git add <file> to stage specific files\n")
	colors.Desc(c.Out, "  or: git add . to stage all files\n")
}

func (c *Console) Generating(iteration int) {
	c.log().WithField("iteration", iteration).Debug("generating commit message")
	msg := fmt.Sprintf("Generating commit message using AI (%s)...", c.Model)
	if iteration > 1 {
		msg = fmt.Sprintf("Refining commit message (attempt %d, %s)...", iteration, c.Model)
	}
	c.Spinner.Start(msg)
}

func (c *Console) Generated(msg types.CommitMessage, warnings []string) {
	c.Spinner.Stop()
	if msg.Thought != "" {
		colors.Desc(c.Out, "\n💡 %s\n", msg.Thought)
	}
	colors.Info(c.Out, "\n📝 Generated commit message (%s):\n%s\n", c.Model, rule)
	fmt.Fprintln(c.Out, msg.Content)
	colors.Info(c.Out, "%s\n", rule)
	for _, w := range warnings {
		colors.Warning(c.Out, "⚠️ %s\n", w)
	}
	if len(warnings) > 0 {
		fmt.Fprintln(c.Out)
	}
}

func (c *Console) Failed(err error) {
	c.Spinner.Stop()
	c.log().WithError(err).Error("commit message generation failed")
	colors.Error(c.Out, "❌ Error generating commit message: %v\n", err)
	var cfgErr *types.ConfigError
	if errors.As(err, &cfgErr) {
		colors.Desc(c.Out, "Run `gcop config` to set up the model.\n")
	}
}

func (c *Console) Committed(status int) {
	c.log().WithField("status", status).Info("git commit finished")
	if status != 0 {
		colors.Error(c.Out, "\n❌ git commit exited with status %d\n\n", status)
		return
	}
	colors.Success(c.Out, "\n✅ Successfully created commit!\n\n")
}

func (c *Console) Aborted(reason string) {
	c.Spinner.Stop()
	c.log().WithField("reason", reason).Info("commit aborted")
	switch reason {
	case refine.ReasonNoChanges:
		colors.Error(c.Out, "\n❌ No staged changes found. Use 'git add' first.\n\n")
	case refine.ReasonOperator:
		colors.Info(c.Out, "\n🚫 Exiting commit process.\n")
	case refine.ReasonInterrupted:
		colors.Info(c.Out, "\n🚫 Commit cancelled by user\n")
	default:
		colors.Info(c.Out, "\n🚫 %s\n", reason)
	}
}
