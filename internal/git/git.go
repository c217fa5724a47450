package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/edhuardotierrez/gcop/internal/types"
)

// Diff is the text of the staged changes.
type Diff string

// Empty reports whether there is nothing staged.
func (d Diff) Empty() bool {
	return strings.TrimSpace(string(d)) == ""
}

func (d Diff) String() string {
	return string(d)
}

// HistoryFormat selects how git log renders history.
type HistoryFormat string

const (
	HistoryOneline HistoryFormat = "--oneline"
	HistoryStat    HistoryFormat = "--stat"
)

// Repository is what the commit workflow needs from git.
type Repository interface {
	IsRepository(ctx context.Context) bool
	StagedDiff(ctx context.Context) (Diff, error)
	History(ctx context.Context, format HistoryFormat, limit int) (string, error)
	Commit(ctx context.Context, message string) (int, error)
}

// CommandRunner runs git with args in dir and returns stdout, stderr and
// the process exit code. err is non-nil only when git could not be run or
// exited with a non-zero code.
type CommandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (stdout, stderr string, code int, err error)
}

// ExecRunner is the default CommandRunner, delegating to os/exec.
type ExecRunner struct {
	// Binary overrides the git executable, "git" when empty.
	Binary string
}

// Run implements CommandRunner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, string, int, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		code = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), code, err
}

// Git runs git commands in Dir (the working directory when empty).
type Git struct {
	Dir    string
	Runner CommandRunner
	// Output receives what `git commit` prints; discarded when nil.
	Output io.Writer
}

// New returns a Git bound to dir using the os/exec runner.
func New(dir string) *Git {
	return &Git{Dir: dir, Runner: ExecRunner{}}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	stdout, stderr, _, err := g.Runner.Run(ctx, g.Dir, args...)
	if err != nil {
		return stdout, &types.VcsError{Args: args, Output: stderr, Err: err}
	}
	return stdout, nil
}

// IsRepository checks if Dir is inside a git work tree
func (g *Git) IsRepository(ctx context.Context) bool {
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Root returns the top level directory of the work tree.
func (g *Git) Root(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// StagedDiff returns the staged changes. An empty Diff is not an error.
func (g *Git) StagedDiff(ctx context.Context) (Diff, error) {
	out, err := g.run(ctx, "diff", "--staged")
	if err != nil {
		return "", err
	}
	return Diff(out), nil
}

// History returns the last limit commits rendered with format.
func (g *Git) History(ctx context.Context, format HistoryFormat, limit int) (string, error) {
	if format == "" {
		format = HistoryOneline
	}
	if limit <= 0 {
		limit = types.DefaultHistoryLearningLimit
	}
	out, err := g.run(ctx, "log", string(format), "-n", strconv.Itoa(limit))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Commit creates a new commit with message used verbatim. A non-zero git
// exit is reported through the returned status, not as an error.
func (g *Git) Commit(ctx context.Context, message string) (int, error) {
	args := []string{"commit", "-m", message}
	stdout, stderr, code, err := g.Runner.Run(ctx, g.Dir, args...)
	if g.Output != nil {
		_, _ = io.WriteString(g.Output, stdout+stderr)
	}
	if err != nil && code < 0 {
		return code, &types.VcsError{Args: args[:1], Output: stderr, Err: err}
	}
	return code, nil
}

// SetGlobalAlias installs alias.<name> = value in the global git config.
func (g *Git) SetGlobalAlias(ctx context.Context, name, value string) error {
	_, err := g.run(ctx, "config", "--global", "alias."+name, value)
	return err
}
