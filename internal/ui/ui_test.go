package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/git"
	"github.com/edhuardotierrez/gcop/internal/refine"
	"github.com/edhuardotierrez/gcop/internal/types"
)

func newTestConsole() (*Console, *bytes.Buffer) {
	colors.Disable()
	var out bytes.Buffer
	return &Console{Out: &out, Model: "openai/gpt-4o"}, &out
}

func TestConsole_Generated(t *testing.T) {
	c, out := newTestConsole()
	c.Generated(types.CommitMessage{Thought: "adds a flag", Content: "feat: add --verbose"}, []string{"summary is long"})

	got := out.String()
	for _, want := range []string{"adds a flag", "feat: add --verbose", "openai/gpt-4o", "summary is long"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "adds a flag") > strings.Index(got, "feat: add --verbose") {
		t.Fatalf("thought should be shown before the message")
	}
}

func TestConsole_ShowDiffTruncates(t *testing.T) {
	c, out := newTestConsole()
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "+line %d\n", i)
	}
	c.ShowDiff(git.Diff(b.String()), 4)

	got := out.String()
	if !strings.Contains(got, "+line 3") || strings.Contains(got, "+line 4") {
		t.Fatalf("expected the first 4 lines only:\n%s", got)
	}
	if !strings.Contains(got, "6 more lines") {
		t.Fatalf("expected a truncation note:\n%s", got)
	}
}

func TestConsole_ShowUnstagedCaps(t *testing.T) {
	c, out := newTestConsole()
	var files []git.FileStatus
	for i := 0; i < 12; i++ {
		files = append(files, git.FileStatus{Path: fmt.Sprintf("f%d.go", i), Status: "modified"})
	}
	c.ShowUnstaged(files)

	got := out.String()
	if !strings.Contains(got, "f9.go (modified)") || strings.Contains(got, "f10.go") {
		t.Fatalf("expected ten files listed:\n%s", got)
	}
	if !strings.Contains(got, "And 2 more files") {
		t.Fatalf("expected remainder count:\n%s", got)
	}
}

func TestConsole_AbortAndCommitMessages(t *testing.T) {
	cases := []struct {
		name string
		run  func(c *Console)
		want string
	}{
		{name: "no changes", run: func(c *Console) { c.Aborted(refine.ReasonNoChanges) }, want: "No staged changes"},
		{name: "operator", run: func(c *Console) { c.Aborted(refine.ReasonOperator) }, want: "Exiting commit process"},
		{name: "committed", run: func(c *Console) { c.Committed(0) }, want: "Successfully created commit"},
		{name: "commit failed", run: func(c *Console) { c.Committed(128) }, want: "status 128"},
		{name: "config error", run: func(c *Console) { c.Failed(&types.ConfigError{Key: "model.api_key"}) }, want: "gcop config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, out := newTestConsole()
			tc.run(c)
			if !strings.Contains(out.String(), tc.want) {
				t.Fatalf("output %q does not contain %q", out.String(), tc.want)
			}
		})
	}
}

func TestPromptError(t *testing.T) {
	for _, err := range []error{promptui.ErrInterrupt, promptui.ErrEOF, promptui.ErrAbort} {
		if got := promptError(err); !errors.Is(got, refine.ErrInterrupted) {
			t.Fatalf("promptError(%v) = %v, want ErrInterrupted", err, got)
		}
	}
	other := errors.New("tty gone")
	if got := promptError(other); !errors.Is(got, other) || errors.Is(got, refine.ErrInterrupted) {
		t.Fatalf("unexpected mapping %v", got)
	}
}
