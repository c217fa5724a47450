package prompt

import (
	"strings"
	"testing"

	"github.com/edhuardotierrez/gcop/internal/types"
)

func TestCompose_ContainsDiffAndTemplate(t *testing.T) {
	cases := []struct {
		name     string
		diff     string
		template string
	}{
		{name: "default template", diff: "diff --git a/x b/x\n+hello", template: DefaultTemplate},
		{name: "custom template", diff: "test diff", template: "<example>\nfeat: custom template\n</example>"},
		{name: "percent signs survive", diff: "+fmt.Printf(\"%d%%\\n\", n)", template: "100% conventional"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(types.GenerationRequest{Diff: tc.diff, Template: tc.template})
			if !strings.Contains(got, tc.diff) {
				t.Fatalf("instruction does not contain diff %q", tc.diff)
			}
			if !strings.Contains(got, tc.template) {
				t.Fatalf("instruction does not contain template %q", tc.template)
			}
		})
	}
}

func TestCompose_EmptyTemplateUsesDefault(t *testing.T) {
	diff := "diff --git a/x b/x\n+hello"
	want := Compose(types.GenerationRequest{Diff: diff, Template: DefaultTemplate})

	for _, template := range []string{"", "   ", "\n\t\n"} {
		if got := Compose(types.GenerationRequest{Diff: diff, Template: template}); got != want {
			t.Fatalf("Compose with template %q differs from default", template)
		}
	}
}

func TestCompose_PreviousMessageBeforeFeedback(t *testing.T) {
	req := types.GenerationRequest{
		Diff:            "test diff",
		PreviousMessage: "fix: previous commit",
		Feedback:        "Please make it more detailed",
	}
	got := Compose(req)

	prev := strings.Index(got, req.PreviousMessage)
	feedback := strings.Index(got, req.Feedback)
	if prev < 0 {
		t.Fatalf("instruction does not contain previous message")
	}
	if feedback < 0 {
		t.Fatalf("instruction does not contain feedback")
	}
	if prev >= feedback {
		t.Fatalf("previous message at %d should precede feedback at %d", prev, feedback)
	}
}

func TestCompose_HistoryPrecedesDiff(t *testing.T) {
	req := types.GenerationRequest{
		Diff:    "test diff",
		History: "abc1234 feat: earlier work",
	}
	got := Compose(req)

	history := strings.Index(got, req.History)
	diff := strings.Index(got, "<git_diff>")
	if history < 0 || diff < 0 || history >= diff {
		t.Fatalf("history (%d) should appear before the diff block (%d)", history, diff)
	}
}

func TestCompose_FirstGenerationHasNoRefinementBlocks(t *testing.T) {
	got := Compose(types.GenerationRequest{Diff: "test diff"})
	for _, tag := range []string{"<previous_commit_message>", "<user_feedback>", "<commit_message_history>"} {
		if strings.Contains(got, tag) {
			t.Fatalf("first generation should not contain %s", tag)
		}
	}
}

func TestCompose_AllParts(t *testing.T) {
	req := types.GenerationRequest{
		Diff:            "test diff",
		Template:        "<example>template</example>",
		History:         "commit message history",
		PreviousMessage: "previous message",
		Feedback:        "make it better",
	}
	got := Compose(req)
	for _, part := range []string{req.Diff, req.Template, req.History, req.PreviousMessage, req.Feedback} {
		if !strings.Contains(got, part) {
			t.Errorf("instruction does not contain %q", part)
		}
	}
}
