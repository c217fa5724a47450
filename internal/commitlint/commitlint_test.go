package commitlint

import (
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    []string // substrings expected in the warnings, nil means clean
	}{
		{
			name:    "clean",
			message: "feat: add login form\n\n- Validate email\n- Show errors inline",
		},
		{
			name:    "scope and breaking marker",
			message: "refactor(api)!: drop v1 routes",
		},
		{
			name:    "empty",
			message: "  \n",
			want:    []string{"empty"},
		},
		{
			name:    "missing prefix",
			message: "Add login form",
			want:    []string{"type prefix"},
		},
		{
			name:    "unknown type",
			message: "feature: add login form",
			want:    []string{"unknown commit type"},
		},
		{
			name:    "long summary",
			message: "feat: " + strings.Repeat("x", 60),
			want:    []string{"summary line is 66 characters"},
		},
		{
			name:    "trailing period",
			message: "fix: handle nil config.",
			want:    []string{"period"},
		},
		{
			name:    "no blank line",
			message: "fix: handle nil config\nbody starts here",
			want:    []string{"blank line"},
		},
		{
			name:    "wide body",
			message: "docs: explain setup\n\n" + strings.Repeat("y", 80),
			want:    []string{"body line 3"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Check(tc.message)
			if tc.want == nil {
				if len(got) != 0 {
					t.Fatalf("expected no warnings, got %v", got)
				}
				return
			}
			joined := strings.Join(got, "\n")
			for _, w := range tc.want {
				if !strings.Contains(joined, w) {
					t.Errorf("warnings %v do not mention %q", got, w)
				}
			}
		})
	}
}
