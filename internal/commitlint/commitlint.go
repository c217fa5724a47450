// Package commitlint checks a candidate commit message against the
// conventional layout requested in the prompt. Findings are advisory: they
// are shown next to the candidate and never block a commit.
package commitlint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxSummaryLength = 50
	MaxBodyWidth     = 72
)

var allowedTypes = map[string]bool{
	"feat":     true,
	"fix":      true,
	"docs":     true,
	"style":    true,
	"refactor": true,
	"perf":     true,
	"test":     true,
	"chore":    true,
	"build":    true,
	"ci":       true,
	"revert":   true,
}

// type, optional (scope), optional breaking "!", then ": "
var headerPattern = regexp.MustCompile(`^([a-z]+)(\([^)]+\))?!?: \S`)

// Check returns human readable warnings for message. An empty result means
// the message follows the layout.
func Check(message string) []string {
	message = strings.TrimRight(message, "\n")
	if strings.TrimSpace(message) == "" {
		return []string{"commit message is empty"}
	}

	lines := strings.Split(message, "\n")
	summary := lines[0]

	var warnings []string
	m := headerPattern.FindStringSubmatch(summary)
	switch {
	case m == nil:
		warnings = append(warnings, "summary line should start with a type prefix such as \"feat: \"")
	case !allowedTypes[m[1]]:
		warnings = append(warnings, fmt.Sprintf("unknown commit type %q", m[1]))
	}

	if n := utf8.RuneCountInString(summary); n > MaxSummaryLength {
		warnings = append(warnings, fmt.Sprintf("summary line is %d characters, limit is %d", n, MaxSummaryLength))
	}
	if strings.HasSuffix(strings.TrimSpace(summary), ".") {
		warnings = append(warnings, "summary line should not end with a period")
	}

	if len(lines) > 1 {
		if strings.TrimSpace(lines[1]) != "" {
			warnings = append(warnings, "summary line should be followed by a blank line")
		}
		for i, line := range lines[1:] {
			if n := utf8.RuneCountInString(line); n > MaxBodyWidth {
				warnings = append(warnings, fmt.Sprintf("body line %d is %d characters, wrap at %d", i+2, n, MaxBodyWidth))
			}
		}
	}

	return warnings
}
