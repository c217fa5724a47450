// Package prompt builds the instruction sent to the model for a commit
// message. Compose is pure: the same request always yields the same text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/edhuardotierrez/gcop/internal/types"
)

// DefaultTemplate is used when no commit_template is configured.
const DefaultTemplate = `<good_example>
<commit_message>
feat: implement user registration

- Add registration form component
- Create API endpoint for user creation
- Implement email verification process

This feature allows new users to create accounts and verifies
their email addresses before activation. It includes proper
input validation and error handling.
</commit_message>
<reason>contains relevant detail of the changes, not just one line</reason>
</good_example>

<bad_example>
<commit_message>feat: add user registration</commit_message>
<reason>only one line, needs more detail based on the guidelines</reason>
</bad_example>`

const systemPrompt = `# Git Commit Message Generator
You are a professional software developer writing a git commit message for the staged diff below.
Analyze the diff, understand what changed and why, and write one message following Conventional Commits.

## Format
1. Start with a type prefix followed by a colon and a space:
   feat, fix, docs, style, refactor, perf, test, chore.
2. Follow with a short imperative summary (not capitalized, no trailing period).
3. The whole first line (type + summary) is at most 50 characters.
4. Leave one blank line after the first line.
5. Write a body explaining the change, wrapped at 72 characters.
6. Use markdown lists for multiple points when useful.
7. When applicable mention the motivation, the contrast with previous behavior
   and side effects of the change.

## Notes
- Keep a professional, objective tone.
- Do not include secrets such as passwords, API keys or tokens.
- If the diff contains unrelated changes, say so in the thought and still write one message.
- Output exactly one commit message, never several.

<commit_templates>
%s
</commit_templates>
`

const historyBlock = `
The recent commit history of this repository is given for context. Follow its conventions
where they do not conflict with the format above.

<commit_message_history>
%s
</commit_message_history>
`

const diffBlock = `
Generate the commit message for this diff:

<git_diff>
%s
</git_diff>
`

const refineBlock = `
This is the previous commit message, which needs improvement. Consider it together
with any feedback below and write a better one.

<previous_commit_message>
%s
</previous_commit_message>
`

const feedbackBlock = `
<user_feedback>
%s
</user_feedback>
`

// NormalizeTemplate returns DefaultTemplate for an empty or all-whitespace template.
func NormalizeTemplate(template string) string {
	if strings.TrimSpace(template) == "" {
		return DefaultTemplate
	}
	return template
}

// Compose assembles the instruction for req. The caller guarantees a non-empty diff.
// History precedes the diff; the previous message precedes the feedback.
func Compose(req types.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, systemPrompt, NormalizeTemplate(req.Template))

	if strings.TrimSpace(req.History) != "" {
		fmt.Fprintf(&b, historyBlock, req.History)
	}

	fmt.Fprintf(&b, diffBlock, req.Diff)

	if strings.TrimSpace(req.PreviousMessage) != "" {
		fmt.Fprintf(&b, refineBlock, req.PreviousMessage)
	}

	if strings.TrimSpace(req.Feedback) != "" {
		fmt.Fprintf(&b, feedbackBlock, req.Feedback)
	}

	return b.String()
}
