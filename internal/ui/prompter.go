package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"

	"github.com/edhuardotierrez/gcop/internal/refine"
	"github.com/edhuardotierrez/gcop/internal/types"
)

const (
	decisionLabel = "✨ Would you like to proceed with this commit message"
	feedbackLabel = "Please enter your feedback"
)

// Prompter asks the operator through promptui. Nil Stdin/Stdout use the
// terminal.
type Prompter struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Decide offers the choices in refine.Choices order.
func (p Prompter) Decide(_ context.Context, _ types.CommitMessage) (refine.Choice, error) {
	items := make([]string, len(refine.Choices))
	for i, c := range refine.Choices {
		items[i] = c.String()
	}
	sel := promptui.Select{
		Label:  decisionLabel,
		Items:  items,
		Size:   len(items),
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return refine.ChoiceAbort, promptError(err)
	}
	return refine.Choices[idx], nil
}

// Feedback reads one line of free text.
func (p Prompter) Feedback(_ context.Context) (string, error) {
	pr := promptui.Prompt{
		Label:  feedbackLabel,
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	text, err := pr.Run()
	if err != nil {
		return "", promptError(err)
	}
	return text, nil
}

// promptError maps Ctrl-C and Ctrl-D to refine.ErrInterrupted.
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return refine.ErrInterrupted
	}
	return fmt.Errorf("prompt failed: %w", err)
}
