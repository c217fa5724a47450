// Package refine drives the commit message refinement loop: generate a
// candidate, let the operator accept, retry, retry with feedback or abort,
// and commit the accepted candidate verbatim.
//
// The loop is an explicit state machine. Run calls Step until the session
// reaches a terminal state, so long sessions do not grow the stack and each
// transition can be tested on its own.
package refine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edhuardotierrez/gcop/internal/commitlint"
	"github.com/edhuardotierrez/gcop/internal/prompt"
	"github.com/edhuardotierrez/gcop/internal/types"
)

// State is a refinement session state.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateAwaitingDecision
	StateAwaitingFeedback
	StateCommitting
	StateCommitted
	StateAborted
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateGenerating:       "generating",
	StateAwaitingDecision: "awaiting-decision",
	StateAwaitingFeedback: "awaiting-feedback",
	StateCommitting:       "committing",
	StateCommitted:        "committed",
	StateAborted:          "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateAborted
}

// Choice is the operator's decision on a candidate message.
type Choice int

const (
	ChoiceAccept Choice = iota
	ChoiceRetry
	ChoiceRetryWithFeedback
	ChoiceAbort
)

// Choices is the order in which decisions are offered.
var Choices = []Choice{ChoiceAccept, ChoiceRetry, ChoiceRetryWithFeedback, ChoiceAbort}

func (c Choice) String() string {
	switch c {
	case ChoiceAccept:
		return "yes"
	case ChoiceRetry:
		return "retry"
	case ChoiceRetryWithFeedback:
		return "retry by feedback"
	case ChoiceAbort:
		return "exit"
	default:
		return fmt.Sprintf("choice(%d)", int(c))
	}
}

// Why a session ended in StateAborted.
const (
	ReasonNoChanges   = "no staged changes"
	ReasonOperator    = "exiting commit process"
	ReasonInterrupted = "interrupted"
	ReasonFailed      = "generation failed"
)

// ErrInterrupted is returned by a Prompter when the operator cancels a
// prompt (Ctrl-C, Ctrl-D). The session ends as aborted, not as a failure.
var ErrInterrupted = errors.New("prompt interrupted")

// Generator produces a commit message from an instruction.
type Generator interface {
	Generate(ctx context.Context, instruction string) (types.CommitMessage, error)
}

// Committer records the accepted message. A non-zero status is not an error.
type Committer interface {
	Commit(ctx context.Context, message string) (int, error)
}

// Prompter asks the operator for decisions.
type Prompter interface {
	Decide(ctx context.Context, msg types.CommitMessage) (Choice, error)
	Feedback(ctx context.Context) (string, error)
}

// Observer is told about progress so a UI can render it.
type Observer interface {
	Generating(iteration int)
	Generated(msg types.CommitMessage, warnings []string)
	Failed(err error)
	Committed(status int)
	Aborted(reason string)
}

// Input seeds a session. PreviousMessage and Feedback are normally empty;
// they are set when a refinement is started from the command line.
type Input struct {
	Diff            string
	Template        string
	History         string
	PreviousMessage string
	Feedback        string
}

// Session is the state of one `gcop commit` run.
type Session struct {
	State       State
	Request     types.GenerationRequest
	Result      *types.CommitMessage
	Iterations  int
	ExitStatus  int
	AbortReason string
}

// NewSession returns an idle session for in.
func NewSession(in Input) *Session {
	return &Session{
		State: StateIdle,
		Request: types.GenerationRequest{
			Diff:            in.Diff,
			Template:        in.Template,
			History:         in.History,
			PreviousMessage: in.PreviousMessage,
			Feedback:        in.Feedback,
		},
	}
}

func (s *Session) abort(reason string) {
	s.State = StateAborted
	s.AbortReason = reason
}

// refine queues another generation improving on the current result.
func (s *Session) refine(feedback string) {
	s.Request.PreviousMessage = s.Result.Content
	s.Request.Feedback = feedback
	s.State = StateGenerating
}

// Loop wires the collaborators of a session.
type Loop struct {
	Generator Generator
	Prompter  Prompter
	Committer Committer
	Observer  Observer

	// Compose defaults to prompt.Compose and Lint to commitlint.Check.
	Compose func(types.GenerationRequest) string
	Lint    func(string) []string
}

// Run steps a new session until it is committed or aborted. The returned
// error is the first collaborator failure; the session is returned either way.
func (l *Loop) Run(ctx context.Context, in Input) (*Session, error) {
	s := NewSession(in)
	for !s.State.Terminal() {
		if err := l.Step(ctx, s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Step performs exactly one transition of s.
func (l *Loop) Step(ctx context.Context, s *Session) error {
	if s.State.Terminal() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		s.abort(ReasonInterrupted)
		l.observer().Aborted(s.AbortReason)
		return err
	}

	switch s.State {
	case StateIdle:
		if strings.TrimSpace(s.Request.Diff) == "" {
			s.abort(ReasonNoChanges)
			l.observer().Aborted(s.AbortReason)
			return nil
		}
		s.State = StateGenerating

	case StateGenerating:
		s.Iterations++
		l.observer().Generating(s.Iterations)
		msg, err := l.Generator.Generate(ctx, l.compose(s.Request))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.abort(ReasonInterrupted)
				l.observer().Aborted(s.AbortReason)
				return ctxErr
			}
			s.abort(ReasonFailed)
			l.observer().Failed(err)
			return err
		}
		s.Result = &msg
		l.observer().Generated(msg, l.lint(msg.Content))
		s.State = StateAwaitingDecision

	case StateAwaitingDecision:
		choice, err := l.Prompter.Decide(ctx, *s.Result)
		if err != nil {
			return l.promptFailed(s, err)
		}
		switch choice {
		case ChoiceAccept:
			s.State = StateCommitting
		case ChoiceRetry:
			s.refine("")
		case ChoiceRetryWithFeedback:
			s.State = StateAwaitingFeedback
		case ChoiceAbort:
			s.abort(ReasonOperator)
			l.observer().Aborted(s.AbortReason)
		default:
			return fmt.Errorf("unknown choice %v", choice)
		}

	case StateAwaitingFeedback:
		feedback, err := l.Prompter.Feedback(ctx)
		if err != nil {
			return l.promptFailed(s, err)
		}
		// Empty feedback is a plain retry.
		s.refine(strings.TrimSpace(feedback))

	case StateCommitting:
		status, err := l.Committer.Commit(ctx, s.Result.Content)
		s.ExitStatus = status
		s.State = StateCommitted
		if err != nil {
			return err
		}
		l.observer().Committed(status)

	default:
		return fmt.Errorf("invalid session state %v", s.State)
	}
	return nil
}

func (l *Loop) promptFailed(s *Session, err error) error {
	if errors.Is(err, ErrInterrupted) {
		s.abort(ReasonInterrupted)
		l.observer().Aborted(s.AbortReason)
		return nil
	}
	return err
}

func (l *Loop) compose(req types.GenerationRequest) string {
	if l.Compose != nil {
		return l.Compose(req)
	}
	return prompt.Compose(req)
}

func (l *Loop) lint(content string) []string {
	if l.Lint != nil {
		return l.Lint(content)
	}
	return commitlint.Check(content)
}

func (l *Loop) observer() Observer {
	if l.Observer != nil {
		return l.Observer
	}
	return nopObserver{}
}

type nopObserver struct{}

func (nopObserver) Generating(int)                          {}
func (nopObserver) Generated(types.CommitMessage, []string) {}
func (nopObserver) Failed(error)                            {}
func (nopObserver) Committed(int)                           {}
func (nopObserver) Aborted(string)                          {}
