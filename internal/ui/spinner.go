package ui

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner is shown while waiting on git or the model. A nil *Spinner is a
// valid no-op, which keeps tests and piped output quiet.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner returns a cyan spinner drawing on w.
func NewSpinner(w io.Writer) *Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	_ = s.Color("cyan")
	return &Spinner{s: s}
}

// Start shows msg next to the spinner.
func (sp *Spinner) Start(msg string) {
	if sp == nil {
		return
	}
	sp.s.Suffix = " " + msg
	sp.s.Start()
}

func (sp *Spinner) Stop() {
	if sp == nil {
		return
	}
	sp.s.Stop()
}
