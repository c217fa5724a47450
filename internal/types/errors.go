package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors that can be used with errors.Is() for error class checking
var (
	// ErrVcs indicates a git command returned an error
	ErrVcs = errors.New("git operation failed")

	// ErrConfig indicates missing, placeholder or invalid configuration
	ErrConfig = errors.New("invalid configuration")

	// ErrGeneration indicates the model backend failed or returned unusable output
	ErrGeneration = errors.New("commit message generation failed")
)

// VcsError represents a failed git invocation. Output carries the raw
// stderr text so it can be shown to the user as-is.
type VcsError struct {
	Args   []string
	Output string
	Err    error
}

func (e *VcsError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s: %s", msg, out)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *VcsError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrVcs}
	}
	return []error{ErrVcs, e.Err}
}

// ConfigError reports a configuration problem detected before any network call.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Key != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Key)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}

// GenerationError reports an unreachable backend or a reply that does not
// match the commit message schema.
type GenerationError struct {
	Model  string
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	msg := "commit message generation failed"
	if e.Model != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Model)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGeneration}
	}
	return []error{ErrGeneration, e.Err}
}
