package types

import (
	"errors"
	"strings"
	"testing"
)

func TestModelConfig_IsValid(t *testing.T) {
	cases := []struct {
		name  string
		model ModelConfig
		want  bool
	}{
		{name: "defaults", model: DefaultConfig().Model, want: false},
		{name: "custom", model: ModelConfig{ModelName: "openai/gpt-4o", APIKey: "sk-real", APIBase: "https://example.com/v1"}, want: true},
		{name: "custom without base", model: ModelConfig{ModelName: "openai/gpt-4o", APIKey: "sk-real"}, want: true},
		{name: "placeholder name", model: ModelConfig{ModelName: PlaceholderModelName, APIKey: "sk-real"}, want: false},
		{name: "placeholder key", model: ModelConfig{ModelName: "openai/gpt-4o", APIKey: PlaceholderAPIKey}, want: false},
		{name: "placeholder base", model: ModelConfig{ModelName: "openai/gpt-4o", APIKey: "sk-real", APIBase: PlaceholderAPIBase}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.model.IsValid(); got != tc.want {
				t.Fatalf("IsValid() = %v, want %v (problems: %v)", got, tc.want, tc.model.Problems())
			}
		})
	}
}

func TestModelConfig_ProviderAndModel(t *testing.T) {
	m := ModelConfig{ModelName: "OpenAI/gpt-4o-mini"}
	if got := m.Provider(); got != "openai" {
		t.Fatalf("Provider() = %q", got)
	}
	if got := m.Model(); got != "gpt-4o-mini" {
		t.Fatalf("Model() = %q", got)
	}

	bare := ModelConfig{ModelName: "llama3"}
	if got := bare.Provider(); got != "" {
		t.Fatalf("Provider() of bare name = %q", got)
	}
	if got := bare.Model(); got != "llama3" {
		t.Fatalf("Model() of bare name = %q", got)
	}
}

func TestErrorClasses(t *testing.T) {
	cause := errors.New("exit status 128")

	vcs := &VcsError{Args: []string{"diff", "--staged"}, Output: "fatal: not a git repository", Err: cause}
	if !errors.Is(vcs, ErrVcs) || !errors.Is(vcs, cause) {
		t.Fatalf("VcsError should match ErrVcs and its cause")
	}
	if !strings.Contains(vcs.Error(), "fatal: not a git repository") {
		t.Fatalf("VcsError should carry raw output, got %q", vcs.Error())
	}

	var wrapped error = &ConfigError{Key: "model.api_key", Reason: "placeholder"}
	if !errors.Is(wrapped, ErrConfig) || errors.Is(wrapped, ErrGeneration) {
		t.Fatalf("ConfigError class mismatch")
	}

	gen := &GenerationError{Model: "openai/gpt-4o", Reason: "empty content"}
	var target *GenerationError
	if !errors.As(error(gen), &target) || target.Reason != "empty content" {
		t.Fatalf("errors.As failed for GenerationError")
	}
	if !errors.Is(gen, ErrGeneration) {
		t.Fatalf("GenerationError should match ErrGeneration")
	}
}
