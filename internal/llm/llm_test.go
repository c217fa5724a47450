package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/edhuardotierrez/gcop/internal/env"
	"github.com/edhuardotierrez/gcop/internal/types"
)

// fakeModel records the prompt and options it receives and replies with a
// canned answer.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
	options llms.CallOptions
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, opt := range options {
		opt(&f.options)
	}
	var b strings.Builder
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				b.WriteString(text.Text)
			}
		}
	}
	f.prompts = append(f.prompts, b.String())
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

var validModel = types.ModelConfig{ModelName: "openai/gpt-4o-mini", APIKey: "sk-test"}

func newFakeGenerator(t *testing.T, fake *fakeModel) *Generator {
	t.Helper()
	g, err := New(context.Background(), validModel, WithModelFactory(func(context.Context, types.ModelConfig) (llms.Model, error) {
		return fake, nil
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

// TestGetAvailableModels_Sanity ensures each provider reports at least one model we can try.
func TestGetAvailableModels_Sanity(t *testing.T) {
	for _, p := range Providers {
		if models := GetAvailableModels(p.Name); len(models) == 0 {
			t.Fatalf("provider %s returned no models", p.Name)
		}
	}
}

func TestNew_PlaceholderConfigFailsFast(t *testing.T) {
	called := false
	factory := func(context.Context, types.ModelConfig) (llms.Model, error) {
		called = true
		return &fakeModel{}, nil
	}

	_, err := New(context.Background(), types.DefaultConfig().Model, WithModelFactory(factory))
	if !errors.Is(err, types.ErrConfig) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "gcop config") {
		t.Fatalf("error should point to configuration setup, got %q", err.Error())
	}
	if called {
		t.Fatalf("backend must not be built for a placeholder config")
	}
}

func TestNewModel_UnknownProvider(t *testing.T) {
	_, err := NewModel(context.Background(), types.ModelConfig{ModelName: "acme/model-1", APIKey: "k"})
	if !errors.Is(err, types.ErrConfig) {
		t.Fatalf("expected ConfigError, got %v", err)
	}

	_, err = NewModel(context.Background(), types.ModelConfig{ModelName: "gpt-4o", APIKey: "k"})
	if !errors.Is(err, types.ErrConfig) {
		t.Fatalf("name without provider should be a ConfigError, got %v", err)
	}
}

func TestNewModel_KnownProviders(t *testing.T) {
	cases := []types.ModelConfig{
		{ModelName: "openai/gpt-4o", APIKey: "sk-test", APIBase: "https://example.invalid/v1"},
		{ModelName: "anthropic/claude-3-5-haiku-latest", APIKey: "sk-ant-test"},
		{ModelName: "ollama/llama3", APIKey: "unused", APIBase: "http://localhost:11434"},
	}
	for _, cfg := range cases {
		model, err := NewModel(context.Background(), cfg)
		if err != nil {
			t.Fatalf("NewModel(%s) failed: %v", cfg.ModelName, err)
		}
		if model == nil {
			t.Fatalf("NewModel(%s) returned nil model", cfg.ModelName)
		}
	}
}

func TestGenerate_FencedReply(t *testing.T) {
	fake := &fakeModel{reply: "Here you go:\n```json\n{\"thought\": \"adds greeting\", \"content\": \"feat: add greeting\\n\\nPrint hello on start.\"}\n```"}
	fake.options.Temperature = -1
	g := newFakeGenerator(t, fake)

	msg, err := g.Generate(context.Background(), "INSTRUCTION")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if msg.Thought != "adds greeting" || msg.Content != "feat: add greeting\n\nPrint hello on start." {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(fake.prompts) != 1 {
		t.Fatalf("expected exactly one backend call, got %d", len(fake.prompts))
	}
	if !strings.HasPrefix(fake.prompts[0], "INSTRUCTION") || !strings.Contains(fake.prompts[0], "\"content\"") {
		t.Fatalf("prompt should carry instruction and schema, got %q", fake.prompts[0])
	}
	if fake.options.Temperature != 0 {
		t.Fatalf("temperature = %v, want 0", fake.options.Temperature)
	}
}

func TestGenerate_BareJSONReply(t *testing.T) {
	fake := &fakeModel{reply: `{"thought": "t", "content": "fix: guard nil config"}`}
	g := newFakeGenerator(t, fake)

	msg, err := g.Generate(context.Background(), "x")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if msg.Content != "fix: guard nil config" {
		t.Fatalf("unexpected content %q", msg.Content)
	}
}

func TestGenerate_Failures(t *testing.T) {
	cases := []struct {
		name string
		fake *fakeModel
	}{
		{name: "backend down", fake: &fakeModel{err: errors.New("connection refused")}},
		{name: "free text", fake: &fakeModel{reply: "feat: add greeting"}},
		{name: "missing content", fake: &fakeModel{reply: "```json\n{\"thought\": \"t\"}\n```"}},
		{name: "empty content", fake: &fakeModel{reply: `{"thought": "t", "content": "  "}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newFakeGenerator(t, tc.fake)
			_, err := g.Generate(context.Background(), "x")
			if !errors.Is(err, types.ErrGeneration) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
		})
	}
}

// TestGenerate_Live runs against a real provider when GCOP_TEST_MODEL and
// GCOP_TEST_API_KEY are set (a .env file in this directory is honored).
func TestGenerate_Live(t *testing.T) {
	env.LoadFile()
	cfg := types.ModelConfig{
		ModelName: env.GetString("GCOP_TEST_MODEL"),
		APIKey:    env.GetString("GCOP_TEST_API_KEY"),
		APIBase:   env.GetString("GCOP_TEST_API_BASE"),
	}
	if cfg.ModelName == "" || cfg.APIKey == "" {
		t.Skip("skipping live generation: GCOP_TEST_MODEL or GCOP_TEST_API_KEY not set")
	}

	g, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	msg, err := g.Generate(context.Background(), "Write a commit message for:\ndiff --git a/file.txt b/file.txt\n+hello world\n")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	t.Logf("[model=%s] thought: %s\ncontent: %s", cfg.ModelName, msg.Thought, msg.Content)
}
