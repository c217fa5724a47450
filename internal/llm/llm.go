package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/outputparser"

	"github.com/edhuardotierrez/gcop/internal/types"
)

// Temperature is fixed so the model sticks to the instruction.
const Temperature = 0.0

var Providers = []types.ProviderTypes{
	{Title: "openai", Name: types.ProviderOpenAI, NeedsAPIKey: true},
	{Title: "anthropic", Name: types.ProviderAnthropic, NeedsAPIKey: true},
	{Title: "google", Name: types.ProviderGoogle, NeedsAPIKey: true},
	{Title: "ollama", Name: types.ProviderOllama, NeedsAPIBase: true},
}

// GetAvailableModels returns a list of suggested models for a given provider
func GetAvailableModels(provider types.ProviderName) []string {
	switch provider {
	case types.ProviderOpenAI:
		return []string{
			"gpt-4o",
			"gpt-4o-mini",
		}
	case types.ProviderAnthropic:
		return []string{
			"claude-3-5-sonnet-latest",
			"claude-3-5-haiku-latest",
		}
	case types.ProviderGoogle:
		return []string{
			"gemini-1.5-pro",
			"gemini-1.5-flash",
		}
	case types.ProviderOllama:
		return []string{
			"llama3",
			"mistral",
		}
	default:
		return []string{}
	}
}

// schema is the shape every reply must have.
var schema = outputparser.NewStructured([]outputparser.ResponseSchema{
	{Name: "thought", Description: "the reasoning behind the commit message"},
	{Name: "content", Description: "the git commit message following the guidelines"},
})

// ModelFactory builds the langchaingo model for a configuration.
type ModelFactory func(ctx context.Context, cfg types.ModelConfig) (llms.Model, error)

// Generator turns an instruction into a structured commit message.
type Generator struct {
	cfg     types.ModelConfig
	model   llms.Model
	log     logrus.FieldLogger
	factory ModelFactory
}

// Option configures a Generator.
type Option func(*Generator)

// WithModelFactory replaces the provider lookup, mostly for tests.
func WithModelFactory(f ModelFactory) Option {
	return func(g *Generator) { g.factory = f }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = l }
}

// New validates cfg and builds the backend. A placeholder configuration
// fails here, before anything reaches the network.
func New(ctx context.Context, cfg types.ModelConfig, opts ...Option) (*Generator, error) {
	g := &Generator{cfg: cfg, factory: NewModel}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		g.log = l
	}

	if problems := cfg.Problems(); len(problems) > 0 {
		return nil, &types.ConfigError{
			Key:    strings.Join(problems, ", "),
			Reason: "the model is not configured yet, run `gcop config` or `gcop set-config --key model.api_key --value <key>`",
		}
	}

	model, err := g.factory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	g.model = model
	return g, nil
}

// NewModel maps "provider/model" onto a langchaingo backend.
func NewModel(ctx context.Context, cfg types.ModelConfig) (llms.Model, error) {
	name := cfg.Model()
	if name == "" {
		return nil, &types.ConfigError{Key: "model.model_name", Reason: "model name is empty"}
	}

	var (
		model llms.Model
		err   error
	)
	switch types.ProviderName(cfg.Provider()) {
	case types.ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(name)}
		if cfg.APIBase != "" {
			opts = append(opts, openai.WithBaseURL(cfg.APIBase))
		}
		model, err = openai.New(opts...)

	case types.ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey), anthropic.WithModel(name)}
		if cfg.APIBase != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.APIBase))
		}
		model, err = anthropic.New(opts...)

	case types.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(name)}
		if cfg.APIBase != "" {
			opts = append(opts, ollama.WithServerURL(cfg.APIBase))
		}
		model, err = ollama.New(opts...)

	case types.ProviderGoogle, "gemini":
		model, err = googleai.New(ctx, googleai.WithAPIKey(cfg.APIKey), googleai.WithDefaultModel(name))

	default:
		return nil, &types.ConfigError{
			Key:    "model.model_name",
			Reason: fmt.Sprintf("unsupported provider in %q, use openai/, anthropic/, google/ or ollama/", cfg.ModelName),
		}
	}
	if err != nil {
		return nil, &types.ConfigError{Key: "model", Reason: "could not initialize the model client", Err: err}
	}
	return model, nil
}

// Generate sends instruction with the reply schema appended and returns the
// parsed message. Every failure is a *types.GenerationError.
func (g *Generator) Generate(ctx context.Context, instruction string) (types.CommitMessage, error) {
	prompt := instruction + "\n\n" + schema.GetFormatInstructions()

	g.log.WithFields(logrus.Fields{"model": g.cfg.ModelName, "prompt_bytes": len(prompt)}).Debug("requesting commit message")
	reply, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(Temperature))
	if err != nil {
		return types.CommitMessage{}, &types.GenerationError{Model: g.cfg.ModelName, Reason: "model request failed", Err: err}
	}

	msg, err := ParseReply(reply)
	if err != nil {
		g.log.WithField("reply", reply).Debug("unparseable model reply")
		return types.CommitMessage{}, &types.GenerationError{Model: g.cfg.ModelName, Reason: "reply does not match the commit message schema", Err: err}
	}
	g.log.WithField("model", g.cfg.ModelName).Debug("commit message generated")
	return msg, nil
}

// ParseReply extracts {thought, content} from a model reply. The fenced
// ```json block asked for by the format instructions is preferred; a bare
// JSON object is accepted as well.
func ParseReply(reply string) (types.CommitMessage, error) {
	var msg types.CommitMessage

	parsed, err := schema.Parse(reply)
	if err == nil {
		fields, ok := parsed.(map[string]string)
		if !ok {
			return msg, fmt.Errorf("unexpected parser result %T", parsed)
		}
		msg = types.CommitMessage{Thought: fields["thought"], Content: fields["content"]}
	} else {
		bare, bareErr := parseBareJSON(reply)
		if bareErr != nil {
			return msg, errors.Join(err, bareErr)
		}
		msg = bare
	}

	msg.Thought = strings.TrimSpace(msg.Thought)
	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Content == "" {
		return types.CommitMessage{}, errors.New("content is empty")
	}
	return msg, nil
}

func parseBareJSON(reply string) (types.CommitMessage, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || start > end {
		return types.CommitMessage{}, errors.New("reply has no JSON object")
	}

	var fields struct {
		Thought *string `json:"thought"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &fields); err != nil {
		return types.CommitMessage{}, err
	}
	if fields.Thought == nil || fields.Content == nil {
		return types.CommitMessage{}, errors.New("reply is missing thought or content")
	}
	return types.CommitMessage{Thought: *fields.Thought, Content: *fields.Content}, nil
}
