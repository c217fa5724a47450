package types

import "strings"

// Placeholder values written by `gcop init` and `gcop init-project`. A model
// section still carrying any of them has never been configured.
const (
	PlaceholderModelName = "provider/name,eg openai/gpt-4o"
	PlaceholderAPIKey    = "eg:sk-xxx"
	PlaceholderAPIBase   = "eg:https://api.openai.com/v1"
)

// Default values for configuration
const (
	DefaultHistoryLearningLimit = 10
)

// ModelConfig holds the configuration for the language model backend
type ModelConfig struct {
	ModelName string `yaml:"model_name" mapstructure:"model_name"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	APIBase   string `yaml:"api_base,omitempty" mapstructure:"api_base"`
}

// Config holds the application configuration
type Config struct {
	Model                 ModelConfig `yaml:"model" mapstructure:"model"`
	CommitTemplate        string      `yaml:"commit_template" mapstructure:"commit_template"`
	IncludeGitHistory     bool        `yaml:"include_git_history" mapstructure:"include_git_history"`
	HistoryLearningLimit  int         `yaml:"history_learning_limit" mapstructure:"history_learning_limit"`
	EnableDataImprovement bool        `yaml:"enable_data_improvement" mapstructure:"enable_data_improvement"`
}

// DefaultConfig returns the configuration used when no layer sets a value.
func DefaultConfig() Config {
	return Config{
		Model: ModelConfig{
			ModelName: PlaceholderModelName,
			APIKey:    PlaceholderAPIKey,
			APIBase:   PlaceholderAPIBase,
		},
		HistoryLearningLimit: DefaultHistoryLearningLimit,
	}
}

// Problems lists the fields that still carry their placeholder value.
func (m ModelConfig) Problems() []string {
	var problems []string
	if m.ModelName == PlaceholderModelName {
		problems = append(problems, "model.model_name")
	}
	if m.APIKey == PlaceholderAPIKey {
		problems = append(problems, "model.api_key")
	}
	if m.APIBase == PlaceholderAPIBase {
		problems = append(problems, "model.api_base")
	}
	return problems
}

// IsValid reports whether no field equals its placeholder value.
func (m ModelConfig) IsValid() bool {
	return len(m.Problems()) == 0
}

// Provider returns the provider part of a "provider/model" name, lowercased.
// A name without a slash has no provider.
func (m ModelConfig) Provider() string {
	provider, _, found := strings.Cut(m.ModelName, "/")
	if !found {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(provider))
}

// Model returns the model part of a "provider/model" name.
func (m ModelConfig) Model() string {
	_, model, found := strings.Cut(m.ModelName, "/")
	if !found {
		return strings.TrimSpace(m.ModelName)
	}
	return strings.TrimSpace(model)
}

// ProviderName represents the name of an LLM provider
type ProviderName string

// Provider constants
const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOllama    ProviderName = "ollama"
	ProviderGoogle    ProviderName = "google"
)

// ProviderTypes describes a provider offered by the setup wizard
type ProviderTypes struct {
	Title        string
	Name         ProviderName
	NeedsAPIKey  bool
	NeedsAPIBase bool
}
