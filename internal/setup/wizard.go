package setup

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/config"
	"github.com/edhuardotierrez/gcop/internal/llm"
	"github.com/edhuardotierrez/gcop/internal/types"
)

// ErrCancelled is returned when the operator leaves the wizard.
var ErrCancelled = errors.New("wizard cancelled by user")

const (
	keepCurrent = "(keep current)"
	customModel = "(other model)"
)

// --- helpers: providers ---

func sortedProviderTitles() []string {
	titles := make([]string, 0, len(llm.Providers))
	for _, p := range llm.Providers {
		titles = append(titles, p.Title)
	}
	slices.Sort(titles)
	return titles
}

func providerDisplayList(current types.ModelConfig, titles []string) []string {
	active := current.Provider()
	display := make([]string, 0, len(titles))
	for _, t := range titles {
		if t == active {
			display = append(display, fmt.Sprintf("%s [current]", t))
		} else {
			display = append(display, t)
		}
	}
	return display
}

func findProviderMetaByTitle(title string) (types.ProviderTypes, bool) {
	for _, p := range llm.Providers {
		if p.Title == title {
			return p, true
		}
	}
	return types.ProviderTypes{}, false
}

// --- helpers: prompts ---

func cancelled(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return err
}

func selectIndex(label string, items []string) (int, error) {
	s := promptui.Select{Label: label, Items: items, Size: len(items)}
	idx, _, err := s.Run()
	if err != nil {
		return 0, cancelled(err)
	}
	return idx, nil
}

func chooseModelForProvider(providerTitle, current string) (string, error) {
	models := llm.GetAvailableModels(types.ProviderName(providerTitle))
	display := make([]string, 0, len(models)+2)
	if current != "" {
		display = append(display, fmt.Sprintf("%s %s", keepCurrent, current))
	}
	display = append(display, models...)
	display = append(display, customModel)

	s := promptui.Select{Label: "Select model", Items: display, Size: len(display)}
	_, choice, err := s.Run()
	if err != nil {
		return "", cancelled(err)
	}
	switch {
	case strings.HasPrefix(choice, keepCurrent):
		return current, nil
	case choice == customModel:
		p := promptui.Prompt{Label: "Model name", Validate: notEmpty("model name")}
		name, err := p.Run()
		if err != nil {
			return "", cancelled(err)
		}
		return strings.TrimSpace(name), nil
	default:
		return choice, nil
	}
}

func notEmpty(what string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

// usable returns v unless it is empty or a placeholder.
func usable(v, placeholder string) string {
	if v == placeholder {
		return ""
	}
	return v
}

// --- helpers: editor ---

func resolveEditorCommand() (string, []string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	candidates := []string{}
	if editor != "" {
		candidates = append(candidates, editor)
	}
	candidates = append(candidates, "nvim", "vim", "vi", "nano")
	for _, c := range candidates {
		parts := strings.Fields(c)
		if len(parts) == 0 {
			continue
		}
		if _, err := exec.LookPath(parts[0]); err == nil {
			return parts[0], parts[1:], nil
		}
	}
	return "", nil, fmt.Errorf("no editor found; set $VISUAL or $EDITOR, or install vim/nano")
}

// EditConfigInEditor opens configPath in $VISUAL, $EDITOR or a common editor.
func EditConfigInEditor(configPath string) error {
	cmdName, args, err := resolveEditorCommand()
	if err != nil {
		return err
	}
	cmd := exec.Command(cmdName, append(args, configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ModelWizard asks for provider, credentials and model, starting from
// current. Nothing is written; the caller persists the result.
func ModelWizard(current types.ModelConfig) (types.ModelConfig, error) {
	colors.SuccessOutput("\n🎉 Welcome to the gcop model setup! 🎉\n")
	colors.InfoOutput("This wizard will help you choose the model used for commit messages.\n\n")

	titles := sortedProviderTitles()
	idx, err := selectIndex("Select your preferred LLM provider", providerDisplayList(current, titles))
	if err != nil {
		return current, err
	}
	provider := titles[idx]
	meta, _ := findProviderMetaByTitle(provider)

	next := types.ModelConfig{}
	currentModel := ""
	if current.Provider() == provider {
		currentModel = current.Model()
		next.APIKey = usable(current.APIKey, types.PlaceholderAPIKey)
		next.APIBase = usable(current.APIBase, types.PlaceholderAPIBase)
	}

	if meta.NeedsAPIKey {
		label := fmt.Sprintf("Enter your %s API key", provider)
		if next.APIKey != "" {
			label += " (blank to keep)"
		}
		p := promptui.Prompt{Label: label, Mask: '*'}
		key, err := p.Run()
		if err != nil {
			return current, cancelled(err)
		}
		if key = strings.TrimSpace(key); key != "" {
			next.APIKey = key
		}
		if next.APIKey == "" {
			return current, &types.ConfigError{Key: "model.api_key", Reason: "API key cannot be empty"}
		}
	}

	baseLabel := fmt.Sprintf("%s API base URL (blank for the provider default)", provider)
	if meta.NeedsAPIBase {
		baseLabel = fmt.Sprintf("Enter %s server URL", provider)
	}
	p := promptui.Prompt{Label: baseLabel, Default: next.APIBase, AllowEdit: true}
	if meta.NeedsAPIBase {
		p.Validate = notEmpty("URL")
	}
	base, err := p.Run()
	if err != nil {
		return current, cancelled(err)
	}
	next.APIBase = strings.TrimSpace(base)

	model, err := chooseModelForProvider(provider, currentModel)
	if err != nil {
		return current, err
	}
	next.ModelName = provider + "/" + model

	preview, err := config.MarshalYAML(struct {
		Model types.ModelConfig `yaml:"model"`
	}{Model: maskedModel(next)})
	if err != nil {
		return current, err
	}
	colors.DescOutput("\nConfiguration Preview:\n")
	colors.TextOutput("%s\n", preview)

	confirm := promptui.Prompt{Label: "Would you like to save this configuration", IsConfirm: true}
	if _, err := confirm.Run(); err != nil {
		return current, ErrCancelled
	}
	return next, nil
}

func maskedModel(m types.ModelConfig) types.ModelConfig {
	m.APIKey = MaskSecret(m.APIKey)
	return m
}

// MaskSecret keeps the first and last characters of long secrets only.
func MaskSecret(s string) string {
	if s == "" || s == types.PlaceholderAPIKey {
		return s
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:3] + strings.Repeat("*", len(s)-6) + s[len(s)-3:]
}
