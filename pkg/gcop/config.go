package gcop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/config"
	"github.com/edhuardotierrez/gcop/internal/setup"
)

const apiKeyPath = "model.api_key"

func (a *app) newConfigCmd() *cobra.Command {
	var (
		levelName string
		wizard    bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open the config file in your editor, creating it when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := config.ParseLevel(levelName)
			if err != nil {
				return err
			}
			path, created, err := a.manager.EnsureLayer(level)
			if err != nil {
				return err
			}
			if created {
				colors.Info(a.out, "Created %s config: %s\n", level, path)
			}
			if wizard {
				return a.runWizard(level)
			}
			a.log.WithField("file", path).Debug("opening config in editor")
			return a.editor(path)
		},
	}
	cmd.Flags().StringVar(&levelName, "level", string(config.LevelUser), "Config layer to edit: user or project")
	cmd.Flags().BoolVar(&wizard, "wizard", false, "Set up the model interactively instead of opening an editor")
	return cmd
}

func (a *app) runWizard(level config.Level) error {
	current, err := a.manager.Load()
	if err != nil {
		return err
	}
	model, err := a.wizard(current.Model)
	if errors.Is(err, setup.ErrCancelled) {
		colors.Info(a.out, "\n🚫 Configuration cancelled\n")
		return nil
	}
	if err != nil {
		return err
	}
	path, err := a.manager.SetModel(level, model)
	if err != nil {
		return err
	}
	colors.Success(a.out, "\n✅ Model %s saved to %s\n", model.ModelName, path)
	return nil
}

func (a *app) newInitProjectCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init-project",
		Short: "Initialize the gcop config template in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := path
			if root == "" {
				root = a.workDir
			}
			file := config.ProjectFileIn(root)
			created, err := config.Scaffold(file)
			if err != nil {
				return err
			}
			if created {
				colors.Success(a.out, "Created project config template: %s\n", file)
			} else {
				colors.Info(a.out, "Project config already exists: %s\n", file)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Project path (defaults to the working directory)")
	return cmd
}

func (a *app) newShowConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Show each config layer and the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.manager.ReadLayer(config.LevelUser)
			if err != nil {
				return err
			}
			if err := a.printLayer("User config", a.paths.UserFile(), user); err != nil {
				return err
			}

			if a.paths.ProjectRoot == "" {
				colors.Warning(a.out, "No project config found\n\n")
			} else {
				project, err := a.manager.ReadLayer(config.LevelProject)
				if err != nil {
					return err
				}
				if err := a.printLayer("Project config", a.paths.ProjectFile(), project); err != nil {
					return err
				}
			}

			merged, err := a.manager.Load()
			if err != nil {
				return err
			}
			merged.Model.APIKey = setup.MaskSecret(merged.Model.APIKey)
			out, err := config.MarshalYAML(merged)
			if err != nil {
				return err
			}
			colors.Success(a.out, "Merged config (effective configuration):\n%s\n", out)
			return nil
		},
	}
}

func (a *app) printLayer(title, path string, layer map[string]any) error {
	if layer == nil {
		colors.Warning(a.out, "No %s found (%s)\n\n", strings.ToLower(title), path)
		return nil
	}
	maskLayer(layer)
	out, err := config.MarshalYAML(layer)
	if err != nil {
		return err
	}
	colors.Info(a.out, "%s (%s):\n", title, path)
	colors.Text(a.out, "%s\n", out)
	return nil
}

// maskLayer hides the API key of a raw layer in place.
func maskLayer(layer map[string]any) {
	model, ok := layer["model"].(map[string]any)
	if !ok {
		return
	}
	if key, ok := model["api_key"].(string); ok {
		model["api_key"] = setup.MaskSecret(key)
	}
}

func (a *app) newSetConfigCmd() *cobra.Command {
	var (
		key, value string
		project    bool
	)
	cmd := &cobra.Command{
		Use:   "set-config",
		Short: "Set a configuration value in the user or project config",
		Example: `  gcop set-config --key model.model_name --value openai/gpt-4o
  gcop set-config --key include_git_history --value true --project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := config.LevelUser
			if project {
				level = config.LevelProject
			}
			path, err := a.manager.Set(level, key, value)
			if err != nil {
				return err
			}
			shown := value
			if strings.EqualFold(strings.TrimSpace(key), apiKeyPath) {
				shown = setup.MaskSecret(value)
			}
			colors.Success(a.out, "Updated %s config: %s = %s (%s)\n", level, key, shown, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", fmt.Sprintf("Config key to set, one of: %s", strings.Join(config.Keys(), ", ")))
	cmd.Flags().StringVarP(&value, "value", "v", "", "Value to set")
	cmd.Flags().BoolVarP(&project, "project", "p", false, "Update the project config instead of the user config")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
