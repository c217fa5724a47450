package gcop

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/config"
)

type gitAlias struct {
	name    string
	command string
	help    string
}

// gitAliases are installed globally by `gcop init`.
var gitAliases = []gitAlias{
	{name: "p", command: "push", help: "Push the changes to the remote repository"},
	{name: "pf", command: "push --force", help: "Push the changes to the remote repository with force"},
	{name: "undo", command: "reset --soft HEAD^", help: "Undo the last commit but keep the file changes"},
	{name: "gcommit", command: "!gcop commit", help: "Generate a commit message for the staged changes and commit them"},
	{name: "c", command: "!gcop commit", help: "The same as `git gcommit`"},
	{name: "ac", command: "!git add . && gcop commit", help: "The same as `git add . && git gcommit`"},
	{name: "acp", command: "!git add . && gcop commit && git push", help: "The same as `git add . && git gcommit && git push`"},
	{name: "cp", command: "!gcop commit && git push", help: "The same as `git gcommit && git push`"},
	{name: "info", command: "!gcop info", help: "Display basic information about the current git repository"},
	{name: "gconfig", command: "!gcop config", help: "Open the config file in the default editor"},
	{name: "ghelp", command: "!gcop help", help: "Show this help message"},
	{name: "amend", command: "commit --amend", help: "Amend the last commit message or add changes to it"},
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the user config and install the gcop git aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a.migrateLegacyConfig()

			path, created, err := a.manager.EnsureLayer(config.LevelUser)
			if err != nil {
				return err
			}
			if created {
				colors.Info(a.out, "Created user config: %s\n", path)
			}

			repo := a.newRepo(a.workDir)
			for _, alias := range gitAliases {
				if err := repo.SetGlobalAlias(ctx, alias.name, alias.command); err != nil {
					return fmt.Errorf("error adding git alias %s: %w", alias.name, err)
				}
				a.log.WithField("alias", alias.name).Debug("git alias installed")
			}
			colors.Success(a.out, "git aliases added successfully\n")

			if _, err := a.manager.Load(); err != nil {
				return err
			}
			colors.Success(a.out, "gcop initialized successfully\n")
			return nil
		},
	}
}

// migrateLegacyConfig moves ~/.gcop/config.yaml into the user config dir.
// Failures are reported but do not stop init.
func (a *app) migrateLegacyConfig() {
	legacy, err := config.LegacyUserFile()
	if err != nil {
		a.log.WithError(err).Debug("skipping legacy config migration")
		return
	}
	result, err := config.MigrateLegacy(legacy, a.paths.UserFile())
	if err != nil {
		a.log.WithError(err).Warn("legacy config migration failed")
		colors.Warning(a.out, "Could not migrate %s: %v\n", legacy, err)
		return
	}
	if result.Copied {
		colors.Info(a.out, "Config migrated from %s to %s\n", legacy, a.paths.UserFile())
	}
	if result.BackupPath != "" {
		colors.Info(a.out, "Old config backup created at %s\n", result.BackupPath)
	}
}

func (a *app) newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for gcop and its git aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil {
					return err
				}
				return target.Help()
			}
			fmt.Fprint(a.out, helpText(cmd.Root()))
			return nil
		},
	}
}

func helpText(root *cobra.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\ngcop is your local git command copilot\nVersion: %s\n\n", version)
	b.WriteString("Usage: gcop [OPTIONS] COMMAND\n\nGit aliases (installed by `gcop init`):\n")
	for _, alias := range gitAliases {
		fmt.Fprintf(&b, "  git %-10s %s\n", alias.name, alias.help)
	}
	b.WriteString("\nCommands:\n")
	for _, c := range root.Commands() {
		if !c.IsAvailableCommand() {
			continue
		}
		fmt.Fprintf(&b, "  gcop %-13s %s\n", c.Name(), c.Short)
	}
	b.WriteString("\nRun `gcop help <command>` for the flags of a command.\n")
	return b.String()
}
