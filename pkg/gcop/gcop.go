// Package gcop wires the gcop command line: configuration, the commit
// workflow and the git helper commands.
package gcop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edhuardotierrez/gcop/internal/colors"
	"github.com/edhuardotierrez/gcop/internal/config"
	"github.com/edhuardotierrez/gcop/internal/env"
	"github.com/edhuardotierrez/gcop/internal/git"
	"github.com/edhuardotierrez/gcop/internal/llm"
	"github.com/edhuardotierrez/gcop/internal/logger"
	"github.com/edhuardotierrez/gcop/internal/refine"
	"github.com/edhuardotierrez/gcop/internal/setup"
	"github.com/edhuardotierrez/gcop/internal/types"
	"github.com/edhuardotierrez/gcop/internal/ui"
	"github.com/edhuardotierrez/gcop/internal/update"
)

var (
	version = "dev" // This will be overridden during build
)

// EnvNoUpdateCheck disables the release check like --no-update-check.
const EnvNoUpdateCheck = "GCOP_NO_UPDATE_CHECK"

// exitError carries a process exit status through cobra.
type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// repository is what the commands need from git.
type repository interface {
	git.Repository
	UnstagedFiles(ctx context.Context) ([]git.FileStatus, error)
	Info(ctx context.Context) (git.RepoInfo, error)
	SetGlobalAlias(ctx context.Context, name, value string) error
}

type generatorFactory func(ctx context.Context, cfg types.ModelConfig, log logrus.FieldLogger) (refine.Generator, error)

// app holds the per-process state shared by the commands.
type app struct {
	out    io.Writer
	errOut io.Writer

	workDir       string
	verbose       bool
	noUpdateCheck bool
	interactive   bool

	log     *logger.Logger
	paths   config.Paths
	manager *config.Manager

	newRepo      func(dir string) repository
	newGenerator generatorFactory
	prompter     refine.Prompter
	editor       func(path string) error
	wizard       func(current types.ModelConfig) (types.ModelConfig, error)
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:         out,
		errOut:      errOut,
		interactive: true,
		newRepo: func(dir string) repository {
			g := git.New(dir)
			g.Output = out
			return g
		},
		newGenerator: defaultGenerator,
		prompter:     ui.Prompter{},
		editor:       setup.EditConfigInEditor,
		wizard:       setup.ModelWizard,
	}
}

func defaultGenerator(ctx context.Context, cfg types.ModelConfig, log logrus.FieldLogger) (refine.Generator, error) {
	g, err := llm.New(ctx, cfg, llm.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Run executes the command line in os.Args and returns the exit status.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runCLI(ctx, os.Args[1:], newApp(os.Stdout, os.Stderr))
}

func runCLI(ctx context.Context, args []string, a *app) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	defer a.close()
	if err == nil {
		return 0
	}

	code := exitCode(err)
	var exit exitError
	if !errors.As(err, &exit) && !errors.Is(err, context.Canceled) {
		if a.log != nil {
			a.log.WithError(err).Error("command failed")
		}
		colors.Error(a.errOut, "❌ %v\n", err)
	}
	return code
}

// exitCode maps an error to the process status: git failures keep git's
// status, interrupts are 130, everything else is 1.
func exitCode(err error) int {
	var exit exitError
	if errors.As(err, &exit) {
		return int(exit)
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	var vcsErr *types.VcsError
	if errors.As(err, &vcsErr) {
		var execErr *exec.ExitError
		if errors.As(vcsErr.Err, &execErr) && execErr.ExitCode() > 0 {
			return execErr.ExitCode()
		}
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "gcop",
		Short:             "gcop is your local git command copilot",
		Long:              "gcop drafts commit messages for your staged changes with a language model and lets you refine them before committing.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate("gcop version {{.Version}}\n")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Show debug logs on stderr")
	root.PersistentFlags().BoolVar(&a.noUpdateCheck, "no-update-check", false, "Skip the daily check for a newer release")

	root.AddCommand(
		a.newCommitCmd(),
		a.newConfigCmd(),
		a.newInitCmd(),
		a.newInitProjectCmd(),
		a.newShowConfigCmd(),
		a.newSetConfigCmd(),
		a.newInfoCmd(),
	)
	root.SetHelpCommand(a.newHelpCmd())
	return root
}

// setup runs before every command: .env, config paths, logging and the
// release check.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory: %w", err)
		}
		a.workDir = wd
	}
	loaded := env.LoadFile(filepath.Join(a.workDir, ".env"))

	paths, err := config.DefaultPaths(a.workDir)
	if err != nil {
		return &types.ConfigError{Reason: "could not locate the config directory", Err: err}
	}
	a.paths = paths
	a.log = logger.New(logger.Options{Dir: filepath.Join(paths.UserDir, "logs"), Verbose: a.verbose})
	a.log.WithFields(logrus.Fields{
		"command":   cmd.CommandPath(),
		"version":   version,
		"env_files": loaded,
		"user_dir":  paths.UserDir,
		"project":   paths.ProjectRoot,
	}).Debug("starting")
	a.manager = config.NewManager(paths, a.log)

	if !a.noUpdateCheck && os.Getenv(EnvNoUpdateCheck) == "" {
		checker := update.NewChecker(paths.UserDir, version, a.log)
		if latest := checker.Check(cmd.Context()); latest != "" {
			colors.Warning(a.errOut, "A new version of gcop is available: %s (current: %s)\n\n", latest, version)
		}
	}
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

// console builds the commit workflow renderer.
func (a *app) console(model string) *ui.Console {
	c := &ui.Console{Out: a.out, Model: model, Log: a.log}
	if a.interactive {
		c.Spinner = ui.NewSpinner(a.errOut)
	}
	return c
}

func (a *app) openRepository(ctx context.Context) (repository, error) {
	repo := a.newRepo(a.workDir)
	if !repo.IsRepository(ctx) {
		return nil, &types.VcsError{Args: []string{"rev-parse"}, Err: errors.New("not a git repository")}
	}
	return repo, nil
}
