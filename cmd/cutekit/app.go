// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/internal/config"
	"github.com/cute-engineering/cutekit/internal/logging"
	"github.com/cute-engineering/cutekit/internal/plugin"
	"github.com/cute-engineering/cutekit/internal/project"
	"github.com/cute-engineering/cutekit/internal/template"
	"github.com/cute-engineering/cutekit/internal/toolchain"
	"github.com/cute-engineering/cutekit/pkg/args"
	"github.com/cute-engineering/cutekit/pkg/extern"
)

type (
	// App is the composition root of the CLI. It owns the command registry
	// and hands every handler its configuration, logger and collaborators.
	App struct {
		version   string
		deps      Dependencies
		registry  *command.Registry
		cfg       *config.Config
		logger    *log.Logger
		verbose   bool
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
		mdStyle   string
		logPath   string
		closeLogs func() error
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		// Builder creates the build collaborator for a project.
		Builder func(env BuildEnv) toolchain.Builder
		// Cloner creates the extern cloner for a git backend.
		Cloner func(backend config.GitBackend, env BuildEnv) extern.Cloner
		// Templates creates the template registry for a repository.
		Templates func(repo string, cloner extern.Cloner, logger *log.Logger) *template.Registry

		// WorkDir is where the project lookup starts. Empty means the
		// process working directory, which is then changed to the project
		// root.
		WorkDir string
		// DisableLogFile keeps the log in memory instead of a file.
		DisableLogFile bool
		// MarkdownStyle is the glamour style of issue guidance.
		MarkdownStyle string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// BuildEnv is what the collaborator factories get to know about the
	// invocation.
	BuildEnv struct {
		Config  *config.Config
		Root    string
		Verbose bool
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		Logger  *log.Logger
	}
)

// Description is shown by the help command.
const Description = "A build system and package manager for low-level software development."

// NewApp creates an App for version.
func NewApp(version string, deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Builder == nil {
		deps.Builder = defaultBuilder
	}
	if deps.Cloner == nil {
		deps.Cloner = defaultCloner
	}
	if deps.Templates == nil {
		deps.Templates = defaultTemplates
	}
	if deps.MarkdownStyle == "" {
		deps.MarkdownStyle = "dark"
	}

	a := &App{
		version: version,
		deps:    deps,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		mdStyle: deps.MarkdownStyle,
		logger:  logging.Discard(),
		cfg:     config.DefaultConfig(),
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	return a
}

// Main runs one invocation: it consumes the global options, loads the
// configuration, opens the log, registers plugins and dispatches the
// command named by argv.
func (a *App) Main(ctx context.Context, argv []string) error {
	cur := args.Parse(argv)

	a.verbose = cur.ConsumeBool("verbose", false)
	safemode := cur.ConsumeBool("safemode", false)
	cfgPath, err := stringOpt(cur, "cutekit", "config", "")
	if err != nil {
		return err
	}

	cfg, err := a.deps.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgPath})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.verbose = a.verbose || cfg.UI.Verbose

	root := a.findProject()
	a.openLog(root)
	defer a.closeLog()
	a.logger.Debug("starting", "version", a.version, "args", argv, "project", root)

	reg, err := command.NewRegistry(a.builtins()...)
	if err != nil {
		return err
	}
	a.registry = reg

	if root != "" && !safemode && cfg.Plugins.Enabled {
		loader := &plugin.Loader{
			Root:    root,
			Version: a.version,
			Logger:  a.logger,
			Stdin:   a.stdin,
			Stdout:  a.stdout,
			Stderr:  a.stderr,
		}
		if err := loader.Register(ctx, reg); err != nil {
			return err
		}
	}

	err = reg.Dispatch(ctx, cur)
	if rest := cur.Unconsumed(); len(rest) > 0 {
		a.logger.Debug("unused options", "options", rest)
	}
	if err != nil {
		a.logger.Error("command failed", "err", err)
	}
	return err
}

// Registry returns the registry of the last Main call.
func (a *App) Registry() *command.Registry { return a.registry }

// findProject returns the project root above the working directory, or ""
// outside of a project.
func (a *App) findProject() string {
	dir := a.deps.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	root, err := project.Root(dir)
	if err != nil {
		return ""
	}
	return root
}

// enterProject locates the project root for commands that need one. With
// the process working directory it also changes into the root.
func (a *App) enterProject() (string, error) {
	if a.deps.WorkDir == "" {
		return project.Chdir()
	}
	return project.Root(a.deps.WorkDir)
}

func (a *App) openLog(root string) {
	if a.deps.DisableLogFile {
		if a.verbose {
			a.logger = logging.New(a.stderr, true)
		}
		return
	}
	l, err := logging.Open(logging.Options{ProjectRoot: root, Verbose: a.verbose, Stderr: a.stderr})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning:")+" "+err.Error())
		return
	}
	a.logger = l.Logger
	a.logPath = l.Path
	a.closeLogs = l.Close
}

// releaseLog moves logging out of dir, which is about to be removed. The
// rest of the run appends to the global log, or is dropped when that lives
// in dir too.
func (a *App) releaseLog(dir string) {
	if !within(dir, a.logPath) {
		return
	}
	a.closeLog()
	a.logPath = ""
	a.logger = logging.Discard()

	l, err := logging.Open(logging.Options{Verbose: a.verbose, Stderr: a.stderr, Append: true})
	if err != nil {
		return
	}
	if within(dir, l.Path) {
		_ = l.Close()
		return
	}
	a.logger = l.Logger
	a.logPath = l.Path
	a.closeLogs = l.Close
}

// within reports whether path is dir or below it.
func within(dir, path string) bool {
	if dir == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}

func (a *App) closeLog() {
	if a.closeLogs != nil {
		_ = a.closeLogs()
		a.closeLogs = nil
		a.logPath = ""
	}
}

func (a *App) env(root string) BuildEnv {
	return BuildEnv{
		Config:  a.cfg,
		Root:    root,
		Verbose: a.verbose,
		Stdin:   a.stdin,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Logger:  a.logger,
	}
}

// target returns --target, falling back to the configured default target
// and then to the host target.
func (a *App) target(cur *args.Cursor, cmd string) (string, error) {
	def := a.cfg.DefaultTarget
	if def == "" {
		def = project.DefaultTarget()
	}
	return stringOpt(cur, cmd, "target", def)
}

// stringOpt consumes a string option. A bare --name carries no value and is
// reported as a missing argument.
func stringOpt(cur *args.Cursor, cmd, name, def string) (string, error) {
	v, ok := cur.TryConsumeOpt(name)
	if !ok {
		return def, nil
	}
	if v.IsBool() {
		return "", command.NewMissingArgument(cmd, "value of --"+name)
	}
	return v.String(), nil
}

func defaultBuilder(env BuildEnv) toolchain.Builder {
	return &toolchain.Exec{
		Command: env.Config.Toolchain.Command,
		Dir:     env.Root,
		Verbose: env.Verbose,
		Stdin:   env.Stdin,
		Stdout:  env.Stdout,
		Stderr:  env.Stderr,
		Logger:  env.Logger,
	}
}

func defaultCloner(backend config.GitBackend, env BuildEnv) extern.Cloner {
	if backend == config.GitBackendExec {
		var stderr io.Writer
		if env.Verbose {
			stderr = env.Stderr
		}
		return extern.ExecCloner{Stderr: stderr}
	}
	c := extern.NewGitCloner()
	if env.Verbose {
		c.Progress = env.Stderr
	}
	return c
}

func defaultTemplates(repo string, cloner extern.Cloner, logger *log.Logger) *template.Registry {
	return &template.Registry{
		Repo:   repo,
		Client: http.DefaultClient,
		Cloner: cloner,
		Logger: logger,
	}
}

// exitCode maps an error to the process exit status: the status of a failed
// builder or plugin script, 2 for usage errors and 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) && coded.ExitCode() > 0 {
		return coded.ExitCode()
	}
	if isUsage(err) {
		return 2
	}
	return 1
}
