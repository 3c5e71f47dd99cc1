// Package app implements the application layer for conductor.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/conductor/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/engine/autoload"
	"go.trai.ch/conductor/internal/engine/reconcile"
	"go.trai.ch/conductor/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// Resolver runs the solves of a monorepo.
type Resolver interface {
	Solve(ctx context.Context, m *domain.Monorepo, lock *domain.Lockfile, opts resolve.Options) (*resolve.Result, error)
}

// LockWriter records a solve in the manifests and the lockfile.
type LockWriter interface {
	Write(
		ctx context.Context,
		m *domain.Monorepo,
		previous *domain.Lockfile,
		res *resolve.Result,
		opts resolve.Options,
	) (*domain.Monorepo, *resolve.Result, error)
}

// Reconciler brings the vendor directories in line with a solve.
type Reconciler interface {
	Reconcile(ctx context.Context, m *domain.Monorepo, sets map[string]resolve.InstallSet, opts reconcile.Options) error
}

// Autoloader regenerates the autoload artifacts of one package.
type Autoloader interface {
	Dump(ctx context.Context, in autoload.Input) (*autoload.Report, error)
}

// outputConfigurer is implemented by loggers whose format can be switched.
type outputConfigurer interface {
	SetJSON(enable bool)
	SetPlain(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	loader     ports.MonorepoLoader
	locks      ports.LockStore
	installed  ports.InstalledStore
	manifests  ports.ManifestWriter
	resolver   Resolver
	lockWriter LockWriter
	reconciler Reconciler
	autoloader Autoloader
	renderer   ports.GraphRenderer
	watchers   watcher.Factory
	logger     ports.Logger

	workingDir string
	output     string
}

// New creates a new App instance.
func New(
	loader ports.MonorepoLoader,
	locks ports.LockStore,
	installed ports.InstalledStore,
	manifests ports.ManifestWriter,
	resolver Resolver,
	lockWriter LockWriter,
	reconciler Reconciler,
	autoloader Autoloader,
	renderer ports.GraphRenderer,
	watchers watcher.Factory,
	log ports.Logger,
) *App {
	return &App{
		loader:     loader,
		locks:      locks,
		installed:  installed,
		manifests:  manifests,
		resolver:   resolver,
		lockWriter: lockWriter,
		reconciler: reconciler,
		autoloader: autoloader,
		renderer:   renderer,
		watchers:   watchers,
		logger:     log,
	}
}

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	// Output is one of auto, pretty, plain or json.
	Output     string
	Verbose    bool
	Profile    bool
	WorkingDir string
}

// Configure applies the global flags. The returned function flushes the
// profiler and must be called before exiting.
func (a *App) Configure(opts GlobalOptions) (func(context.Context) error, error) {
	if opts.WorkingDir != "" {
		dir, err := filepath.Abs(opts.WorkingDir)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid working directory"), "path", opts.WorkingDir)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, zerr.With(zerr.New("working directory does not exist"), "path", dir)
		}
		a.workingDir = dir
	}

	a.output = opts.Output
	a.applyOutput(opts.Output)
	if lc, ok := a.logger.(outputConfigurer); ok {
		lc.SetVerbose(opts.Verbose)
	}

	return telemetry.Setup(a.logger, opts.Profile), nil
}

func (a *App) applyOutput(output string) {
	lc, ok := a.logger.(outputConfigurer)
	if !ok {
		return
	}
	mode := detector.ResolveMode(detector.DetectEnvironment(), output)
	lc.SetJSON(mode == detector.ModeJSON)
	lc.SetPlain(mode == detector.ModePlain)
}

func (a *App) dir() (string, error) {
	if a.workingDir != "" {
		return a.workingDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return wd, nil
}

// load reads the monorepo around the working directory. The output setting
// of conductor.yaml applies unless --output was given.
func (a *App) load() (*domain.Monorepo, error) {
	wd, err := a.dir()
	if err != nil {
		return nil, err
	}
	m, err := a.loader.Load(wd)
	if err != nil {
		return nil, err
	}
	if (a.output == "" || a.output == "auto") && m.Settings.Output != "" {
		a.applyOutput(m.Settings.Output)
	}
	return m, nil
}
