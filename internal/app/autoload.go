package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/conductor/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/engine/autoload"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var watchedExtensions = []string{".php", ".inc", ".hh"}

// DumpAutoloadOptions configuration for the DumpAutoload method.
type DumpAutoloadOptions struct {
	NoDev bool
	Watch bool
}

// DumpAutoload regenerates the autoload artifacts of the root and every
// member from their recorded install state. With Watch it keeps regenerating
// on source changes until ctx is done.
func (a *App) DumpAutoload(ctx context.Context, opts DumpAutoloadOptions) error {
	m, err := a.load()
	if err != nil {
		return err
	}

	dev := a.dev(m, opts.NoDev)
	if err := a.dumpAll(ctx, m, dev); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return a.watch(ctx, m, dev)
}

func (a *App) dumpAll(ctx context.Context, m *domain.Monorepo, dev bool) error {
	for _, p := range m.Packages() {
		vendorDir := p.VendorDir()
		if vendorDir == "" {
			continue
		}
		if m.AutoloadDisabled(p.Name) {
			a.logger.Debug("Skipping autoload generation for " + p.PrettyName)
			continue
		}

		in, err := a.autoloadInput(p, vendorDir, dev)
		if err != nil {
			return zerr.With(err, "package", p.PrettyName)
		}
		report, err := a.autoloader.Dump(ctx, in)
		if err != nil {
			return zerr.With(err, "package", p.PrettyName)
		}
		a.logger.Info(fmt.Sprintf("Generated autoload files for package %s containing %d classes", p.PrettyName, report.Classes))
	}
	return nil
}

// autoloadInput splits the installed packages of p into runtime and dev packages.
func (a *App) autoloadInput(p *domain.Package, vendorDir string, dev bool) (autoload.Input, error) {
	state, err := a.installed.Get(vendorDir)
	if err != nil {
		return autoload.Input{}, err
	}
	installed, err := state.InstalledPackages()
	if err != nil {
		return autoload.Input{}, zerr.With(zerr.Wrap(err, domain.ErrInstalledParseFailed.Error()), "path", domain.InstalledPath(vendorDir))
	}

	in := autoload.Input{Target: p, Dev: dev}
	for _, pkg := range installed {
		switch {
		case !state.IsDevPackage(pkg.Name):
			in.Packages = append(in.Packages, pkg)
		case dev:
			in.DevPackages = append(in.DevPackages, pkg)
		}
	}
	return in, nil
}

// watch regenerates every package once source changes settle.
func (a *App) watch(ctx context.Context, m *domain.Monorepo, dev bool) error {
	w, err := a.watchers()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	if err := w.Start(ctx, m.Root.Dir, []string{domain.VendorDirName}); err != nil {
		_ = w.Stop()
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", m.Root.Dir)
	}
	a.logger.Info("Watching for changes in " + m.Root.Dir)

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		if ctx.Err() != nil {
			return
		}
		a.logger.Debug(fmt.Sprintf("Detected changes in %d files", len(paths)))
		if err := a.regenerate(ctx, m.WorkingDir, dev); err != nil {
			a.logger.Error(err)
		}
	})

	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		for event := range w.Events() {
			if watched(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-done:
		}
		return w.Stop()
	})
	return g.Wait()
}

// regenerate reloads the manifests so autoload edits apply, then dumps.
func (a *App) regenerate(ctx context.Context, workingDir string, dev bool) error {
	m, err := a.loader.Load(workingDir)
	if err != nil {
		return err
	}
	return a.dumpAll(ctx, m, dev)
}

func watched(path string) bool {
	switch filepath.Base(path) {
	case domain.PackageFileName, domain.MonorepoFileName:
		return true
	}
	return slices.Contains(watchedExtensions, filepath.Ext(path))
}
