// Package reconcile brings every package's vendor directory in line with its
// share of the locked dependency set.
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/engine/autoload"
	"go.trai.ch/conductor/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// Autoloader regenerates the autoload artifacts of one package.
type Autoloader interface {
	Dump(ctx context.Context, in autoload.Input) (*autoload.Report, error)
}

// Options control a reconcile pass.
type Options struct {
	Dev          bool
	NoAutoloader bool
}

// Reconciler installs, updates and removes packages in each vendor directory.
type Reconciler struct {
	installer  ports.InstallationManager
	installed  ports.InstalledStore
	autoloader Autoloader
	logger     ports.Logger
	tracer     ports.Tracer
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	installer ports.InstallationManager,
	installed ports.InstalledStore,
	autoloader Autoloader,
	logger ports.Logger,
	tracer ports.Tracer,
) *Reconciler {
	return &Reconciler{
		installer:  installer,
		installed:  installed,
		autoloader: autoloader,
		logger:     logger,
		tracer:     tracer,
	}
}

// Reconcile applies sets to the root and every member of m in turn.
func (r *Reconciler) Reconcile(ctx context.Context, m *domain.Monorepo, sets map[string]resolve.InstallSet, opts Options) error {
	ctx, span := r.tracer.Start(ctx, "Installing dependencies")
	defer span.End()

	if opts.Dev {
		r.logger.Info("Installing dependencies from lock file (including require-dev)")
	} else {
		r.logger.Info("Installing dependencies from lock file")
	}

	for _, p := range m.Packages() {
		if err := r.reconcile(ctx, m, p, sets[p.Name], opts); err != nil {
			span.RecordError(err)
			return zerr.With(err, "package", p.PrettyName)
		}
	}
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, m *domain.Monorepo, p *domain.Package, set resolve.InstallSet, opts Options) error {
	vendorDir := p.VendorDir()
	if vendorDir == "" {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "Installing "+p.PrettyName)
	defer span.End()
	r.logger.Debug("Reconciling " + p.PrettyName)

	packages := hydrate(m, set.Packages)
	var devPackages []*domain.Package
	if opts.Dev {
		devPackages = hydrate(m, set.Dev)
	}
	desired := append(append([]*domain.Package{}, packages...), devPackages...)

	state, err := r.installed.Get(vendorDir)
	if err != nil {
		return err
	}
	present, err := state.InstalledPackages()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstalledParseFailed.Error()), "path", domain.InstalledPath(vendorDir))
	}

	ops := domain.Diff(present, desired)
	if len(ops) == 0 {
		r.logger.Info("Nothing to install, update, or remove")
	} else {
		r.logOperations(ops)
		if err := r.installer.Execute(ctx, vendorDir, ops); err != nil {
			span.RecordError(err)
			return err
		}
	}

	if err := r.installed.Put(vendorDir, r.state(vendorDir, packages, devPackages, opts.Dev)); err != nil {
		return err
	}

	if opts.NoAutoloader || m.AutoloadDisabled(p.Name) {
		return nil
	}
	_, err = r.autoloader.Dump(ctx, autoload.Input{
		Target:      p,
		Packages:    packages,
		DevPackages: devPackages,
		Dev:         opts.Dev,
	})
	return err
}

func (r *Reconciler) logOperations(ops []domain.Operation) {
	var installs, updates, removals int
	for _, op := range ops {
		switch op.Kind {
		case domain.OpInstall:
			installs++
		case domain.OpUpdate:
			updates++
		case domain.OpRemove:
			removals++
		}
	}
	r.logger.Info(fmt.Sprintf("Package operations: %d installs, %d updates, %d removals", installs, updates, removals))
	for _, op := range ops {
		r.logger.Info("  - " + op.String())
	}
}

// state records the installed packages with install paths relative to vendor/composer.
func (r *Reconciler) state(vendorDir string, packages, devPackages []*domain.Package, dev bool) *domain.InstalledState {
	state := &domain.InstalledState{Dev: dev}
	composerDir := domain.ComposerDir(vendorDir)

	record := func(p *domain.Package) {
		d := p.Descriptor()
		if rel, err := filepath.Rel(composerDir, r.installer.InstallPath(vendorDir, p)); err == nil {
			d.InstallPath = filepath.ToSlash(rel)
		}
		state.Packages = append(state.Packages, d)
	}
	for _, p := range packages {
		record(p)
	}
	for _, p := range devPackages {
		record(p)
		state.DevPackageNames = append(state.DevPackageNames, p.Name)
	}
	return state
}

// hydrate anchors path dists read from the lock to the monorepo root.
func hydrate(m *domain.Monorepo, pkgs []*domain.Package) []*domain.Package {
	out := make([]*domain.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if p.Dir == "" && p.Dist != nil && p.Dist.Type == "path" && p.Dist.URL != "" {
			p = p.Clone()
			p.Dir = filepath.Join(m.Root.Dir, filepath.FromSlash(p.Dist.URL))
		}
		out = append(out, p)
	}
	return out
}
