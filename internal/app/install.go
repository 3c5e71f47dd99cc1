package app

import (
	"context"
	"fmt"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/engine/reconcile"
	"go.trai.ch/conductor/internal/engine/resolve"
)

// NoLockWarning is logged when install runs without a lockfile.
const NoLockWarning = "No lock file found. Updating dependencies instead of installing from lock file. " +
	"Use `conductor update` over `conductor install` if you do not have a lock file."

// InstallOptions configuration for the Install and Update methods.
type InstallOptions struct {
	NoDev        bool
	NoAutoloader bool
}

// Install installs the locked dependencies of every package. Without a lock
// it resolves from the manifests instead.
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	m, err := a.load()
	if err != nil {
		return err
	}

	lock, err := a.locks.Get(m.Root.Dir)
	if err != nil {
		return err
	}
	update := lock == nil
	if update {
		a.logger.Warn(NoLockWarning)
	}

	return a.install(ctx, m, lock, resolve.Options{
		Dev:    a.dev(m, opts.NoDev),
		Update: update,
	}, opts.NoAutoloader)
}

// Update resolves every manifest anew, rewrites the lockfile and installs.
func (a *App) Update(ctx context.Context, opts InstallOptions) error {
	m, err := a.load()
	if err != nil {
		return err
	}

	lock, err := a.locks.Get(m.Root.Dir)
	if err != nil {
		return err
	}

	return a.install(ctx, m, lock, resolve.Options{
		Dev:    a.dev(m, opts.NoDev),
		Update: true,
	}, opts.NoAutoloader)
}

// install runs the pipeline: solve, record, reconcile.
func (a *App) install(ctx context.Context, m *domain.Monorepo, lock *domain.Lockfile, ro resolve.Options, noAutoloader bool) error {
	res, err := a.resolver.Solve(ctx, m, lock, ro)
	if err != nil {
		return err
	}
	a.warnAbandoned(res.Transaction)

	m, res, err = a.lockWriter.Write(ctx, m, lock, res, ro)
	if err != nil {
		return err
	}

	return a.reconciler.Reconcile(ctx, m, res.Sets, reconcile.Options{
		Dev:          ro.Dev,
		NoAutoloader: noAutoloader,
	})
}

func (a *App) dev(m *domain.Monorepo, noDev bool) bool {
	return !noDev && !m.Settings.NoDev
}

// warnAbandoned flags every abandoned package the transaction installs or updates.
func (a *App) warnAbandoned(tx *domain.LockTransaction) {
	for _, op := range tx.Operations {
		if op.Kind == domain.OpRemove || op.Package.Abandoned == nil {
			continue
		}
		a.logger.Warn(AbandonedWarning(op.Package))
	}
}

// AbandonedWarning is the advisory logged for an abandoned package.
func AbandonedWarning(p *domain.Package) string {
	replacement := "No replacement was suggested."
	if p.Abandoned != nil && p.Abandoned.Replacement != "" {
		replacement = fmt.Sprintf("Use %s instead.", p.Abandoned.Replacement)
	}
	return fmt.Sprintf("Package %s is abandoned, you should avoid using it. %s", p.PrettyName, replacement)
}
