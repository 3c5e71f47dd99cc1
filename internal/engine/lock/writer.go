// Package lock persists a solve: it writes resolved versions back into the
// manifests and records the shared monorepo.lock.
package lock

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/engine/resolve"
	"go.trai.ch/zerr"
)

const (
	sectionRequire    = "require"
	sectionRequireDev = "require-dev"
)

// Writer records solve results.
type Writer struct {
	store     ports.LockStore
	manifests ports.ManifestWriter
	loader    ports.MonorepoLoader
	logger    ports.Logger
	tracer    ports.Tracer
}

// NewWriter creates a new Writer.
func NewWriter(
	store ports.LockStore,
	manifests ports.ManifestWriter,
	loader ports.MonorepoLoader,
	logger ports.Logger,
	tracer ports.Tracer,
) *Writer {
	return &Writer{
		store:     store,
		manifests: manifests,
		loader:    loader,
		logger:    logger,
		tracer:    tracer,
	}
}

// Write back-propagates res into the manifests of m, then writes the lockfile
// unless nothing changed since previous. The returned monorepo and result
// reflect the rewritten manifests.
func (w *Writer) Write(
	ctx context.Context,
	m *domain.Monorepo,
	previous *domain.Lockfile,
	res *resolve.Result,
	opts resolve.Options,
) (*domain.Monorepo, *resolve.Result, error) {
	_, span := w.tracer.Start(ctx, "Writing lock file")
	defer span.End()

	changed, err := w.propagate(m, res.Transaction, opts)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	if changed {
		fresh, err := w.loader.Load(m.WorkingDir)
		if err != nil {
			span.RecordError(err)
			return nil, nil, err
		}
		m = fresh
		res = refresh(m, res)
	}

	if len(res.Transaction.Operations) == 0 && previous != nil && previous.ContentHash == m.ContentHash {
		w.logger.Info("Nothing to modify in lock file")
		return m, res, nil
	}

	w.logger.Info("Writing " + domain.LockFileName)
	if err := w.store.Put(m.Root.Dir, Build(m, res)); err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	return m, res, nil
}

// Build returns the lockfile recording res.
func Build(m *domain.Monorepo, res *resolve.Result) *domain.Lockfile {
	target := resolve.MonorepoTarget(m)

	lock := &domain.Lockfile{
		ContentHash:      m.ContentHash,
		Packages:         descriptors(res.Transaction.NonDevPackages()),
		PackagesDev:      descriptors(res.Transaction.DevPackages()),
		MinimumStability: m.Config.MinimumStability.String(),
		StabilityFlags:   make(map[string]int),
		PreferStable:     m.Config.PreferStable,
		PreferLowest:     m.Config.PreferLowest,
		Platform:         domain.PlatformRequirements(target.Requires),
		PlatformDev:      domain.PlatformRequirements(target.DevRequires),
	}
	if res.Request != nil {
		lock.Aliases = slices.Clone(res.Request.Aliases)
		for name, flag := range res.Request.StabilityFlags {
			lock.StabilityFlags[name] = int(flag)
		}
	}
	lock.Normalize()
	return lock
}

// propagate rewrites every manifest link to a resolved package. Members are
// written as "@dev", everything else at its resolved version. Links added by
// the require command keep the constraint they were given.
func (w *Writer) propagate(m *domain.Monorepo, tx *domain.LockTransaction, opts resolve.Options) (bool, error) {
	if !opts.Update {
		return false, nil
	}

	active := m.ActivePackage()
	changed := false
	for _, p := range m.Packages() {
		if p.ManifestPath == "" {
			continue
		}

		changes := resolvedChanges(m, p, tx)
		if p == active || p == m.Root {
			changes = append(changes, RequireChanges(opts.Require, opts.RequireDev)...)
		}
		if len(changes) == 0 {
			continue
		}

		modified, err := w.manifests.Update(p.ManifestPath, dedupe(changes))
		if err != nil {
			return false, zerr.With(err, "package", p.PrettyName)
		}
		if modified {
			w.logger.Debug("Updated " + p.ManifestPath)
		}
		changed = changed || modified
	}
	return changed, nil
}

func resolvedChanges(m *domain.Monorepo, p *domain.Package, tx *domain.LockTransaction) []ports.ManifestChange {
	var changes []ports.ManifestChange
	for section, links := range map[string][]domain.Link{sectionRequire: p.Requires, sectionRequireDev: p.DevRequires} {
		for _, l := range links {
			if domain.IsPlatformPackage(l.Target) {
				continue
			}
			resolved := tx.Package(l.Target)
			if resolved == nil {
				continue
			}
			constraint := resolved.Version.String()
			if m.IsMember(l.Target) {
				constraint = domain.DevConstraint().String()
			}
			changes = append(changes, ports.ManifestChange{
				Section:    section,
				Package:    resolved.PrettyName,
				Constraint: constraint,
			})
		}
	}
	slices.SortFunc(changes, func(a, b ports.ManifestChange) int {
		return cmp.Or(cmp.Compare(a.Section, b.Section), cmp.Compare(a.Package, b.Package))
	})
	return changes
}

// RequireChanges moves every link in links into require-dev when dev is set,
// into require otherwise.
func RequireChanges(links []domain.Link, dev bool) []ports.ManifestChange {
	add, drop := sectionRequire, sectionRequireDev
	if dev {
		add, drop = drop, add
	}

	changes := make([]ports.ManifestChange, 0, 2*len(links))
	for _, l := range links {
		changes = append(changes,
			ports.ManifestChange{Section: drop, Package: l.Target, Remove: true},
			ports.ManifestChange{Section: add, Package: l.Target, Constraint: l.Constraint.String()},
		)
	}
	return changes
}

// dedupe keeps the last change per section and package, in first-seen order.
func dedupe(changes []ports.ManifestChange) []ports.ManifestChange {
	last := make(map[[2]string]int, len(changes))
	for i, c := range changes {
		last[[2]string{c.Section, domain.NormalizeName(c.Package)}] = i
	}
	keep := slices.Sorted(maps.Values(last))
	out := make([]ports.ManifestChange, 0, len(keep))
	for _, i := range keep {
		out = append(out, changes[i])
	}
	return out
}

// refresh swaps the members of res for their reloaded counterparts.
func refresh(m *domain.Monorepo, res *resolve.Result) *resolve.Result {
	fresh := func(p *domain.Package) *domain.Package {
		if p.Kind != domain.KindMember {
			return nil
		}
		return m.Member(p.Name)
	}

	out := *res
	out.Transaction = res.Transaction.Refresh(fresh)
	out.Target = resolve.MonorepoTarget(m)
	out.Sets = make(map[string]resolve.InstallSet, len(res.Sets))
	for name, set := range res.Sets {
		out.Sets[name] = resolve.InstallSet{
			Packages: swap(set.Packages, fresh),
			Dev:      swap(set.Dev, fresh),
		}
	}
	return &out
}

func swap(pkgs []*domain.Package, fresh func(*domain.Package) *domain.Package) []*domain.Package {
	out := make([]*domain.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if f := fresh(p); f != nil {
			p = f
		}
		out = append(out, p)
	}
	return out
}

func descriptors(pkgs []*domain.Package) []domain.PackageDescriptor {
	out := make([]domain.PackageDescriptor, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Descriptor())
	}
	return out
}
