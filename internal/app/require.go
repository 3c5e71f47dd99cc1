package app

import (
	"context"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/engine/lock"
	"go.trai.ch/conductor/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// RequireOptions configuration for the Require method.
type RequireOptions struct {
	Dev      bool
	NoUpdate bool
	NoDev    bool
}

// Require adds packages to the member package of the working directory and
// to the root, then updates. Members that already reference a package have
// their link replaced.
func (a *App) Require(ctx context.Context, args []string, opts RequireOptions) error {
	m, err := a.load()
	if err != nil {
		return err
	}

	active := m.ActivePackage()
	if active == nil {
		return zerr.With(domain.ErrNotInPackage, "cwd", m.WorkingDir)
	}

	links, err := requirementLinks(m, active, args)
	if err != nil {
		return err
	}

	if opts.NoUpdate {
		return a.writeRequirements(m, active, links, opts.Dev)
	}

	previous, err := a.locks.Get(m.Root.Dir)
	if err != nil {
		return err
	}

	return a.install(ctx, m, previous, resolve.Options{
		Dev:        a.dev(m, opts.NoDev),
		Update:     true,
		Require:    links,
		RequireDev: opts.Dev,
	}, false)
}

// requirementLinks parses args. Members are always required at "@dev",
// anything else defaults to "*".
func requirementLinks(m *domain.Monorepo, active *domain.Package, args []string) ([]domain.Link, error) {
	links := make([]domain.Link, 0, len(args))
	for _, arg := range args {
		name, constraint, err := domain.ParseRequirement(arg)
		if err != nil {
			return nil, err
		}
		switch {
		case m.IsMember(name):
			constraint = domain.DevConstraint().String()
		case constraint == "":
			constraint = "*"
		}

		l, err := domain.NewLink(active.Name, name, constraint)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}

// writeRequirements edits the manifests without resolving.
func (a *App) writeRequirements(m *domain.Monorepo, active *domain.Package, links []domain.Link, dev bool) error {
	for _, p := range m.Packages() {
		if p.ManifestPath == "" {
			continue
		}

		var changes []ports.ManifestChange
		if p == active || p == m.Root {
			changes = lock.RequireChanges(links, dev)
		} else {
			changes = replacedLinks(p, links)
		}
		if len(changes) == 0 {
			continue
		}

		modified, err := a.manifests.Update(p.ManifestPath, changes)
		if err != nil {
			return zerr.With(err, "package", p.PrettyName)
		}
		if modified {
			a.logger.Info(p.ManifestPath + " has been updated")
		}
	}
	return nil
}

// replacedLinks updates the links p already has to any of links, in place.
func replacedLinks(p *domain.Package, links []domain.Link) []ports.ManifestChange {
	var changes []ports.ManifestChange
	for _, l := range links {
		sections := []struct {
			name  string
			links []domain.Link
		}{
			{"require", p.Requires},
			{"require-dev", p.DevRequires},
		}
		for _, section := range sections {
			for _, e := range section.links {
				if e.Target == l.Target {
					changes = append(changes, ports.ManifestChange{
						Section:    section.name,
						Package:    l.Target,
						Constraint: l.Constraint.String(),
					})
				}
			}
		}
	}
	return changes
}
