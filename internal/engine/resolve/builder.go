// Package resolve builds solver requests for the monorepo and its members and
// orchestrates the primary, partition and per-member solves.
package resolve

import (
	"strings"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
)

// StaleLockWarning is emitted when the lockfile fingerprint no longer
// matches the manifests.
const StaleLockWarning = "The lock file is not up to date with the latest changes in monorepo.json. " +
	"It is recommended that you run `conductor update`."

// Scope selects what a request covers.
type Scope struct {
	// Dev includes require-dev links, or the dev section of the lock.
	Dev bool
	// Update resolves from the manifests instead of the lock.
	Update bool
}

// RequestBuilder turns a package and an optional lock into a solver request.
type RequestBuilder struct {
	logger ports.Logger
}

// NewRequestBuilder creates a new RequestBuilder.
func NewRequestBuilder(logger ports.Logger) *RequestBuilder {
	return &RequestBuilder{logger: logger}
}

// Build creates the request for target. Without a lock, or in update scope,
// target's links are required as declared. Otherwise every locked package of
// the scope is required at its exact locked version.
func (b *RequestBuilder) Build(m *domain.Monorepo, target *domain.Package, lock *domain.Lockfile, scope Scope) (*domain.Request, error) {
	req := domain.NewRequest()
	req.MinimumStability = m.Config.MinimumStability
	req.PreferStable = m.Config.PreferStable
	req.PreferLowest = m.Config.PreferLowest

	for _, p := range m.Platform {
		req.Fix(p)
	}
	if target.Kind == domain.KindMember {
		req.Fix(target)
	}

	if lock != nil && target.Kind == domain.KindRoot && lock.ContentHash != m.ContentHash {
		b.logger.Warn(StaleLockWarning)
	}

	if lock != nil {
		present, err := lock.LockedPackages(scope.Dev, m.IsMember)
		if err != nil {
			return nil, err
		}
		req.Present = present
	}

	if scope.Update || lock == nil {
		for _, l := range target.Links(scope.Dev) {
			req.Require(l)
			if domain.IsPlatformPackage(l.Target) {
				continue
			}
			if flag, ok := l.Constraint.StabilityFlag(); ok && !m.IsMember(l.Target) {
				req.StabilityFlags[l.Target] = flag
			}
			if alias, ok := inlineAlias(l); ok {
				req.Aliases = append(req.Aliases, alias)
			}
		}
		return req, nil
	}

	for _, p := range req.Present {
		req.Require(domain.Link{Source: target.Name, Target: p.Name, Constraint: domain.ExactConstraint(p.Version)})
	}
	req.Aliases = append(req.Aliases, lock.Aliases...)
	for name, flag := range lock.StabilityFlags {
		req.StabilityFlags[domain.NormalizeName(name)] = domain.Stability(flag)
	}
	return req, nil
}

// inlineAlias extracts the alias of an "X as Y" constraint.
func inlineAlias(l domain.Link) (domain.Alias, bool) {
	to, ok := l.Constraint.Alias()
	if !ok {
		return domain.Alias{}, false
	}
	from, _, _ := strings.Cut(l.Constraint.String(), " as ")
	return domain.Alias{
		Package:         l.Target,
		Version:         strings.TrimSpace(from),
		Alias:           to.String(),
		AliasNormalized: to.Normalized(),
	}, true
}

// MonorepoTarget returns the root with the links of every member appended,
// which is what the primary solve requires.
func MonorepoTarget(m *domain.Monorepo) *domain.Package {
	target := m.Root.Clone()
	for _, member := range m.Members {
		target.Requires = append(target.Requires, member.Requires...)
		target.DevRequires = append(target.DevRequires, member.DevRequires...)
	}
	return target
}

// MergeRequirements applies links added by the require command: the active
// package and the root gain them, and every member already referencing one
// of the targets has its link replaced.
func MergeRequirements(m *domain.Monorepo, links []domain.Link, dev bool) {
	if len(links) == 0 {
		return
	}
	active := m.ActivePackage()
	for _, p := range m.Packages() {
		p.MergeLinks(links, dev, p == active || p == m.Root)
	}
}
