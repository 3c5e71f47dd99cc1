// Package solver implements a deterministic backtracking dependency solver.
package solver

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
)

var _ ports.Solver = (*Solver)(nil)

// maxProblems bounds the diagnostics kept from a failed search.
const maxProblems = 20

// Solver implements ports.Solver. For every required name it tries candidates
// from most to least preferred and backtracks on conflict.
type Solver struct{}

// NewSolver creates a new Solver.
func NewSolver() *Solver {
	return &Solver{}
}

// pending is a requirement waiting to be satisfied, with the chain of
// requirements that introduced it.
type pending struct {
	link  domain.Link
	chain []string
}

type search struct {
	ctx      context.Context
	req      *domain.Request
	pool     *domain.PackageIndex
	aliases  map[string]map[string]domain.Version
	assigned map[string]*domain.Package
	rules    int
	problems []domain.Problem
	seen     map[string]bool
}

// Solve picks one version for every package reachable from req's requirements.
func (s *Solver) Solve(ctx context.Context, req *domain.Request, pool *domain.PackageIndex) (*domain.LockTransaction, error) {
	st := &search{
		ctx:      ctx,
		req:      req,
		pool:     pool,
		aliases:  indexAliases(req.Aliases),
		assigned: make(map[string]*domain.Package),
		seen:     make(map[string]bool),
	}

	queue := make([]pending, 0, len(req.Requires()))
	for _, l := range req.Requires() {
		queue = append(queue, pending{link: l})
	}

	ok, err := st.solve(queue)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.SolverProblems{Problems: st.problems}
	}

	resolved := make([]*domain.Package, 0, len(st.assigned))
	for _, p := range st.assigned {
		resolved = append(resolved, p)
	}
	slices.SortFunc(resolved, func(a, b *domain.Package) int { return cmp.Compare(a.Name, b.Name) })
	resolved = domain.SortByDependencies(resolved)

	tx := domain.NewLockTransaction(domain.Diff(req.Present, resolved), resolved)
	tx.PoolSize = pool.Len()
	tx.RuleCount = st.rules
	return tx, nil
}

func (st *search) solve(queue []pending) (bool, error) {
	for len(queue) > 0 {
		if err := st.ctx.Err(); err != nil {
			return false, err
		}

		next := queue[0]
		queue = queue[1:]
		st.rules++

		l := next.link
		if fixed, ok := st.req.FixedPackage(l.Target); ok {
			if !l.Constraint.Matches(fixed.Version) {
				st.fail(next, fmt.Sprintf("your %s version (%s) does not satisfy that requirement", fixed.PrettyName, fixed.Version))
				return false, nil
			}
			continue
		}
		if domain.IsPlatformPackage(l.Target) {
			continue
		}

		if chosen, ok := st.assigned[l.Target]; ok {
			if !st.matches(l, chosen) {
				st.fail(next, fmt.Sprintf("%s is already selected and does not match the constraint", chosen))
				return false, nil
			}
			continue
		}

		candidates, reason := st.candidates(l)
		if len(candidates) == 0 {
			st.fail(next, reason)
			return false, nil
		}

		chain := append(slices.Clone(next.chain), l.String())
		for _, candidate := range candidates {
			st.assigned[l.Target] = candidate

			extended := slices.Clone(queue)
			for _, dep := range candidate.Requires {
				extended = append(extended, pending{link: dep, chain: chain})
			}

			ok, err := st.solve(extended)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		delete(st.assigned, l.Target)
		return false, nil
	}
	return true, nil
}

// candidates returns the acceptable packages for l, most preferred first, or
// the reason there are none.
func (st *search) candidates(l domain.Link) ([]*domain.Package, string) {
	all := st.pool.Lookup(l.Target)
	if len(all) == 0 {
		return nil, fmt.Sprintf("%s could not be found in any version", l.Target)
	}

	var matching, acceptable []*domain.Package
	for _, p := range all {
		if !st.matches(l, p) {
			continue
		}
		matching = append(matching, p)
		if st.allowsStability(l, p) {
			acceptable = append(acceptable, p)
		}
	}

	switch {
	case len(matching) == 0:
		return nil, fmt.Sprintf("found %s[%s] but it does not match the constraint", l.Target, versionList(all))
	case len(acceptable) == 0:
		return nil, fmt.Sprintf("found %s[%s] but it does not match your minimum-stability", l.Target, versionList(matching))
	}

	slices.SortStableFunc(acceptable, func(a, b *domain.Package) int {
		if st.req.PreferStable && a.Version.Stability() != b.Version.Stability() {
			return cmp.Compare(a.Version.Stability(), b.Version.Stability())
		}
		if st.req.PreferLowest {
			return a.Version.Compare(b.Version)
		}
		return b.Version.Compare(a.Version)
	})
	return acceptable, ""
}

func (st *search) matches(l domain.Link, p *domain.Package) bool {
	if l.Constraint.Matches(p.Version) {
		return true
	}
	if alias, ok := st.aliases[p.Name][p.Version.Normalized()]; ok {
		return l.Constraint.Matches(alias)
	}
	return false
}

func (st *search) allowsStability(l domain.Link, p *domain.Package) bool {
	if p.Kind == domain.KindMember {
		return true
	}
	if flag, ok := l.Constraint.StabilityFlag(); ok && p.Version.Stability() <= flag {
		return true
	}
	return st.req.AllowsStability(p.Name, p.Version.Stability())
}

func (st *search) fail(p pending, reason string) {
	rules := append(slices.Clone(p.chain), p.link.String()+" -> "+reason)
	key := strings.Join(rules, "\n")
	if st.seen[key] || len(st.problems) >= maxProblems {
		return
	}
	st.seen[key] = true
	st.problems = append(st.problems, domain.Problem{Rules: rules})
}

func indexAliases(aliases []domain.Alias) map[string]map[string]domain.Version {
	out := make(map[string]map[string]domain.Version)
	for _, a := range aliases {
		from, err := domain.ParseVersion(a.Version)
		if err != nil {
			continue
		}
		to, err := domain.ParseVersion(a.Alias)
		if err != nil {
			continue
		}
		name := domain.NormalizeName(a.Package)
		if out[name] == nil {
			out[name] = make(map[string]domain.Version)
		}
		out[name][from.Normalized()] = to
	}
	return out
}

func versionList(pkgs []*domain.Package) string {
	sorted := slices.Clone(pkgs)
	slices.SortFunc(sorted, func(a, b *domain.Package) int { return a.Version.Compare(b.Version) })
	versions := make([]string, 0, len(sorted))
	for _, p := range sorted {
		versions = append(versions, p.Version.String())
	}
	return strings.Join(versions, ", ")
}
