package resolve

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"slices"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
)

// Advisories logged when the non-dev requirements cannot be resolved alone.
var partitionAdvisories = []string{
	"Unable to find a compatible set of packages based on your non-dev requirements alone",
	"Your requirements can be resolved successfully when require-dev packages are present",
	"You may need to move packages from require-dev or some of their dependencies to require",
}

// LockMismatchWarning is logged when installing from a lock requires changes.
const LockMismatchWarning = "Your lock file cannot be installed on this system without changes. " +
	"Please run `conductor update`."

// MemberUnresolvableWarning heads the rule trace of a failed per-package solve.
const MemberUnresolvableWarning = "The requirements of %s could not be resolved to an installable set of packages."

// Options control a solve.
type Options struct {
	// Dev includes require-dev links.
	Dev bool
	// Update resolves from the manifests instead of the lock.
	Update bool
	// Require lists links added by the require command.
	Require []domain.Link
	// RequireDev adds the Require links to require-dev.
	RequireDev bool
}

// InstallSet is the personal subset of the primary solution for one package.
type InstallSet struct {
	Packages []*domain.Package
	Dev      []*domain.Package
}

// Result is the outcome of a solve.
type Result struct {
	Transaction *domain.LockTransaction
	Request     *domain.Request
	// Target is the synthetic root carrying every member's links.
	Target *domain.Package
	// Sets holds the install set of the root and of every member, by name.
	Sets map[string]InstallSet
}

// Orchestrator runs the primary, partition and per-package solves.
type Orchestrator struct {
	solver  ports.Solver
	builder *RequestBuilder
	logger  ports.Logger
	tracer  ports.Tracer
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(solver ports.Solver, logger ports.Logger, tracer ports.Tracer) *Orchestrator {
	return &Orchestrator{
		solver:  solver,
		builder: NewRequestBuilder(logger),
		logger:  logger,
		tracer:  tracer,
	}
}

// Solve resolves the whole monorepo. lock may be nil.
func (o *Orchestrator) Solve(ctx context.Context, m *domain.Monorepo, lock *domain.Lockfile, opts Options) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, "Resolving dependencies")
	defer span.End()

	if opts.Update || lock == nil {
		o.logger.Info("Loading composer repositories with package information")
	} else {
		o.logger.Info("Verifying lockfile contents can be installed on current platform")
	}

	MergeRequirements(m, opts.Require, opts.RequireDev)
	target := MonorepoTarget(m)
	span.SetAttribute("conductor.members", len(m.Members))

	req, err := o.builder.Build(m, target, lock, Scope{Dev: opts.Dev, Update: opts.Update})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	pool, err := o.pool(m, lock, opts.Update)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	tx, err := o.primary(ctx, req, pool)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	installs, updates, removals := tx.Counts()
	o.logger.Info(fmt.Sprintf("Lock file operations: %d installs, %d updates, %d removals", installs, updates, removals))
	o.logOperations(tx.Operations)
	if lock != nil && !opts.Update && len(tx.Operations) > 0 {
		o.logger.Warn(LockMismatchWarning)
	}

	switch {
	case !opts.Dev:
	case lock != nil && !opts.Update:
		devNames := lock.DevPackageNames()
		tx.MarkNonDev(slices.DeleteFunc(tx.Packages(), func(p *domain.Package) bool { return devNames[p.Name] }))
	case len(target.DevRequires) > 0:
		if err := o.partition(ctx, m, target, tx); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	sets := make(map[string]InstallSet, len(m.Members)+1)
	for _, p := range m.Packages() {
		set, err := o.installSet(ctx, m, p, tx, opts.Dev)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		sets[p.Name] = set
	}

	return &Result{Transaction: tx, Request: req, Target: target, Sets: sets}, nil
}

// pool returns the candidates of the primary solve. Installing from a lock
// only considers the locked packages, with members taken from the working tree.
func (o *Orchestrator) pool(m *domain.Monorepo, lock *domain.Lockfile, update bool) (*domain.PackageIndex, error) {
	if update || lock == nil {
		return m.Pool(), nil
	}

	locked, err := lock.LockedPackages(true, m.IsMember)
	if err != nil {
		return nil, err
	}

	idx := domain.NewPackageIndex()
	for _, p := range locked {
		if member := m.Member(p.Name); member != nil {
			p = member
		}
		idx.Add(p)
	}
	for _, p := range m.Platform {
		idx.Add(p)
	}
	return idx, nil
}

// primary runs the monorepo-wide solve with garbage collection suspended.
func (o *Orchestrator) primary(ctx context.Context, req *domain.Request, pool *domain.PackageIndex) (*domain.LockTransaction, error) {
	ctx, span := o.tracer.Start(ctx, "Primary solve")
	defer span.End()

	runtime.GC()
	defer debug.SetGCPercent(debug.SetGCPercent(-1))

	tx, err := o.solver.Solve(ctx, req, pool)
	if err != nil {
		span.RecordError(err)
		var problems *domain.SolverProblems
		if errors.As(err, &problems) {
			o.logger.Warn("Your requirements could not be resolved to an installable set of packages.")
			o.logger.Warn(problems.PrettyString())
		}
		return nil, err
	}

	o.logger.Info(fmt.Sprintf("Analyzed %d packages to resolve dependencies", tx.PoolSize))
	o.logger.Info(fmt.Sprintf("Analyzed %d rules to resolve dependencies", tx.RuleCount))
	span.SetAttribute("conductor.pool_size", tx.PoolSize)
	span.SetAttribute("conductor.rule_count", tx.RuleCount)
	return tx, nil
}

// partition tags the packages only reachable through require-dev. An
// unresolvable non-dev set is reported and leaves every package non-dev.
func (o *Orchestrator) partition(ctx context.Context, m *domain.Monorepo, target *domain.Package, tx *domain.LockTransaction) error {
	ctx, span := o.tracer.Start(ctx, "Partitioning dev packages")
	defer span.End()

	req, err := o.builder.Build(m, target, nil, Scope{Update: true})
	if err != nil {
		return err
	}

	nonDev, err := o.solver.Solve(ctx, req, restrictedPool(m, tx.Packages()))
	if err != nil {
		var problems *domain.SolverProblems
		if !errors.As(err, &problems) {
			return err
		}
		for _, line := range partitionAdvisories {
			o.logger.Warn(line)
		}
		o.logger.Warn(problems.PrettyString())
		return nil
	}

	tx.MarkNonDev(nonDev.Packages())
	span.SetAttribute("conductor.dev_packages", len(tx.DevPackages()))
	return nil
}

// installSet resolves p's own requirements against the primary solution.
func (o *Orchestrator) installSet(ctx context.Context, m *domain.Monorepo, p *domain.Package, tx *domain.LockTransaction, dev bool) (InstallSet, error) {
	ctx, span := o.tracer.Start(ctx, "Solving "+p.PrettyName)
	defer span.End()
	o.logger.Debug("Solving " + p.PrettyName)

	pool := restrictedPool(m, tx.Packages())

	nonDev, err := o.solveFor(ctx, m, p, pool, false)
	if err != nil {
		span.RecordError(err)
		return InstallSet{}, err
	}
	set := InstallSet{Packages: nonDev}
	if !dev || len(p.DevRequires) == 0 {
		return set, nil
	}

	all, err := o.solveFor(ctx, m, p, pool, true)
	if err != nil {
		span.RecordError(err)
		return InstallSet{}, err
	}
	set.Dev = slices.DeleteFunc(all, func(c *domain.Package) bool {
		return slices.ContainsFunc(nonDev, func(n *domain.Package) bool { return n.Name == c.Name })
	})
	return set, nil
}

func (o *Orchestrator) solveFor(ctx context.Context, m *domain.Monorepo, p *domain.Package, pool *domain.PackageIndex, dev bool) ([]*domain.Package, error) {
	req, err := o.builder.Build(m, p, nil, Scope{Dev: dev, Update: true})
	if err != nil {
		return nil, err
	}
	// The pool only holds packages the primary solve already accepted.
	req.MinimumStability = domain.StabilityDev
	tx, err := o.solver.Solve(ctx, req, pool)
	if err != nil {
		var problems *domain.SolverProblems
		if errors.As(err, &problems) {
			o.logger.Warn(fmt.Sprintf(MemberUnresolvableWarning, p.PrettyName))
			o.logger.Warn(problems.PrettyString())
		}
		return nil, zerr.With(err, "package", p.PrettyName)
	}
	return tx.Packages(), nil
}

func (o *Orchestrator) logOperations(ops []domain.Operation) {
	for _, kind := range []domain.OperationKind{domain.OpInstall, domain.OpUpdate, domain.OpRemove} {
		for _, op := range ops {
			if op.Kind == kind {
				o.logger.Debug("  - " + op.String())
			}
		}
	}
}

// restrictedPool is the chosen set plus the platform.
func restrictedPool(m *domain.Monorepo, chosen []*domain.Package) *domain.PackageIndex {
	idx := domain.NewPackageIndex(chosen...)
	for _, p := range m.Platform {
		idx.Add(p)
	}
	return idx
}
