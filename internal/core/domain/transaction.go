package domain

import (
	"cmp"
	"maps"
	"slices"
)

// OperationKind is the kind of change an operation applies.
type OperationKind uint8

const (
	// OpInstall adds a package that is not present.
	OpInstall OperationKind = iota
	// OpUpdate replaces a present package with a different release.
	OpUpdate
	// OpRemove deletes a package that is no longer wanted.
	OpRemove
)

func (k OperationKind) String() string {
	switch k {
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return "install"
	}
}

// Operation is one install, update or remove step.
type Operation struct {
	Kind    OperationKind
	Package *Package
	// From is the replaced package for updates.
	From *Package
}

func (o Operation) String() string {
	switch o.Kind {
	case OpUpdate:
		return "Updating " + o.Package.PrettyName + " (" + o.From.Version.String() + " => " + o.Package.Version.String() + ")"
	case OpRemove:
		return "Removing " + o.Package.String()
	default:
		return "Installing " + o.Package.String()
	}
}

// Diff computes the operations turning present into desired. Removals come
// first in reverse dependency order, then installs and updates with
// dependencies before dependents.
func Diff(present, desired []*Package) []Operation {
	presentByName := make(map[string]*Package, len(present))
	for _, p := range present {
		presentByName[p.Name] = p
	}
	desiredByName := make(map[string]*Package, len(desired))
	for _, p := range desired {
		desiredByName[p.Name] = p
	}

	var ops []Operation
	sortedPresent := SortByDependencies(present)
	for i := len(sortedPresent) - 1; i >= 0; i-- {
		p := sortedPresent[i]
		if _, ok := desiredByName[p.Name]; !ok {
			ops = append(ops, Operation{Kind: OpRemove, Package: p})
		}
	}

	for _, p := range SortByDependencies(desired) {
		old, ok := presentByName[p.Name]
		switch {
		case !ok:
			ops = append(ops, Operation{Kind: OpInstall, Package: p})
		case !old.SameRelease(p):
			ops = append(ops, Operation{Kind: OpUpdate, Package: p, From: old})
		}
	}
	return ops
}

// LockTransaction is a solver result: the operations against the previous
// lock and the complete resolved package set.
type LockTransaction struct {
	Operations []Operation
	// PoolSize is the number of candidates the solver considered.
	PoolSize int
	// RuleCount is the number of rules the solver evaluated.
	RuleCount int

	packages []*Package
	dev      map[string]bool
}

// NewLockTransaction builds a transaction over the resolved set.
func NewLockTransaction(ops []Operation, resolved []*Package) *LockTransaction {
	pkgs := slices.Clone(resolved)
	slices.SortFunc(pkgs, func(a, b *Package) int { return cmp.Compare(a.Name, b.Name) })
	return &LockTransaction{Operations: ops, packages: pkgs, dev: make(map[string]bool)}
}

// Packages returns the full resolved set sorted by name.
func (t *LockTransaction) Packages() []*Package {
	return slices.Clone(t.packages)
}

// Package returns the resolved package named name, or nil.
func (t *LockTransaction) Package(name string) *Package {
	name = normalizeName(name)
	for _, p := range t.packages {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// MarkNonDev tags every package whose name is not in nonDev as dev-only.
func (t *LockTransaction) MarkNonDev(nonDev []*Package) {
	keep := make(map[string]bool, len(nonDev))
	for _, p := range nonDev {
		keep[p.Name] = true
	}
	clear(t.dev)
	for _, p := range t.packages {
		if !keep[p.Name] {
			t.dev[p.Name] = true
		}
	}
}

// IsDev reports whether name was tagged dev-only.
func (t *LockTransaction) IsDev(name string) bool {
	return t.dev[normalizeName(name)]
}

// NonDevPackages returns the resolved packages not tagged dev-only.
func (t *LockTransaction) NonDevPackages() []*Package {
	return slices.DeleteFunc(t.Packages(), func(p *Package) bool { return t.dev[p.Name] })
}

// DevPackages returns the resolved packages tagged dev-only.
func (t *LockTransaction) DevPackages() []*Package {
	return slices.DeleteFunc(t.Packages(), func(p *Package) bool { return !t.dev[p.Name] })
}

// Counts returns the number of installs, updates and removals.
func (t *LockTransaction) Counts() (installs, updates, removals int) {
	for _, op := range t.Operations {
		switch op.Kind {
		case OpInstall:
			installs++
		case OpUpdate:
			updates++
		case OpRemove:
			removals++
		}
	}
	return installs, updates, removals
}

// Refresh returns a transaction over the same operations with every package
// for which fresh returns non-nil swapped for that result. Dev tags and
// counters are kept.
func (t *LockTransaction) Refresh(fresh func(*Package) *Package) *LockTransaction {
	pkgs := make([]*Package, 0, len(t.packages))
	for _, p := range t.packages {
		if f := fresh(p); f != nil {
			p = f
		}
		pkgs = append(pkgs, p)
	}
	out := NewLockTransaction(t.Operations, pkgs)
	out.PoolSize = t.PoolSize
	out.RuleCount = t.RuleCount
	maps.Copy(out.dev, t.dev)
	return out
}
