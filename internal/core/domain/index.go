package domain

import (
	"cmp"
	"maps"
	"slices"
)

// PackageIndex is an in-memory registry of packages keyed by name. A name may
// carry several candidate versions; resolved sets hold one per name.
type PackageIndex struct {
	byName map[string][]*Package
	order  []*Package
}

// NewPackageIndex creates an index holding pkgs.
func NewPackageIndex(pkgs ...*Package) *PackageIndex {
	idx := &PackageIndex{byName: make(map[string][]*Package, len(pkgs))}
	for _, p := range pkgs {
		idx.Add(p)
	}
	return idx
}

// Add registers p. Adding the same name and normalized version twice keeps the first.
func (i *PackageIndex) Add(p *Package) {
	for _, existing := range i.byName[p.Name] {
		if existing.Version.Equal(p.Version) {
			return
		}
	}
	i.byName[p.Name] = append(i.byName[p.Name], p)
	i.order = append(i.order, p)
}

// Lookup returns every candidate registered under name.
func (i *PackageIndex) Lookup(name string) []*Package {
	return slices.Clone(i.byName[normalizeName(name)])
}

// Get returns the first package registered under name, or nil.
func (i *PackageIndex) Get(name string) *Package {
	candidates := i.byName[normalizeName(name)]
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// Has reports whether any package is registered under name.
func (i *PackageIndex) Has(name string) bool {
	return len(i.byName[normalizeName(name)]) > 0
}

// FindAll returns the candidates for name matching c, highest version first.
func (i *PackageIndex) FindAll(name string, c Constraint) []*Package {
	var out []*Package
	for _, p := range i.byName[normalizeName(name)] {
		if c.Matches(p.Version) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *Package) int {
		return b.Version.Compare(a.Version)
	})
	return out
}

// Find returns the highest candidate for name matching c, or nil.
func (i *PackageIndex) Find(name string, c Constraint) *Package {
	matches := i.FindAll(name, c)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Packages returns every registered package in insertion order.
func (i *PackageIndex) Packages() []*Package {
	return slices.Clone(i.order)
}

// Names returns the registered names, sorted.
func (i *PackageIndex) Names() []string {
	names := make([]string, 0, len(i.byName))
	for name := range i.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered packages.
func (i *PackageIndex) Len() int {
	return len(i.order)
}

// Remove drops every candidate registered under name.
func (i *PackageIndex) Remove(name string) {
	name = normalizeName(name)
	delete(i.byName, name)
	i.order = slices.DeleteFunc(i.order, func(p *Package) bool { return p.Name == name })
}

// SortedByDependencies returns the packages with dependencies before dependents.
func (i *PackageIndex) SortedByDependencies() []*Package {
	return SortByDependencies(i.order)
}

// SortByDependencies orders pkgs so that every package follows the packages it
// requires. Ties and cycles are broken by name so the order is stable.
func SortByDependencies(pkgs []*Package) []*Package {
	byName := make(map[string]*Package, len(pkgs))
	for _, p := range pkgs {
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p
		}
	}

	roots := slices.SortedFunc(maps.Values(byName), func(a, b *Package) int {
		return cmp.Compare(a.Name, b.Name)
	})

	visited := make(map[string]bool, len(byName))
	out := make([]*Package, 0, len(byName))

	var visit func(p *Package)
	visit = func(p *Package) {
		if visited[p.Name] {
			return
		}
		visited[p.Name] = true
		for _, l := range p.Requires {
			if dep, ok := byName[l.Target]; ok {
				visit(dep)
			}
		}
		out = append(out, p)
	}

	for _, p := range roots {
		visit(p)
	}
	return out
}
