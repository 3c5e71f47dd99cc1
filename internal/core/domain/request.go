package domain

import (
	"maps"
	"slices"
)

// Alias maps a resolved version onto another version for constraint matching.
type Alias struct {
	Package         string `json:"package"`
	Version         string `json:"version"`
	Alias           string `json:"alias"`
	AliasNormalized string `json:"alias_normalized"`
}

// Request is the input handed to the solver: what must be required, what is
// fixed in place, and the stability policy to apply.
type Request struct {
	requires []Link
	seen     map[string]bool
	fixed    map[string]*Package

	// Present is the currently locked set the resulting operations are diffed against.
	Present          []*Package
	Aliases          []Alias
	StabilityFlags   map[string]Stability
	MinimumStability Stability
	PreferStable     bool
	PreferLowest     bool
}

// NewRequest returns an empty request with stable minimum stability.
func NewRequest() *Request {
	return &Request{
		seen:             make(map[string]bool),
		fixed:            make(map[string]*Package),
		StabilityFlags:   make(map[string]Stability),
		MinimumStability: StabilityStable,
	}
}

// Require adds l unless an identical target and constraint is already present.
func (r *Request) Require(l Link) {
	key := l.Target + "\x00" + l.Constraint.String()
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.requires = append(r.requires, l)
}

// Fix pins p as already satisfied. Fixed packages are never installed or removed.
func (r *Request) Fix(p *Package) {
	r.fixed[p.Name] = p
}

// Requires returns the deduplicated requirements in insertion order.
func (r *Request) Requires() []Link {
	return slices.Clone(r.requires)
}

// Targets returns the distinct required package names, sorted.
func (r *Request) Targets() []string {
	set := make(map[string]struct{}, len(r.requires))
	for _, l := range r.requires {
		set[l.Target] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Fixed returns the fixed packages sorted by name.
func (r *Request) Fixed() []*Package {
	out := make([]*Package, 0, len(r.fixed))
	for _, name := range slices.Sorted(maps.Keys(r.fixed)) {
		out = append(out, r.fixed[name])
	}
	return out
}

// FixedPackage returns the fixed package named name, if any.
func (r *Request) FixedPackage(name string) (*Package, bool) {
	p, ok := r.fixed[normalizeName(name)]
	return p, ok
}

// AllowsStability reports whether a release of stability s is acceptable for name.
func (r *Request) AllowsStability(name string, s Stability) bool {
	if flag, ok := r.StabilityFlags[normalizeName(name)]; ok {
		return s <= flag
	}
	return s <= r.MinimumStability
}
