package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Kind discriminates the roles a package can play in a resolution run.
type Kind uint8

const (
	// KindDependency is an external package resolved from a repository.
	KindDependency Kind = iota
	// KindRoot is the monorepo root described by monorepo.json.
	KindRoot
	// KindMember is an application or library inside the monorepo.
	KindMember
	// KindPlatform is a pseudo-package for the runtime or one of its extensions.
	KindPlatform
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindMember:
		return "member"
	case KindPlatform:
		return "platform"
	default:
		return "dependency"
	}
}

// Capabilities lists what a package of a given kind takes part in.
type Capabilities struct {
	// OwnsVendor marks packages with their own vendor directory and install state.
	OwnsVendor bool
	// Installable marks packages that can be placed into another package's vendor directory.
	Installable bool
	// Lockable marks packages that are recorded in the lockfile.
	Lockable bool
}

var kindCapabilities = map[Kind]Capabilities{
	KindRoot:       {OwnsVendor: true},
	KindMember:     {OwnsVendor: true, Installable: true, Lockable: true},
	KindDependency: {Installable: true, Lockable: true},
	KindPlatform:   {},
}

// Capabilities returns the capability table entry for k.
func (k Kind) Capabilities() Capabilities {
	return kindCapabilities[k]
}

// MemberType distinguishes applications from libraries.
type MemberType string

const (
	// MemberApplication is a member discovered through app-dirs.
	MemberApplication MemberType = "application"
	// MemberLibrary is a member discovered through lib-dirs.
	MemberLibrary MemberType = "library"
)

// Link is a requirement from one package on another.
type Link struct {
	Source     string
	Target     string
	Constraint Constraint
}

// NewLink parses constraint and builds a link from source to target.
func NewLink(source, target, constraint string) (Link, error) {
	c, err := ParseConstraint(constraint)
	if err != nil {
		return Link{}, zerr.With(zerr.With(err, "package", source), "requires", target)
	}
	return Link{Source: normalizeName(source), Target: normalizeName(target), Constraint: c}, nil
}

func (l Link) String() string {
	return fmt.Sprintf("%s requires %s (%s)", l.Source, l.Target, l.Constraint)
}

// Dist describes where a package's files come from.
type Dist struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Reference string `json:"reference,omitempty"`
	Shasum    string `json:"shasum,omitempty"`
}

// Abandoned marks a package its authors no longer maintain.
type Abandoned struct {
	Replacement string
}

// MarshalJSON encodes the replacement name, or true when none was suggested.
func (a Abandoned) MarshalJSON() ([]byte, error) {
	if a.Replacement == "" {
		return []byte("true"), nil
	}
	return json.Marshal(a.Replacement)
}

// UnmarshalJSON accepts a boolean or a replacement package name.
func (a *Abandoned) UnmarshalJSON(data []byte) error {
	var replacement string
	if err := json.Unmarshal(data, &replacement); err == nil {
		a.Replacement = replacement
		return nil
	}
	var flag bool
	if err := json.Unmarshal(data, &flag); err != nil {
		return err
	}
	return nil
}

// Package is a single package in a resolution run. Role-specific behaviour
// branches on Kind rather than on separate types.
type Package struct {
	Name         string
	PrettyName   string
	Version      Version
	Kind         Kind
	Type         string
	MemberType   MemberType
	Description  string
	Requires     []Link
	DevRequires  []Link
	Autoload     AutoloadSpec
	DevAutoload  AutoloadSpec
	TargetDir    string
	Dist         *Dist
	Abandoned    *Abandoned
	Dir          string
	ManifestPath string
}

func (p *Package) String() string {
	return p.PrettyName + " (" + p.Version.String() + ")"
}

// Capabilities returns the capability table entry for the package's kind.
func (p *Package) Capabilities() Capabilities {
	return p.Kind.Capabilities()
}

// VendorDir returns the package's own vendor directory, or "" for kinds without one.
func (p *Package) VendorDir() string {
	if !p.Capabilities().OwnsVendor || p.Dir == "" {
		return ""
	}
	return filepath.Join(p.Dir, VendorDirName)
}

// Links returns requires, plus dev-requires when includeDev is set.
func (p *Package) Links(includeDev bool) []Link {
	links := slices.Clone(p.Requires)
	if includeDev {
		links = append(links, p.DevRequires...)
	}
	return links
}

// References reports whether the package requires target in either section.
func (p *Package) References(target string) bool {
	target = normalizeName(target)
	for _, l := range p.Requires {
		if l.Target == target {
			return true
		}
	}
	for _, l := range p.DevRequires {
		if l.Target == target {
			return true
		}
	}
	return false
}

// Clone returns a copy whose link slices can be modified independently.
func (p *Package) Clone() *Package {
	c := *p
	c.Requires = slices.Clone(p.Requires)
	c.DevRequires = slices.Clone(p.DevRequires)
	return &c
}

// SameRelease reports whether two packages carry the same version and dist reference.
func (p *Package) SameRelease(o *Package) bool {
	if !p.Version.Equal(o.Version) {
		return false
	}
	var ref, otherRef string
	if p.Dist != nil {
		ref = p.Dist.Reference
	}
	if o.Dist != nil {
		otherRef = o.Dist.Reference
	}
	return ref == otherRef
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeName lowercases a package name for use as an index key.
func NormalizeName(name string) string {
	return normalizeName(name)
}

// PackageDescriptor is the serialized form of a package shared by the lockfile,
// installed.json and inline repository definitions.
type PackageDescriptor struct {
	Name              string            `json:"name"`
	Version           string            `json:"version"`
	VersionNormalized string            `json:"version_normalized,omitempty"`
	Type              string            `json:"type,omitempty"`
	Description       string            `json:"description,omitempty"`
	TargetDir         string            `json:"target-dir,omitempty"`
	Dist              *Dist             `json:"dist,omitempty"`
	Require           map[string]string `json:"require,omitempty"`
	RequireDev        map[string]string `json:"require-dev,omitempty"`
	Autoload          *AutoloadSpec     `json:"autoload,omitempty"`
	AutoloadDev       *AutoloadSpec     `json:"autoload-dev,omitempty"`
	Abandoned         *Abandoned        `json:"abandoned,omitempty"`
	InstallPath       string            `json:"install-path,omitempty"`
}

// Descriptor serializes p.
func (p *Package) Descriptor() PackageDescriptor {
	d := PackageDescriptor{
		Name:              p.PrettyName,
		Version:           p.Version.String(),
		VersionNormalized: p.Version.Normalized(),
		Type:              p.Type,
		Description:       p.Description,
		TargetDir:         p.TargetDir,
		Dist:              p.Dist,
		Require:           linkMap(p.Requires),
		RequireDev:        linkMap(p.DevRequires),
		Abandoned:         p.Abandoned,
	}
	if !p.Autoload.IsEmpty() {
		a := p.Autoload
		d.Autoload = &a
	}
	if !p.DevAutoload.IsEmpty() {
		a := p.DevAutoload
		d.AutoloadDev = &a
	}
	return d
}

// Package builds a package of the given kind from d.
func (d PackageDescriptor) Package(kind Kind) (*Package, error) {
	if d.Name == "" {
		return nil, ErrMissingPackageName
	}
	v, err := ParseVersion(d.Version)
	if err != nil {
		return nil, zerr.With(err, "package", d.Name)
	}
	p := &Package{
		Name:        normalizeName(d.Name),
		PrettyName:  d.Name,
		Version:     v,
		Kind:        kind,
		Type:        d.Type,
		Description: d.Description,
		TargetDir:   d.TargetDir,
		Dist:        d.Dist,
		Abandoned:   d.Abandoned,
	}
	if p.Type == "" {
		p.Type = "library"
	}
	if p.Requires, err = ParseLinks(d.Name, d.Require); err != nil {
		return nil, err
	}
	if p.DevRequires, err = ParseLinks(d.Name, d.RequireDev); err != nil {
		return nil, err
	}
	if d.Autoload != nil {
		p.Autoload = *d.Autoload
	}
	if d.AutoloadDev != nil {
		p.DevAutoload = *d.AutoloadDev
	}
	return p, nil
}

// ParseLinks converts a name → constraint map into links sorted by target.
func ParseLinks(source string, requires map[string]string) ([]Link, error) {
	links := make([]Link, 0, len(requires))
	for _, target := range slices.Sorted(maps.Keys(requires)) {
		l, err := NewLink(source, target, requires[target])
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}

func linkMap(links []Link) map[string]string {
	if len(links) == 0 {
		return nil
	}
	out := make(map[string]string, len(links))
	for _, l := range links {
		out[l.Target] = l.Constraint.String()
	}
	return out
}

// MergeLinks replaces the links whose target appears in links, in whichever
// section holds them. With add set, links to targets the package does not
// reference yet are appended to the dev or non-dev section.
func (p *Package) MergeLinks(links []Link, dev, add bool) {
	for _, l := range links {
		l.Source = p.Name
		replaced := false
		for i := range p.Requires {
			if p.Requires[i].Target == l.Target {
				p.Requires[i] = l
				replaced = true
			}
		}
		for i := range p.DevRequires {
			if p.DevRequires[i].Target == l.Target {
				p.DevRequires[i] = l
				replaced = true
			}
		}
		if replaced || !add {
			continue
		}
		if dev {
			p.DevRequires = append(p.DevRequires, l)
		} else {
			p.Requires = append(p.Requires, l)
		}
	}
}
