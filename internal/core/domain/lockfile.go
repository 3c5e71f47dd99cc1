package domain

// LockReadme is written at the top of every lockfile.
var LockReadme = []string{
	"This file locks the dependencies of your monorepo to a known state",
	"Read more about it at https://getcomposer.org/doc/01-basic-usage.md#installing-dependencies",
	"This file is @generated automatically",
}

// Lockfile is the persisted result of the primary solve.
type Lockfile struct {
	Readme           []string            `json:"_readme"`
	ContentHash      string              `json:"content-hash"`
	Packages         []PackageDescriptor `json:"packages"`
	PackagesDev      []PackageDescriptor `json:"packages-dev"`
	Aliases          []Alias             `json:"aliases"`
	MinimumStability string              `json:"minimum-stability"`
	StabilityFlags   map[string]int      `json:"stability-flags"`
	PreferStable     bool                `json:"prefer-stable"`
	PreferLowest     bool                `json:"prefer-lowest"`
	Platform         map[string]string   `json:"platform"`
	PlatformDev      map[string]string   `json:"platform-dev"`
}

// Normalize replaces nil collections with empty ones so the encoded form is stable.
func (l *Lockfile) Normalize() {
	if l.Readme == nil {
		l.Readme = LockReadme
	}
	if l.Packages == nil {
		l.Packages = []PackageDescriptor{}
	}
	if l.PackagesDev == nil {
		l.PackagesDev = []PackageDescriptor{}
	}
	if l.Aliases == nil {
		l.Aliases = []Alias{}
	}
	if l.StabilityFlags == nil {
		l.StabilityFlags = map[string]int{}
	}
	if l.Platform == nil {
		l.Platform = map[string]string{}
	}
	if l.PlatformDev == nil {
		l.PlatformDev = map[string]string{}
	}
	if l.MinimumStability == "" {
		l.MinimumStability = StabilityStable.String()
	}
}

// LockedPackages decodes the locked packages, including dev packages when dev is set.
// Members are decoded as KindMember so they keep their role.
func (l *Lockfile) LockedPackages(dev bool, isMember func(name string) bool) ([]*Package, error) {
	sections := [][]PackageDescriptor{l.Packages}
	if dev {
		sections = append(sections, l.PackagesDev)
	}
	var out []*Package
	for _, section := range sections {
		for _, d := range section {
			kind := KindDependency
			if isMember != nil && isMember(NormalizeName(d.Name)) {
				kind = KindMember
			}
			p, err := d.Package(kind)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// DevPackageNames returns the normalized names of the dev section.
func (l *Lockfile) DevPackageNames() map[string]bool {
	out := make(map[string]bool, len(l.PackagesDev))
	for _, d := range l.PackagesDev {
		out[NormalizeName(d.Name)] = true
	}
	return out
}
