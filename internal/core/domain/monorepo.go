package domain

import (
	"path/filepath"
	"slices"
)

// MonorepoConfig is the config.monorepo block of the root manifest plus the
// resolution policy declared at the root.
type MonorepoConfig struct {
	AppDirs             []string
	LibDirs             []string
	IndependentVersions bool
	MinimumStability    Stability
	PreferStable        bool
	PreferLowest        bool
}

// Settings are the optional tool settings read from conductor.yaml.
type Settings struct {
	Output       string            `yaml:"output"`
	NoDev        bool              `yaml:"no-dev"`
	SkipAutoload []string          `yaml:"skip-autoload"`
	Platform     map[string]string `yaml:"platform"`
}

// Monorepo is a loaded monorepo: the root, its members and the extra
// candidates declared through repositories and the platform.
type Monorepo struct {
	Root         *Package
	Members      []*Package
	Repositories []*Package
	Platform     []*Package
	Config       MonorepoConfig
	Settings     Settings
	// ContentHash fingerprints every manifest section that affects resolution.
	ContentHash string
	// WorkingDir is the directory the command was started from.
	WorkingDir string
}

// Member returns the member named name, or nil.
func (m *Monorepo) Member(name string) *Package {
	name = NormalizeName(name)
	for _, p := range m.Members {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// IsMember reports whether name is a monorepo member.
func (m *Monorepo) IsMember(name string) bool {
	return m.Member(name) != nil
}

// ActivePackage returns the member whose directory is the working directory, or nil.
func (m *Monorepo) ActivePackage() *Package {
	wd := filepath.Clean(m.WorkingDir)
	for _, p := range m.Members {
		if filepath.Clean(p.Dir) == wd {
			return p
		}
	}
	return nil
}

// Packages returns the root followed by the members.
func (m *Monorepo) Packages() []*Package {
	return append([]*Package{m.Root}, m.Members...)
}

// AutoloadDisabled reports whether autoload generation is turned off for name.
func (m *Monorepo) AutoloadDisabled(name string) bool {
	return slices.Contains(m.Settings.SkipAutoload, NormalizeName(name))
}

// Pool returns every candidate the solver may choose from.
func (m *Monorepo) Pool() *PackageIndex {
	idx := NewPackageIndex(m.Members...)
	for _, p := range m.Repositories {
		if !m.IsMember(p.Name) {
			idx.Add(p)
		}
	}
	for _, p := range m.Platform {
		idx.Add(p)
	}
	return idx
}
