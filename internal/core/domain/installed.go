package domain

import "slices"

// InstalledState is the content of vendor/composer/installed.json.
type InstalledState struct {
	Packages        []PackageDescriptor `json:"packages"`
	Dev             bool                `json:"dev"`
	DevPackageNames []string            `json:"dev-package-names"`
}

// InstalledPackages decodes the recorded packages.
func (s *InstalledState) InstalledPackages() ([]*Package, error) {
	if s == nil {
		return nil, nil
	}
	out := make([]*Package, 0, len(s.Packages))
	for _, d := range s.Packages {
		p, err := d.Package(KindDependency)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// IsDevPackage reports whether name was installed as a dev-only package.
func (s *InstalledState) IsDevPackage(name string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.DevPackageNames, NormalizeName(name))
}
