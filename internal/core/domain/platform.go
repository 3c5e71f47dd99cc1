package domain

import "regexp"

var platformPackageRe = regexp.MustCompile(
	`(?i)^(?:php(?:-64bit|-ipv6|-zts|-debug)?|hhvm|(?:ext|lib)-[a-z0-9](?:[_.-]?[a-z0-9]+)*|composer(?:-(?:plugin|runtime)-api)?)$`,
)

// IsPlatformPackage reports whether name refers to the language runtime, one of
// its extensions, a system library or the package manager API itself.
func IsPlatformPackage(name string) bool {
	return platformPackageRe.MatchString(name)
}

// PlatformRequirements extracts target → pretty constraint for every platform link.
func PlatformRequirements(links []Link) map[string]string {
	out := make(map[string]string)
	for _, l := range links {
		if IsPlatformPackage(l.Target) {
			out[l.Target] = l.Constraint.String()
		}
	}
	return out
}

// NewPlatformPackage creates a fixed pseudo-package for a platform entry.
func NewPlatformPackage(name, version string) (*Package, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return &Package{
		Name:       normalizeName(name),
		PrettyName: name,
		Version:    v,
		Kind:       KindPlatform,
		Type:       "platform",
	}, nil
}
