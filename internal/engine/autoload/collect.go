package autoload

import (
	"crypto/md5" //nolint:gosec // File identifiers match the PHP runtime's md5(name:path) keys
	"encoding/hex"
	"path/filepath"
	"slices"

	"go.trai.ch/conductor/internal/core/domain"
)

// autoloads holds the declarations of every participating package with
// absolute paths.
type autoloads struct {
	psr0     map[string][]string
	psr4     map[string][]string
	classmap []string
	exclude  []string
	files    []domain.AutoloadFile
}

type participant struct {
	pkg         *domain.Package
	spec        domain.AutoloadSpec
	installPath string
}

// collect gathers the autoload declarations of target and deps. Namespace
// rules list the target first, the classmap lists the target first followed by
// the dependencies in reverse dependency order, and files run dependencies first.
func (g *Generator) collect(target *domain.Package, deps []*domain.Package, vendorDir string, dev bool) autoloads {
	self := participant{pkg: target, spec: target.Autoload, installPath: target.Dir}
	if dev {
		self.spec = self.spec.Merge(target.DevAutoload)
	}

	sorted := make([]participant, 0, len(deps)+1)
	for _, p := range domain.SortByDependencies(deps) {
		sorted = append(sorted, participant{pkg: p, spec: p.Autoload, installPath: g.installer.InstallPath(vendorDir, p)})
	}

	namespaced := append([]participant{self}, sorted...)
	ordered := append(slices.Clone(sorted), self)
	reversed := slices.Clone(ordered)
	slices.Reverse(reversed)

	out := autoloads{
		psr0: make(map[string][]string),
		psr4: make(map[string][]string),
	}
	for _, p := range namespaced {
		addNamespaces(out.psr0, p.spec.PSR0, p.installPath)
		addNamespaces(out.psr4, p.spec.PSR4, p.installPath)
	}
	for _, p := range reversed {
		for _, path := range p.spec.Classmap {
			out.classmap = append(out.classmap, join(p.installPath, path))
		}
		for _, pattern := range p.spec.ExcludeFromClassmap {
			out.exclude = append(out.exclude, filepath.ToSlash(join(p.installPath, pattern)))
		}
	}
	for _, p := range ordered {
		for _, path := range p.spec.Files {
			out.files = append(out.files, domain.AutoloadFile{
				ID:   fileIdentifier(p.pkg.Name, path),
				Path: join(p.installPath, path),
			})
		}
	}
	return out
}

func addNamespaces(dst, rules map[string][]string, installPath string) {
	for ns, paths := range rules {
		for _, path := range paths {
			dst[ns] = append(dst[ns], join(installPath, path))
		}
	}
}

func join(installPath, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(installPath, filepath.FromSlash(path))
}

func fileIdentifier(name, path string) string {
	sum := md5.Sum([]byte(name + ":" + path)) //nolint:gosec // Identifier, not a security boundary
	return hex.EncodeToString(sum[:])
}
