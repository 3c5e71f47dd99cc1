package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

// Repositories accepts both the list form and the keyed object form of the
// repositories section. Disabled entries such as {"packagist.org": false} are dropped.
type Repositories []RepositoryDTO

// UnmarshalJSON decodes a list or an object of repository definitions.
func (r *Repositories) UnmarshalJSON(data []byte) error {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(data, &keyed); err != nil {
			return err
		}
		for _, key := range slices.Sorted(maps.Keys(keyed)) {
			list = append(list, keyed[key])
		}
	}

	out := make(Repositories, 0, len(list))
	for _, raw := range list {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("false")) {
			continue
		}
		var repo RepositoryDTO
		if err := json.Unmarshal(raw, &repo); err != nil {
			return err
		}
		out = append(out, repo)
	}
	*r = out
	return nil
}

// loadRepositories reads every repository declared by the root manifest.
func (l *Loader) loadRepositories(root string, repos Repositories) ([]*domain.Package, error) {
	var packages []*domain.Package

	for i, repo := range repos {
		var (
			loaded []*domain.Package
			err    error
		)

		switch repo.Type {
		case "package":
			loaded, err = loadPackageRepository(repo)
		case "path":
			loaded, err = l.loadPathRepository(root, repo)
		case "composer":
			loaded, err = l.loadComposerRepository(root, repo)
		default:
			err = zerr.With(domain.ErrInvalidRepository, "type", repo.Type)
		}
		if err != nil {
			return nil, zerr.With(err, "repository", i)
		}

		packages = append(packages, loaded...)
	}

	return packages, nil
}

func loadPackageRepository(repo RepositoryDTO) ([]*domain.Package, error) {
	if len(repo.Package) == 0 {
		return nil, zerr.With(domain.ErrInvalidRepository, "reason", "package repository without package")
	}

	var descriptors []domain.PackageDescriptor
	if err := json.Unmarshal(repo.Package, &descriptors); err != nil {
		var single domain.PackageDescriptor
		if err := json.Unmarshal(repo.Package, &single); err != nil {
			return nil, zerr.Wrap(err, domain.ErrInvalidRepository.Error())
		}
		descriptors = []domain.PackageDescriptor{single}
	}

	return dependencies(descriptors)
}

// loadPathRepository turns every directory matching the url glob into a package
// whose files are linked from that directory.
func (l *Loader) loadPathRepository(root string, repo RepositoryDTO) ([]*domain.Package, error) {
	if repo.URL == "" {
		return nil, zerr.With(domain.ErrInvalidRepository, "reason", "path repository without url")
	}

	pattern := repo.URL
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(root, pattern)
	}
	base, glob := doublestar.SplitPattern(filepath.ToSlash(pattern))

	dirs, err := l.Resolver.ResolveDirs(filepath.FromSlash(base), []string{glob})
	if err != nil {
		return nil, err
	}

	packages := make([]*domain.Package, 0, len(dirs))
	for _, dir := range dirs {
		manifestPath := filepath.Join(dir, domain.PackageFileName)
		if !isFile(l.FS, manifestPath) {
			l.Logger.Warn(fmt.Sprintf("%s missing in path repository %s, skipping", domain.PackageFileName, relativePath(root, dir)))
			continue
		}

		manifest, raw, err := l.readManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		if manifest.Name == "" {
			return nil, zerr.With(domain.ErrMissingPackageName, "directory", relativePath(root, dir))
		}

		version := manifest.Version
		if version == "" {
			version = "dev-main"
		}

		pkg, err := l.buildPackage(manifest, domain.KindDependency, version, dir, manifestPath)
		if err != nil {
			return nil, err
		}
		pkg.Dist = &domain.Dist{Type: "path", URL: relativePath(root, dir), Reference: l.Hasher.HashBytes(raw)}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// loadComposerRepository reads a local packages.json. Remote repositories are rejected.
func (l *Loader) loadComposerRepository(root string, repo RepositoryDTO) ([]*domain.Package, error) {
	url := repo.URL
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return nil, zerr.With(domain.ErrRemoteRepositoryUnsupported, "url", url)
	}
	url = strings.TrimPrefix(url, "file://")
	if url == "" {
		return nil, zerr.With(domain.ErrInvalidRepository, "reason", "composer repository without url")
	}

	path := url
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if info, err := l.FS.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "packages.json")
	}

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	var index PackagesFile
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}

	descriptors, err := decodePackageIndex(index.Packages)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}

	return dependencies(descriptors)
}

// decodePackageIndex accepts {"name": {"version": {...}}} or a flat list.
func decodePackageIndex(raw json.RawMessage) ([]domain.PackageDescriptor, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var list []domain.PackageDescriptor
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var keyed map[string]map[string]domain.PackageDescriptor
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, err
	}

	var out []domain.PackageDescriptor
	for _, name := range slices.Sorted(maps.Keys(keyed)) {
		versions := keyed[name]
		for _, version := range slices.Sorted(maps.Keys(versions)) {
			desc := versions[version]
			if desc.Name == "" {
				desc.Name = name
			}
			if desc.Version == "" {
				desc.Version = version
			}
			out = append(out, desc)
		}
	}
	return out, nil
}

func dependencies(descriptors []domain.PackageDescriptor) ([]*domain.Package, error) {
	packages := make([]*domain.Package, 0, len(descriptors))
	for _, desc := range descriptors {
		pkg, err := desc.Package(domain.KindDependency)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrInvalidRepository.Error())
		}
		if err := domain.ValidateAutoload(pkg.PrettyName, pkg.TargetDir, "autoload", pkg.Autoload); err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// buildPlatform merges config.platform with the conductor.yaml overrides.
// A version of "false" removes the entry.
func buildPlatform(declared, overrides map[string]string) ([]*domain.Package, error) {
	merged := maps.Clone(declared)
	if merged == nil {
		merged = make(map[string]string)
	}
	maps.Copy(merged, overrides)

	packages := make([]*domain.Package, 0, len(merged))
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		version := merged[name]
		if version == "false" {
			continue
		}
		if !domain.IsPlatformPackage(name) {
			return nil, zerr.With(zerr.With(domain.ErrInvalidRepository, "platform", name), "reason", "not a platform package")
		}
		pkg, err := domain.NewPlatformPackage(name, version)
		if err != nil {
			return nil, zerr.With(err, "platform", name)
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}
