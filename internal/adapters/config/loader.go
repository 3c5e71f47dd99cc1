// Package config loads the monorepo model from monorepo.json, the member
// composer.json files, the declared repositories and conductor.yaml.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// rootPackageName is used when the root manifest does not declare a name.
const rootPackageName = "__root__"

// DirResolver expands directory patterns relative to a base directory.
type DirResolver interface {
	ResolveDirs(root string, patterns []string) ([]string, error)
}

var _ ports.MonorepoLoader = (*Loader)(nil)

// Loader implements ports.MonorepoLoader.
type Loader struct {
	Logger   ports.Logger
	Hasher   ports.Hasher
	Resolver DirResolver
	FS       FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger, hasher ports.Hasher, resolver DirResolver) *Loader {
	return &Loader{Logger: logger, Hasher: hasher, Resolver: resolver, FS: NewOSFS()}
}

// memberManifest pairs a loaded member with the manifest it came from.
type memberManifest struct {
	pkg      *domain.Package
	manifest *Manifest
}

// FindRoot walks up from cwd until it finds a directory containing monorepo.json.
func (l *Loader) FindRoot(cwd string) (string, error) {
	currentDir := cwd
	for {
		if isFile(l.FS, filepath.Join(currentDir, domain.MonorepoFileName)) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrMonorepoNotFound, "cwd", cwd)
}

// Load reads the monorepo containing cwd.
func (l *Loader) Load(cwd string) (*domain.Monorepo, error) {
	wd := canonicalDir(cwd)

	root, err := l.FindRoot(wd)
	if err != nil {
		return nil, err
	}

	rootPath := filepath.Join(root, domain.MonorepoFileName)
	manifest, _, err := l.readManifest(rootPath)
	if err != nil {
		return nil, err
	}

	if manifest.Version == "" {
		return nil, zerr.With(domain.ErrMissingRootVersion, "path", rootPath)
	}
	if manifest.Config.Monorepo == nil {
		return nil, zerr.With(domain.ErrMissingMonorepoConfig, "path", rootPath)
	}

	if manifest.Name == "" {
		manifest.Name = rootPackageName
	}
	rootPkg, err := l.buildPackage(manifest, domain.KindRoot, manifest.Version, root, rootPath)
	if err != nil {
		return nil, err
	}

	cfg, err := monorepoConfig(manifest, rootPath)
	if err != nil {
		return nil, err
	}

	settings, err := l.loadSettings(root)
	if err != nil {
		return nil, err
	}

	members, err := l.loadMembers(root, manifest.Config.Monorepo, manifest.Version)
	if err != nil {
		return nil, err
	}

	repositories, err := l.loadRepositories(root, manifest.Repositories)
	if err != nil {
		return nil, err
	}

	platform, err := buildPlatform(manifest.Config.Platform, settings.Platform)
	if err != nil {
		return nil, err
	}

	memberPkgs := make([]*domain.Package, 0, len(members))
	for _, m := range members {
		memberPkgs = append(memberPkgs, m.pkg)
	}

	return &domain.Monorepo{
		Root:         rootPkg,
		Members:      memberPkgs,
		Repositories: repositories,
		Platform:     platform,
		Config:       cfg,
		Settings:     settings,
		ContentHash:  l.contentHash(manifest, members, cfg.IndependentVersions),
		WorkingDir:   wd,
	}, nil
}

func (l *Loader) loadMembers(root string, dto *MonorepoDTO, rootVersion string) ([]memberManifest, error) {
	groups := []struct {
		patterns   []string
		memberType domain.MemberType
	}{
		{dto.AppDirs, domain.MemberApplication},
		{dto.LibDirs, domain.MemberLibrary},
	}

	seenDirs := make(map[string]bool)
	packageNames := make(map[string]string)
	var members []memberManifest

	for _, group := range groups {
		dirs, err := l.Resolver.ResolveDirs(root, group.patterns)
		if err != nil {
			return nil, err
		}

		for _, dir := range dirs {
			if seenDirs[dir] {
				continue
			}
			seenDirs[dir] = true

			member, err := l.loadMember(root, dir, dto.IndependentVersions, rootVersion)
			if err != nil {
				return nil, err
			}
			if member.pkg == nil {
				continue
			}

			relPath := member.pkg.Dist.URL
			if existingPath, exists := packageNames[member.pkg.Name]; exists {
				err := zerr.With(domain.ErrDuplicatePackageName, "package_name", member.pkg.PrettyName)
				err = zerr.With(err, "first_occurrence", existingPath)
				err = zerr.With(err, "duplicate_at", relPath)
				return nil, err
			}
			packageNames[member.pkg.Name] = relPath

			member.pkg.MemberType = group.memberType
			members = append(members, member)
		}
	}

	return members, nil
}

func (l *Loader) loadMember(root, dir string, independent bool, rootVersion string) (memberManifest, error) {
	relPath := relativePath(root, dir)

	manifestPath := filepath.Join(dir, domain.PackageFileName)
	if !isFile(l.FS, manifestPath) {
		l.Logger.Warn(fmt.Sprintf("%s missing in %s, skipping", domain.PackageFileName, relPath))
		return memberManifest{}, nil
	}

	manifest, raw, err := l.readManifest(manifestPath)
	if err != nil {
		return memberManifest{}, err
	}
	if manifest.Name == "" {
		return memberManifest{}, zerr.With(domain.ErrMissingPackageName, "directory", relPath)
	}

	version := rootVersion
	if independent && manifest.Version != "" {
		version = manifest.Version
	}

	pkg, err := l.buildPackage(manifest, domain.KindMember, version, dir, manifestPath)
	if err != nil {
		return memberManifest{}, err
	}
	pkg.Dist = &domain.Dist{Type: "path", URL: relPath, Reference: l.Hasher.HashBytes(raw)}

	return memberManifest{pkg: pkg, manifest: manifest}, nil
}

// buildPackage converts a manifest into a validated package of the given kind.
func (l *Loader) buildPackage(m *Manifest, kind domain.Kind, version, dir, manifestPath string) (*domain.Package, error) {
	desc := domain.PackageDescriptor{
		Name:        m.Name,
		Version:     version,
		Type:        m.Type,
		Description: m.Description,
		TargetDir:   m.TargetDir,
		Require:     m.Require,
		RequireDev:  m.RequireDev,
		Autoload:    m.Autoload,
		AutoloadDev: m.AutoloadDev,
		Abandoned:   m.Abandoned,
	}

	pkg, err := desc.Package(kind)
	if err != nil {
		return nil, zerr.With(err, "path", manifestPath)
	}

	if err := domain.ValidateAutoload(pkg.PrettyName, pkg.TargetDir, "autoload", pkg.Autoload); err != nil {
		return nil, zerr.With(err, "path", manifestPath)
	}
	if err := domain.ValidateAutoload(pkg.PrettyName, pkg.TargetDir, "autoload-dev", pkg.DevAutoload); err != nil {
		return nil, zerr.With(err, "path", manifestPath)
	}

	pkg.Dir = dir
	pkg.ManifestPath = manifestPath
	return pkg, nil
}

func monorepoConfig(m *Manifest, rootPath string) (domain.MonorepoConfig, error) {
	cfg := domain.MonorepoConfig{
		AppDirs:             m.Config.Monorepo.AppDirs,
		LibDirs:             m.Config.Monorepo.LibDirs,
		IndependentVersions: m.Config.Monorepo.IndependentVersions,
		MinimumStability:    domain.StabilityStable,
		PreferStable:        m.PreferStable,
		PreferLowest:        m.PreferLowest,
	}

	if m.MinimumStability != "" {
		stability, ok := domain.ParseStability(m.MinimumStability)
		if !ok {
			err := zerr.With(domain.ErrManifestParseFailed, "field", "minimum-stability")
			err = zerr.With(err, "value", m.MinimumStability)
			return cfg, zerr.With(err, "path", rootPath)
		}
		cfg.MinimumStability = stability
	}

	return cfg, nil
}

func (l *Loader) loadSettings(root string) (domain.Settings, error) {
	var settings domain.Settings

	path := filepath.Join(root, domain.SettingsFileName)
	data, err := l.FS.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrSettingsParseFailed.Error()), "path", path)
	}

	for i, name := range settings.SkipAutoload {
		settings.SkipAutoload[i] = domain.NormalizeName(name)
	}

	return settings, nil
}

// readManifest reads and decodes a manifest, returning the raw bytes as well.
func (l *Loader) readManifest(path string) (*Manifest, []byte, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}

	return &manifest, data, nil
}

// contentHash fingerprints every section of the root and member manifests
// that influences resolution.
func (l *Loader) contentHash(root *Manifest, members []memberManifest, independent bool) string {
	chunks := make([][]byte, 0, len(members)+1)

	rootFingerprint := fingerprint{
		Name:             root.Name,
		Version:          root.Version,
		Require:          root.Require,
		RequireDev:       root.RequireDev,
		MinimumStability: root.MinimumStability,
		PreferStable:     root.PreferStable,
		PreferLowest:     root.PreferLowest,
		Repositories:     root.Repositories,
		Platform:         root.Config.Platform,
		Extra:            root.Extra,
	}
	chunks = append(chunks, mustMarshal(rootFingerprint))

	for _, member := range members {
		memberFingerprint := fingerprint{
			Name:       member.pkg.Name,
			Require:    member.manifest.Require,
			RequireDev: member.manifest.RequireDev,
		}
		if independent {
			memberFingerprint.Version = member.manifest.Version
		}
		chunks = append(chunks, mustMarshal(memberFingerprint))
	}

	return l.Hasher.HashBytes(chunks...)
}

// mustMarshal encodes values that are built from decoded JSON and therefore
// always encodable.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func canonicalDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Clean(dir)
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
