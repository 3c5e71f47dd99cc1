package autoload

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed runtime/ClassLoader.php runtime/InstalledVersions.php
var runtimeFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// artifact is one generated file, relative to the vendor directory.
type artifact struct {
	path    string
	content []byte
}

// step renders one template into one artifact.
type step struct {
	path string
	name string
	data any
}

type emitInput struct {
	target      *domain.Package
	packages    []*domain.Package
	devPackages []*domain.Package
	dev         bool
	table       *domain.AutoloadTable
	vendorDir   string
	baseDir     string
	suffix      string
	installPath func(*domain.Package) string
}

// entry is a rendered key => value pair.
type entry struct {
	Key   string
	Value string
}

// prefixDirs is a rendered namespace prefix with its directories.
type prefixDirs struct {
	Key  string
	Dirs []string
}

type lengthGroup struct {
	Letter  string
	Lengths []entry
}

type prefixGroup struct {
	Letter   string
	Prefixes []prefixDirs
}

type staticData struct {
	Suffix            string
	Files             []entry
	PrefixLengthsPsr4 []lengthGroup
	PrefixDirsPsr4    []prefixDirs
	FallbackDirsPsr4  []string
	PrefixesPsr0      []prefixGroup
	FallbackDirsPsr0  []string
	ClassMap          []entry
	Properties        []string
}

type mapData struct {
	Name    string
	Entries []entry
}

type installedPackage struct {
	Name           string
	PrettyVersion  string
	Version        string
	Reference      string
	Type           string
	InstallPath    string
	DevRequirement bool
}

type installedData struct {
	Root     installedPackage
	Dev      bool
	Versions []installedPackage
}

// render produces every artifact of the autoloader.
func render(in emitInput) ([]artifact, error) {
	codes := pathCoder{vendorDir: in.vendorDir, baseDir: in.baseDir}
	psr4 := sortedNamespaces(in.table.PSR4)
	psr0 := sortedNamespaces(in.table.PSR0)

	var out []artifact
	add := func(path, name string, data any) error {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrAutoloadWriteFailed.Error()), "template", name)
		}
		out = append(out, artifact{path: path, content: buf.Bytes()})
		return nil
	}

	suffix := struct {
		Suffix   string
		HasFiles bool
	}{in.suffix, len(in.table.Files) > 0}

	steps := []step{
		{"autoload.php", "autoload.php.tmpl", suffix},
		{"composer/autoload_real.php", "autoload_real.php.tmpl", suffix},
		{"composer/autoload_static.php", "autoload_static.php.tmpl", staticTables(in, codes, psr0, psr4)},
		{"composer/autoload_namespaces.php", "autoload_map.php.tmpl", namespaceMap("autoload_namespaces.php", codes, in.table.PSR0, psr0)},
		{"composer/autoload_psr4.php", "autoload_map.php.tmpl", namespaceMap("autoload_psr4.php", codes, in.table.PSR4, psr4)},
		{"composer/autoload_classmap.php", "autoload_map.php.tmpl", classMap(codes, in.table)},
		{"composer/installed.php", "installed.php.tmpl", installed(in, codes)},
	}
	if len(in.table.Files) > 0 {
		steps = append(steps, step{"composer/autoload_files.php", "autoload_map.php.tmpl", filesMap(codes, in.table.Files)})
	}
	for _, s := range steps {
		if err := add(s.path, s.name, s.data); err != nil {
			return nil, err
		}
	}

	for _, name := range []string{"ClassLoader.php", "InstalledVersions.php"} {
		content, err := runtimeFS.ReadFile("runtime/" + name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrAutoloadWriteFailed.Error()), "file", name)
		}
		out = append(out, artifact{path: "composer/" + name, content: content})
	}
	return out, nil
}

func staticTables(in emitInput, codes pathCoder, psr0, psr4 []string) staticData {
	data := staticData{Suffix: in.suffix}

	for _, f := range in.table.Files {
		data.Files = append(data.Files, entry{Key: phpString(f.ID), Value: codes.static(f.Path)})
	}

	for _, ns := range psr4 {
		dirs := staticDirs(codes, in.table.PSR4[ns])
		if ns == "" {
			data.FallbackDirsPsr4 = dirs
			continue
		}
		letter := phpString(ns[:1])
		if n := len(data.PrefixLengthsPsr4); n == 0 || data.PrefixLengthsPsr4[n-1].Letter != letter {
			data.PrefixLengthsPsr4 = append(data.PrefixLengthsPsr4, lengthGroup{Letter: letter})
		}
		group := &data.PrefixLengthsPsr4[len(data.PrefixLengthsPsr4)-1]
		group.Lengths = append(group.Lengths, entry{Key: phpString(ns), Value: strconv.Itoa(len(ns))})
		data.PrefixDirsPsr4 = append(data.PrefixDirsPsr4, prefixDirs{Key: phpString(ns), Dirs: dirs})
	}

	for _, ns := range psr0 {
		dirs := staticDirs(codes, in.table.PSR0[ns])
		if ns == "" {
			data.FallbackDirsPsr0 = dirs
			continue
		}
		letter := phpString(ns[:1])
		if n := len(data.PrefixesPsr0); n == 0 || data.PrefixesPsr0[n-1].Letter != letter {
			data.PrefixesPsr0 = append(data.PrefixesPsr0, prefixGroup{Letter: letter})
		}
		group := &data.PrefixesPsr0[len(data.PrefixesPsr0)-1]
		group.Prefixes = append(group.Prefixes, prefixDirs{Key: phpString(ns), Dirs: dirs})
	}

	for _, class := range in.table.Classes() {
		data.ClassMap = append(data.ClassMap, entry{Key: phpString(class), Value: codes.static(in.table.Classmap[class])})
	}

	if len(data.PrefixLengthsPsr4) > 0 {
		data.Properties = append(data.Properties, "prefixLengthsPsr4", "prefixDirsPsr4")
	}
	if len(data.FallbackDirsPsr4) > 0 {
		data.Properties = append(data.Properties, "fallbackDirsPsr4")
	}
	if len(data.PrefixesPsr0) > 0 {
		data.Properties = append(data.Properties, "prefixesPsr0")
	}
	if len(data.FallbackDirsPsr0) > 0 {
		data.Properties = append(data.Properties, "fallbackDirsPsr0")
	}
	data.Properties = append(data.Properties, "classMap")
	return data
}

func staticDirs(codes pathCoder, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, codes.static(d))
	}
	return out
}

func namespaceMap(name string, codes pathCoder, rules map[string][]string, order []string) mapData {
	data := mapData{Name: name}
	for _, ns := range order {
		dirs := make([]string, 0, len(rules[ns]))
		for _, d := range rules[ns] {
			dirs = append(dirs, codes.runtime(d))
		}
		data.Entries = append(data.Entries, entry{Key: phpString(ns), Value: "array(" + strings.Join(dirs, ", ") + ")"})
	}
	return data
}

func classMap(codes pathCoder, table *domain.AutoloadTable) mapData {
	data := mapData{Name: "autoload_classmap.php"}
	for _, class := range table.Classes() {
		data.Entries = append(data.Entries, entry{Key: phpString(class), Value: codes.runtime(table.Classmap[class])})
	}
	return data
}

func filesMap(codes pathCoder, files []domain.AutoloadFile) mapData {
	data := mapData{Name: "autoload_files.php"}
	for _, f := range files {
		data.Entries = append(data.Entries, entry{Key: phpString(f.ID), Value: codes.runtime(f.Path)})
	}
	return data
}

func installed(in emitInput, codes pathCoder) installedData {
	root := installedPackage{
		Name:          phpString(in.target.PrettyName),
		PrettyVersion: phpString(in.target.Version.String()),
		Version:       phpString(in.target.Version.Normalized()),
		Reference:     reference(in.target),
		Type:          phpString(in.target.Type),
		InstallPath:   codes.static(in.baseDir),
	}
	data := installedData{Root: root, Dev: in.dev}

	versions := []installedPackage{{
		Name:          root.Name,
		PrettyVersion: root.PrettyVersion,
		Version:       root.Version,
		Reference:     root.Reference,
		Type:          root.Type,
		InstallPath:   root.InstallPath,
	}}
	add := func(p *domain.Package, dev bool) {
		versions = append(versions, installedPackage{
			Name:           phpString(p.PrettyName),
			PrettyVersion:  phpString(p.Version.String()),
			Version:        phpString(p.Version.Normalized()),
			Reference:      reference(p),
			Type:           phpString(p.Type),
			InstallPath:    codes.static(in.installPath(p)),
			DevRequirement: dev,
		})
	}
	for _, p := range in.packages {
		add(p, false)
	}
	if in.dev {
		for _, p := range in.devPackages {
			add(p, true)
		}
	}
	slices.SortStableFunc(versions[1:], func(a, b installedPackage) int { return strings.Compare(a.Name, b.Name) })
	data.Versions = versions
	return data
}

func reference(p *domain.Package) string {
	if p.Dist == nil || p.Dist.Reference == "" {
		return "null"
	}
	return phpString(p.Dist.Reference)
}

// sortedNamespaces returns the namespaces of rules in reverse order so longer
// prefixes precede the prefixes they extend.
func sortedNamespaces(rules map[string][]string) []string {
	out := slices.Sorted(maps.Keys(rules))
	slices.Reverse(out)
	return out
}

// pathCoder renders absolute paths as relocatable PHP expressions.
type pathCoder struct {
	vendorDir string
	baseDir   string
}

// runtime renders path for the autoload_*.php maps, which define $vendorDir and $baseDir.
func (c pathCoder) runtime(path string) string {
	if rel, ok := c.belowVendor(path); ok {
		return concat("$vendorDir", rel)
	}
	if rel, ok := c.belowBase(path); ok {
		return concat("$baseDir", rel)
	}
	return phpString(filepath.ToSlash(path))
}

// static renders path relative to the vendor/composer directory.
func (c pathCoder) static(path string) string {
	if rel, ok := c.belowVendor(path); ok {
		return concat("__DIR__ . '/..'", rel)
	}
	if rel, ok := c.belowBase(path); ok {
		return concat("__DIR__ . '/../..'", rel)
	}
	return phpString(filepath.ToSlash(path))
}

func (c pathCoder) belowVendor(path string) (string, bool) {
	slashed, vendor := filepath.ToSlash(path), filepath.ToSlash(c.vendorDir)
	if !strings.HasPrefix(slashed+"/", vendor+"/") {
		return "", false
	}
	return strings.TrimPrefix(slashed, vendor), true
}

func (c pathCoder) belowBase(path string) (string, bool) {
	rel, err := filepath.Rel(c.baseDir, path)
	if err != nil {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return "/" + filepath.ToSlash(rel), true
}

func concat(base, rel string) string {
	if rel == "" {
		return base
	}
	return base + " . " + phpString(rel)
}

// phpString renders s as a single-quoted PHP string literal.
func phpString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// writeArtifacts writes every artifact whose content changed and drops a
// stale autoload_files.php.
func writeArtifacts(vendorDir string, artifacts []artifact) error {
	if err := os.MkdirAll(domain.ComposerDir(vendorDir), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAutoloadWriteFailed.Error()), "path", vendorDir)
	}

	hasFiles := false
	for _, a := range artifacts {
		path := filepath.Join(vendorDir, filepath.FromSlash(a.path))
		if a.path == "composer/autoload_files.php" {
			hasFiles = true
		}
		if err := writeIfModified(path, a.content); err != nil {
			return err
		}
	}

	if !hasFiles {
		stale := filepath.Join(domain.ComposerDir(vendorDir), "autoload_files.php")
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrAutoloadWriteFailed.Error()), "path", stale)
		}
	}
	return nil
}

func writeIfModified(path string, content []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) { //nolint:gosec // Path is inside the package vendor directory
		return nil
	}
	if err := os.WriteFile(path, content, domain.FilePerm); err != nil { //nolint:gosec // Generated PHP is world-readable
		return zerr.With(zerr.Wrap(err, domain.ErrAutoloadWriteFailed.Error()), "path", path)
	}
	return nil
}
