package autoload

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

var sourceExtensions = []string{".php", ".inc", ".hh"}

// namespaceRule is one namespace prefix of one standard with its directories.
type namespaceRule struct {
	namespace string
	standard  domain.Standard
	dirs      []string
}

// tableBuilder attributes classes found on disk to files.
type tableBuilder struct {
	g         *Generator
	baseDir   string
	vendorDir string
	exclude   []string
	table     *domain.AutoloadTable
	scanned   map[string]bool
}

// buildTable seeds the classmap from explicit classmap paths, then scans the
// PSR-0 and PSR-4 directories with the longest namespaces first.
func (g *Generator) buildTable(ctx context.Context, baseDir, vendorDir string, loads autoloads) (*domain.AutoloadTable, error) {
	b := &tableBuilder{
		g:         g,
		baseDir:   baseDir,
		vendorDir: vendorDir,
		exclude:   loads.exclude,
		table:     domain.NewAutoloadTable(),
		scanned:   make(map[string]bool),
	}

	for _, path := range loads.classmap {
		if _, err := os.Stat(path); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", path)
		}
		if err := b.scan(ctx, path, "", ""); err != nil {
			return nil, err
		}
	}

	for _, rule := range namespaceRules(loads) {
		for _, dir := range rule.dirs {
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}
			if err := b.scan(ctx, dir, rule.namespace, rule.standard); err != nil {
				return nil, err
			}
		}
	}

	maps.Copy(b.table.PSR0, loads.psr0)
	maps.Copy(b.table.PSR4, loads.psr4)
	return b.table, nil
}

// namespaceRules orders the rules by namespace, longest prefix first. PSR-0
// precedes PSR-4 for the same prefix.
func namespaceRules(loads autoloads) []namespaceRule {
	rules := make([]namespaceRule, 0, len(loads.psr0)+len(loads.psr4))
	for ns, dirs := range loads.psr0 {
		rules = append(rules, namespaceRule{namespace: ns, standard: domain.PSR0, dirs: dirs})
	}
	for ns, dirs := range loads.psr4 {
		rules = append(rules, namespaceRule{namespace: ns, standard: domain.PSR4, dirs: dirs})
	}
	slices.SortFunc(rules, func(a, b namespaceRule) int {
		return cmp.Or(
			strings.Compare(b.namespace, a.namespace),
			strings.Compare(string(a.standard), string(b.standard)),
		)
	})
	return rules
}

// scan attributes the classes declared below root. With a standard, classes
// whose location does not follow it are skipped.
func (b *tableBuilder) scan(ctx context.Context, root, namespace string, standard domain.Standard) error {
	var files []string
	for path, err := range b.g.walker.WalkFiles(root, []string{domain.VendorDirName}) {
		if err != nil {
			return err
		}
		if !isSource(path) || b.scanned[path] || b.excluded(path) {
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil
	}

	found, err := b.g.scanner.ScanFiles(ctx, files)
	if err != nil {
		return err
	}

	for i, path := range files {
		classes := found[i]
		if standard != "" {
			classes = b.comply(root, namespace, standard, path, classes)
			// A file without a compliant class may still match a shorter namespace.
			if len(classes) == 0 {
				continue
			}
		}
		b.scanned[path] = true
		for _, class := range classes {
			b.table.AddClass(class, path)
		}
	}
	return nil
}

// comply keeps the classes whose path below root matches standard.
func (b *tableBuilder) comply(root, namespace string, standard domain.Standard, path string, classes []string) []string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	var valid, rejected []string
	for _, class := range classes {
		if namespace != "" && !strings.HasPrefix(class, namespace) {
			continue
		}
		if expectedPath(class, namespace, standard) == rel {
			valid = append(valid, class)
		} else {
			rejected = append(rejected, class)
		}
	}

	if len(valid) == 0 && !b.inVendor(path) {
		for _, class := range rejected {
			b.g.logger.Warn(fmt.Sprintf(
				"Class %s located in %s does not comply with %s autoloading standard. Skipping.",
				class, b.display(path), standard,
			))
		}
	}
	return valid
}

// expectedPath is the extension-less path a class must live at below the
// directory mapped to namespace.
func expectedPath(class, namespace string, standard domain.Standard) string {
	if standard == domain.PSR4 {
		return strings.ReplaceAll(strings.TrimPrefix(class, namespace), `\`, "/")
	}
	i := strings.LastIndex(class, `\`)
	if i < 0 {
		return strings.ReplaceAll(class, "_", "/")
	}
	return strings.ReplaceAll(class[:i+1], `\`, "/") + strings.ReplaceAll(class[i+1:], "_", "/")
}

func (b *tableBuilder) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range b.exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/")+"/**", slashed); ok {
			return true
		}
	}
	return false
}

func (b *tableBuilder) inVendor(path string) bool {
	return strings.HasPrefix(path, b.vendorDir+string(filepath.Separator))
}

func (b *tableBuilder) display(path string) string {
	rel, err := filepath.Rel(b.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return "./" + filepath.ToSlash(rel)
}

func isSource(path string) bool {
	return slices.Contains(sourceExtensions, filepath.Ext(path))
}
