package fs

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands package directory patterns such as "src/*" or
// "packages/{api,web}" into concrete directories.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveDirs returns the sorted, de-duplicated directories under root that
// match any of patterns. A pattern without matches yields nothing.
func (r *Resolver) ResolveDirs(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	unique := make(map[string]bool)

	for _, pattern := range patterns {
		clean := filepath.ToSlash(filepath.Clean(pattern))
		if !doublestar.ValidatePattern(clean) {
			return nil, zerr.With(domain.ErrInvalidGlob, "pattern", pattern)
		}

		dirs, err := doublestar.Glob(fsys, clean)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidGlob.Error()), "pattern", pattern)
		}
		for _, match := range dirs {
			info, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(match)))
			if statErr != nil || !info.IsDir() {
				continue
			}
			unique[filepath.Join(root, filepath.FromSlash(match))] = true
		}
	}

	result := make([]string, 0, len(unique))
	for dir := range unique {
		result = append(result, dir)
	}
	sort.Strings(result)

	return result, nil
}
