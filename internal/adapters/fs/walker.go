// Package fs provides file system adapters for walking, globbing and hashing files.
package fs

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileWalker = (*Walker)(nil)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root in lexical order, skipping .git, .jj
// and ignored entries. A symlinked root is followed, but yielded paths keep
// the root prefix as given so vendor-relative paths stay stable. A missing
// root yields nothing. Any other I/O failure is yielded once with the failing
// path and ends the walk.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resolved, err := filepath.EvalSymlinks(root)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			yield(root, zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "path", root))
			return
		}

		_ = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			display := filepath.Join(root, relative(resolved, path))
			if err != nil {
				yield(display, zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "path", display))
				return filepath.SkipAll
			}

			if path != resolved {
				if skip, action := w.shouldSkip(d, ignores); skip {
					return action
				}
			}

			if d.IsDir() {
				return nil
			}

			if !yield(display, nil) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

func relative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

// shouldSkip reports whether d is excluded, and the WalkDir action to take.
func (w *Walker) shouldSkip(d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true, filepath.SkipDir
	}

	for _, ignore := range ignores {
		matched, _ := filepath.Match(ignore, name)
		if matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}

	return false, nil
}
