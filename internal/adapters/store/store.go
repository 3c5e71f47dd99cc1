// Package store persists the shared lockfile and per-package install state as JSON.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

// LockStore implements ports.LockStore with a monorepo.lock next to monorepo.json.
type LockStore struct{}

// NewLockStore creates a LockStore.
func NewLockStore() *LockStore {
	return &LockStore{}
}

// Get reads the lockfile of the monorepo rooted at root.
func (s *LockStore) Get(root string) (*domain.Lockfile, error) {
	path := domain.LockPath(root)
	data, err := readOptional(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockReadFailed.Error()), "path", path)
	}
	if data == nil {
		return nil, nil
	}

	var lock domain.Lockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockParseFailed.Error()), "path", path)
	}
	lock.Normalize()
	return &lock, nil
}

// Put writes the lockfile of the monorepo rooted at root.
func (s *LockStore) Put(root string, lock *domain.Lockfile) error {
	lock.Normalize()
	data, err := encode(lock)
	if err != nil {
		return zerr.Wrap(err, domain.ErrLockMarshalFailed.Error())
	}

	path := domain.LockPath(root)
	//nolint:gosec // Path is the lockfile of a discovered monorepo
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrLockWriteFailed.Error()), "path", path)
	}
	return nil
}

// InstalledStore implements ports.InstalledStore with vendor/composer/installed.json.
type InstalledStore struct{}

// NewInstalledStore creates an InstalledStore.
func NewInstalledStore() *InstalledStore {
	return &InstalledStore{}
}

// Get reads the install state recorded in vendorDir.
func (s *InstalledStore) Get(vendorDir string) (*domain.InstalledState, error) {
	path := domain.InstalledPath(vendorDir)
	data, err := readOptional(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInstalledReadFailed.Error()), "path", path)
	}
	if data == nil {
		return nil, nil
	}

	var state domain.InstalledState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInstalledParseFailed.Error()), "path", path)
	}
	return &state, nil
}

// Put records the install state in vendorDir.
func (s *InstalledStore) Put(vendorDir string, state *domain.InstalledState) error {
	if state.Packages == nil {
		state.Packages = []domain.PackageDescriptor{}
	}
	if state.DevPackageNames == nil {
		state.DevPackageNames = []string{}
	}

	data, err := encode(state)
	if err != nil {
		return zerr.Wrap(err, domain.ErrInstalledWriteFailed.Error())
	}

	path := domain.InstalledPath(vendorDir)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstalledWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // Path is inside a package vendor directory
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstalledWriteFailed.Error()), "path", path)
	}
	return nil
}

// readOptional returns nil, nil when path does not exist.
func readOptional(path string) ([]byte, error) {
	//nolint:gosec // Callers pass paths derived from the monorepo layout
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// encode writes four-space indented JSON without HTML escaping, newline terminated.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
