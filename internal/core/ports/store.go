package ports

import "go.trai.ch/conductor/internal/core/domain"

// LockStore defines the interface for persisting the shared lockfile.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LockStore interface {
	// Get reads the lockfile of the monorepo rooted at root.
	// Returns nil, nil if not found.
	Get(root string) (*domain.Lockfile, error)

	// Put writes the lockfile of the monorepo rooted at root.
	Put(root string, lock *domain.Lockfile) error
}

// InstalledStore defines the interface for persisting per-package install state.
type InstalledStore interface {
	// Get reads the install state recorded in vendorDir.
	// Returns nil, nil if nothing was installed yet.
	Get(vendorDir string) (*domain.InstalledState, error)

	// Put records the install state in vendorDir.
	Put(vendorDir string, state *domain.InstalledState) error
}
