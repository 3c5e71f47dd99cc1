// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/conductor/internal/core/domain"

// MonorepoLoader defines the interface for loading the monorepo model.
//
//go:generate mockgen -source=monorepo.go -destination=mocks/mock_monorepo.go -package=mocks
type MonorepoLoader interface {
	// Load discovers the monorepo containing cwd and reads the root, every
	// member manifest and every declared repository.
	Load(cwd string) (*domain.Monorepo, error)

	// FindRoot walks up from cwd to the directory containing monorepo.json.
	FindRoot(cwd string) (string, error)
}

// ManifestChange sets or removes one link in a manifest section.
type ManifestChange struct {
	// Section is "require" or "require-dev".
	Section    string
	Package    string
	Constraint string
	Remove     bool
}

// ManifestWriter defines the interface for editing manifests in place.
type ManifestWriter interface {
	// Update applies changes to the manifest at path, preserving unrelated
	// content. It reports whether the file was modified.
	Update(path string, changes []ManifestChange) (bool, error)

	// Create writes a default monorepo.json into dir.
	Create(dir string) error
}
