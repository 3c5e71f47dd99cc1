package config

import (
	"encoding/json"

	"go.trai.ch/conductor/internal/core/domain"
)

// Manifest is the structure shared by monorepo.json and member composer.json files.
type Manifest struct {
	Name             string               `json:"name"`
	Version          string               `json:"version"`
	Type             string               `json:"type"`
	Description      string               `json:"description"`
	TargetDir        string               `json:"target-dir"`
	Require          map[string]string    `json:"require"`
	RequireDev       map[string]string    `json:"require-dev"`
	Autoload         *domain.AutoloadSpec `json:"autoload"`
	AutoloadDev      *domain.AutoloadSpec `json:"autoload-dev"`
	Repositories     Repositories         `json:"repositories"`
	Config           ConfigDTO            `json:"config"`
	MinimumStability string               `json:"minimum-stability"`
	PreferStable     bool                 `json:"prefer-stable"`
	PreferLowest     bool                 `json:"prefer-lowest"`
	Extra            json.RawMessage      `json:"extra,omitempty"`
	Abandoned        *domain.Abandoned    `json:"abandoned"`
}

// ConfigDTO is the config block of a manifest.
type ConfigDTO struct {
	Monorepo *MonorepoDTO      `json:"monorepo"`
	Platform map[string]string `json:"platform"`
}

// MonorepoDTO is the config.monorepo block of the root manifest.
type MonorepoDTO struct {
	AppDirs             []string `json:"app-dirs"`
	LibDirs             []string `json:"lib-dirs"`
	IndependentVersions bool     `json:"independent-versions"`
}

// RepositoryDTO is one entry of the repositories list.
type RepositoryDTO struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	// Package is a single descriptor or a list of descriptors for "package" repositories.
	Package json.RawMessage `json:"package"`
}

// PackagesFile is a local composer repository index (packages.json). Packages
// may be keyed by name then version, or given as a plain list.
type PackagesFile struct {
	Packages json.RawMessage `json:"packages"`
}

// fingerprint holds the manifest sections that influence resolution.
type fingerprint struct {
	Name             string            `json:"name,omitempty"`
	Version          string            `json:"version,omitempty"`
	Require          map[string]string `json:"require,omitempty"`
	RequireDev       map[string]string `json:"require-dev,omitempty"`
	MinimumStability string            `json:"minimum-stability,omitempty"`
	PreferStable     bool              `json:"prefer-stable,omitempty"`
	PreferLowest     bool              `json:"prefer-lowest,omitempty"`
	Repositories     Repositories      `json:"repositories,omitempty"`
	Platform         map[string]string `json:"platform,omitempty"`
	Extra            json.RawMessage   `json:"extra,omitempty"`
}
