package domain

import "path/filepath"

const (
	// MonorepoFileName is the name of the root manifest.
	MonorepoFileName = "monorepo.json"

	// LockFileName is the name of the shared lockfile, a sibling of the root manifest.
	LockFileName = "monorepo.lock"

	// PackageFileName is the name of a member package manifest.
	PackageFileName = "composer.json"

	// SettingsFileName is the name of the optional tool settings file at the monorepo root.
	SettingsFileName = "conductor.yaml"

	// VendorDirName is the name of a package's vendor directory.
	VendorDirName = "vendor"

	// ComposerDirName is the name of the metadata directory inside a vendor directory.
	ComposerDirName = "composer"

	// InstalledFileName is the name of the per-package install state file.
	InstalledFileName = "installed.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// LockPath returns the lockfile path for a monorepo rooted at root.
func LockPath(root string) string {
	return filepath.Join(root, LockFileName)
}

// ComposerDir returns vendor/composer for the given vendor directory.
func ComposerDir(vendorDir string) string {
	return filepath.Join(vendorDir, ComposerDirName)
}

// InstalledPath returns vendor/composer/installed.json for the given vendor directory.
func InstalledPath(vendorDir string) string {
	return filepath.Join(vendorDir, ComposerDirName, InstalledFileName)
}
