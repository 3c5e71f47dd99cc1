package domain

import "go.trai.ch/zerr"

var (
	// ErrMonorepoNotFound is returned when no monorepo.json exists in the working directory or its parents.
	ErrMonorepoNotFound = zerr.New("could not find monorepo.json in the current or any parent directory")

	// ErrMonorepoExists is returned by create-monorepo when run inside an existing monorepo.
	ErrMonorepoExists = zerr.New("a monorepo already exists at this location")

	// ErrMissingRootVersion is returned when the root manifest does not declare a version.
	ErrMissingRootVersion = zerr.New("a `version` property must be provided in the root monorepo.json file")

	// ErrMissingMonorepoConfig is returned when the root manifest lacks config.monorepo app-dirs and lib-dirs.
	ErrMissingMonorepoConfig = zerr.New("the root monorepo.json must declare config.monorepo.app-dirs and config.monorepo.lib-dirs")

	// ErrManifestReadFailed is returned when a manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestParseFailed is returned when a manifest is not valid JSON.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrManifestWriteFailed is returned when a manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrSettingsParseFailed is returned when conductor.yaml cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse conductor.yaml")

	// ErrInvalidGlob is returned when an app-dirs or lib-dirs pattern is malformed.
	ErrInvalidGlob = zerr.New("invalid package directory pattern")

	// ErrMissingPackageName is returned when a member manifest has no name.
	ErrMissingPackageName = zerr.New("package manifest must declare a name")

	// ErrDuplicatePackageName is returned when two members share a name.
	ErrDuplicatePackageName = zerr.New("duplicate package name")

	// ErrNotInPackage is returned when a command must run inside a member package directory.
	ErrNotInPackage = zerr.New("this command must be run from inside a monorepo package directory")

	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidConstraint is returned when a version constraint cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid version constraint")

	// ErrInvalidRequirement is returned when a require argument is malformed.
	ErrInvalidRequirement = zerr.New("invalid package requirement")

	// ErrInvalidRepository is returned when a repositories entry cannot be used.
	ErrInvalidRepository = zerr.New("invalid repository definition")

	// ErrRemoteRepositoryUnsupported is returned for composer repositories that are not local files.
	ErrRemoteRepositoryUnsupported = zerr.New("remote composer repositories are not supported")

	// ErrAutoloadNotArray is returned when an autoload section is not an array or object.
	ErrAutoloadNotArray = zerr.New("autoload configuration must be an array")

	// ErrPSR4TargetDir is returned when PSR-4 rules are combined with target-dir.
	ErrPSR4TargetDir = zerr.New("PSR-4 autoloading is incompatible with the target-dir property")

	// ErrPSR4Separator is returned when a PSR-4 namespace does not end with a namespace separator.
	ErrPSR4Separator = zerr.New("PSR-4 namespaces must end with a namespace separator")

	// ErrUnresolvable is returned when the primary solve cannot find an installable set.
	ErrUnresolvable = zerr.New("your requirements could not be resolved to an installable set of packages")

	// ErrLockReadFailed is returned when the lockfile cannot be read.
	ErrLockReadFailed = zerr.New("failed to read lock file")

	// ErrLockParseFailed is returned when the lockfile is not valid JSON.
	ErrLockParseFailed = zerr.New("failed to parse lock file")

	// ErrLockWriteFailed is returned when the lockfile cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrLockMarshalFailed is returned when the lockfile cannot be encoded.
	ErrLockMarshalFailed = zerr.New("failed to marshal lock file")

	// ErrInstalledReadFailed is returned when installed.json cannot be read.
	ErrInstalledReadFailed = zerr.New("failed to read installed.json")

	// ErrInstalledParseFailed is returned when installed.json is not valid JSON.
	ErrInstalledParseFailed = zerr.New("failed to parse installed.json")

	// ErrInstalledWriteFailed is returned when installed.json cannot be written.
	ErrInstalledWriteFailed = zerr.New("failed to write installed.json")

	// ErrUnsupportedDist is returned when a package dist type has no installer.
	ErrUnsupportedDist = zerr.New("unsupported dist type")

	// ErrInstallFailed is returned when the installation manager cannot apply an operation.
	ErrInstallFailed = zerr.New("failed to apply install operation")

	// ErrScanFailed is returned when a source file cannot be scanned for classes.
	ErrScanFailed = zerr.New("failed to scan source file")

	// ErrWalkFailed is returned when a directory below a walked root cannot be read.
	ErrWalkFailed = zerr.New("failed to walk directory")

	// ErrAutoloadWriteFailed is returned when a generated autoload artifact cannot be written.
	ErrAutoloadWriteFailed = zerr.New("failed to write autoload files")

	// ErrGraphRenderFailed is returned when the dependency graph cannot be rendered.
	ErrGraphRenderFailed = zerr.New("failed to render dependency graph")

	// ErrUnknownGraphFormat is returned for an unsupported graph output format.
	ErrUnknownGraphFormat = zerr.New("unknown graph format, expected 'dot' or 'svg'")

	// ErrWatchFailed is returned when the source watcher cannot start.
	ErrWatchFailed = zerr.New("failed to watch autoload sources")
)
