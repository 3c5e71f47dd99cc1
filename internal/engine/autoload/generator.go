// Package autoload builds the class-loading tables of one package and emits
// the vendor/autoload.php bootstrap with its static tables.
package autoload

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
)

// installedVersionsClass is always mapped to the runtime file emitted alongside the tables.
const installedVersionsClass = `Composer\InstalledVersions`

// Input describes one package whose autoloader is generated.
type Input struct {
	// Target is the root or member package owning the vendor directory.
	Target *domain.Package
	// Packages are the installed non-dev dependencies of Target.
	Packages []*domain.Package
	// DevPackages are the installed dev-only dependencies of Target.
	DevPackages []*domain.Package
	// Dev includes DevPackages and Target's autoload-dev.
	Dev bool
}

// Report summarizes a generated autoloader.
type Report struct {
	Classes     int
	Ambiguities []domain.Ambiguity
}

// Generator generates autoload artifacts.
type Generator struct {
	scanner   ports.ClassScanner
	walker    ports.FileWalker
	hasher    ports.Hasher
	installer ports.InstallationManager
	logger    ports.Logger
	tracer    ports.Tracer
}

// NewGenerator creates a new Generator.
func NewGenerator(
	scanner ports.ClassScanner,
	walker ports.FileWalker,
	hasher ports.Hasher,
	installer ports.InstallationManager,
	logger ports.Logger,
	tracer ports.Tracer,
) *Generator {
	return &Generator{
		scanner:   scanner,
		walker:    walker,
		hasher:    hasher,
		installer: installer,
		logger:    logger,
		tracer:    tracer,
	}
}

// Dump validates every participating package, builds the autoload table of
// in.Target and writes the artifacts into its vendor directory.
func (g *Generator) Dump(ctx context.Context, in Input) (*Report, error) {
	ctx, span := g.tracer.Start(ctx, "Generating autoload files")
	defer span.End()
	span.SetAttribute("package", in.Target.PrettyName)

	vendorDir := in.Target.VendorDir()
	if vendorDir == "" {
		return nil, zerr.With(domain.ErrAutoloadWriteFailed, "package", in.Target.PrettyName)
	}

	deps := slices.Clone(in.Packages)
	if in.Dev {
		deps = append(deps, in.DevPackages...)
	}
	if err := validate(in.Target, deps); err != nil {
		span.RecordError(err)
		return nil, err
	}

	g.logger.Info("Generating autoload files")

	loads := g.collect(in.Target, deps, vendorDir, in.Dev)

	table, err := g.buildTable(ctx, in.Target.Dir, vendorDir, loads)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ambiguities := table.Ambiguities()
	for _, a := range ambiguities {
		g.logger.Warn(ambiguityWarning(a))
	}

	table.Classmap[installedVersionsClass] = filepath.Join(domain.ComposerDir(vendorDir), "InstalledVersions.php")
	table.Files = loads.files

	suffix := g.hasher.HashBytes([]byte(in.Target.Name))
	artifacts, err := render(emitInput{
		target:      in.Target,
		packages:    in.Packages,
		devPackages: in.DevPackages,
		dev:         in.Dev,
		table:       table,
		vendorDir:   vendorDir,
		baseDir:     in.Target.Dir,
		suffix:      suffix,
		installPath: func(p *domain.Package) string { return g.installer.InstallPath(vendorDir, p) },
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := writeArtifacts(vendorDir, artifacts); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("classes", len(table.Classmap))
	return &Report{Classes: len(table.Classmap), Ambiguities: ambiguities}, nil
}

func validate(target *domain.Package, deps []*domain.Package) error {
	if err := domain.ValidateAutoload(target.PrettyName, target.TargetDir, "autoload", target.Autoload); err != nil {
		return err
	}
	if err := domain.ValidateAutoload(target.PrettyName, target.TargetDir, "autoload-dev", target.DevAutoload); err != nil {
		return err
	}
	for _, p := range deps {
		if err := domain.ValidateAutoload(p.PrettyName, p.TargetDir, "autoload", p.Autoload); err != nil {
			return err
		}
	}
	return nil
}

func ambiguityWarning(a domain.Ambiguity) string {
	if len(a.Paths) == 2 {
		return fmt.Sprintf(
			`Warning: Ambiguous class resolution, "%s" was found in both "%s" and "%s", the first will be used.`,
			a.Class, a.Paths[0], a.Paths[1],
		)
	}
	return fmt.Sprintf(
		`Warning: Ambiguous class resolution, "%s" was found %dx: in "%s" and "%s", the first will be used.`,
		a.Class, len(a.Paths), a.Paths[0], strings.Join(a.Paths[1:], `", "`),
	)
}
