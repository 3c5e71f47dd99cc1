// Package installer places resolved packages into vendor directories.
package installer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InstallationManager = (*Manager)(nil)

// Manager implements ports.InstallationManager. Path dists are symlinked,
// falling back to a copy where symlinks are unavailable.
type Manager struct {
	walker ports.FileWalker
}

// NewManager creates a new Manager.
func NewManager(walker ports.FileWalker) *Manager {
	return &Manager{walker: walker}
}

// InstallPath returns vendor/<name>, plus the legacy target-dir when declared.
func (m *Manager) InstallPath(vendorDir string, p *domain.Package) string {
	path := filepath.Join(vendorDir, filepath.FromSlash(p.Name))
	if p.TargetDir != "" {
		path = filepath.Join(path, filepath.FromSlash(p.TargetDir))
	}
	return path
}

// Execute applies ops in order, stopping at the first failure.
func (m *Manager) Execute(ctx context.Context, vendorDir string, ops []domain.Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch op.Kind {
		case domain.OpInstall:
			err = m.install(vendorDir, op.Package)
		case domain.OpUpdate:
			if err = m.remove(vendorDir, op.From); err == nil {
				err = m.install(vendorDir, op.Package)
			}
		case domain.OpRemove:
			err = m.remove(vendorDir, op.Package)
		}
		if err != nil {
			return zerr.With(err, "operation", op.String())
		}
	}
	return nil
}

func (m *Manager) install(vendorDir string, p *domain.Package) error {
	target := m.InstallPath(vendorDir, p)
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", target)
	}
	if err := os.RemoveAll(target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", target)
	}

	if p.Dist == nil || p.Dist.Type == "" || p.Type == "metapackage" {
		if err := os.MkdirAll(target, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", target)
		}
		return nil
	}

	if p.Dist.Type != "path" {
		err := zerr.With(domain.ErrUnsupportedDist, "type", p.Dist.Type)
		return zerr.With(err, "package", p.PrettyName)
	}

	source := p.Dir
	if source == "" {
		source = p.Dist.URL
	}
	if !filepath.IsAbs(source) {
		err := zerr.With(domain.ErrInstallFailed, "reason", "path dist is not anchored to the monorepo root")
		return zerr.With(err, "url", p.Dist.URL)
	}

	if err := m.link(source, target); err == nil {
		return nil
	}
	return m.copyTree(source, target)
}

func (m *Manager) link(source, target string) error {
	rel, err := filepath.Rel(filepath.Dir(target), source)
	if err != nil {
		return err
	}
	return os.Symlink(rel, target)
}

func (m *Manager) copyTree(source, target string) error {
	for path, err := range m.walker.WalkFiles(source, []string{domain.VendorDirName}) {
		if err != nil {
			return zerr.Wrap(err, domain.ErrInstallFailed.Error())
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", path)
		}
		if err := copyFile(path, filepath.Join(target, rel)); err != nil {
			return err
		}
	}
	return os.MkdirAll(target, domain.DirPerm)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", dst)
	}

	in, err := os.Open(src) //nolint:gosec // Source comes from a resolved path dist
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // Installed sources are world-readable
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", dst)
	}
	return nil
}

func (m *Manager) remove(vendorDir string, p *domain.Package) error {
	target := m.InstallPath(vendorDir, p)
	if err := os.RemoveAll(target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallFailed.Error()), "path", target)
	}

	// Drop the vendor namespace directory once its last package is gone.
	for dir := filepath.Dir(target); dir != vendorDir && len(dir) > len(vendorDir); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		_ = os.Remove(dir)
	}
	return nil
}
