package app

import (
	"context"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

// CreateMonorepo writes a default monorepo.json into the working directory.
// It refuses to nest a monorepo inside another one.
func (a *App) CreateMonorepo(_ context.Context) error {
	wd, err := a.dir()
	if err != nil {
		return err
	}

	if root, err := a.loader.FindRoot(wd); err == nil {
		return zerr.With(domain.ErrMonorepoExists, "path", root)
	}

	if err := a.manifests.Create(wd); err != nil {
		return err
	}
	a.logger.Info("Created " + domain.MonorepoFileName + " in " + wd)
	return nil
}
