package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/app"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
)

func TestApp_Require(t *testing.T) {
	f := newFixture(t, "src/app")
	f.expectLoad()
	f.locks.EXPECT().Get(f.root).Return(nil, nil)

	err := f.app.Require(context.Background(), []string{"psr/log:^3.0", "acme/testing", "vendor/tool"}, app.RequireOptions{Dev: true})
	require.NoError(t, err)

	require.Len(t, f.resolver.opts, 1)
	opts := f.resolver.opts[0]
	assert.True(t, opts.Update)
	assert.True(t, opts.RequireDev)
	assert.True(t, opts.Dev)

	got := make(map[string]string)
	for _, l := range opts.Require {
		assert.Equal(t, "acme/app", l.Source)
		got[l.Target] = l.Constraint.String()
	}
	assert.Equal(t, map[string]string{
		"psr/log":      "^3.0",
		"acme/testing": "@dev",
		"vendor/tool":  "*",
	}, got)
	assert.Len(t, f.reconciler.opts, 1)
}

func TestApp_Require_MemberAlwaysDev(t *testing.T) {
	f := newFixture(t, "src/app")
	f.expectLoad()
	f.locks.EXPECT().Get(f.root).Return(nil, nil)

	require.NoError(t, f.app.Require(context.Background(), []string{"acme/log:^1.0"}, app.RequireOptions{}))
	require.Len(t, f.resolver.opts[0].Require, 1)
	assert.Equal(t, "@dev", f.resolver.opts[0].Require[0].Constraint.String())
}

func TestApp_Require_NotInPackage(t *testing.T) {
	f := newFixture(t, "")
	f.expectLoad()

	err := f.app.Require(context.Background(), []string{"psr/log"}, app.RequireOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNotInPackage.Error())
	assert.Empty(t, f.resolver.opts)
}

func TestApp_Require_InvalidArgument(t *testing.T) {
	f := newFixture(t, "src/app")
	f.expectLoad()

	err := f.app.Require(context.Background(), []string{"not-a-package"}, app.RequireOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidRequirement.Error())
}

func TestApp_Require_NoUpdate(t *testing.T) {
	f := newFixture(t, "src/app")
	f.expectLoad()

	added := []ports.ManifestChange{
		{Section: "require-dev", Package: "psr/log", Remove: true},
		{Section: "require", Package: "psr/log", Constraint: "^3.0"},
	}
	rootManifest := filepath.Join(f.root, domain.MonorepoFileName)
	logManifest := filepath.Join(f.root, "lib", "log", domain.PackageFileName)

	f.manifests.EXPECT().Update(rootManifest, added).Return(true, nil)
	f.manifests.EXPECT().Update(filepath.Join(f.root, "src", "app", domain.PackageFileName), added).Return(false, nil)
	f.manifests.EXPECT().Update(logManifest, []ports.ManifestChange{
		{Section: "require", Package: "psr/log", Constraint: "^3.0"},
	}).Return(true, nil)
	f.logger.EXPECT().Info(rootManifest + " has been updated")
	f.logger.EXPECT().Info(logManifest + " has been updated")

	err := f.app.Require(context.Background(), []string{"psr/log:^3.0"}, app.RequireOptions{NoUpdate: true})
	require.NoError(t, err)
	assert.Empty(t, f.resolver.opts)
	assert.Empty(t, f.reconciler.opts)
}
