package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/conductor/internal/app"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type mocked struct {
	loader    *mocks.MockMonorepoLoader
	manifests *mocks.MockManifestWriter
	logger    *mocks.MockLogger
}

func provider(t *testing.T) (ComponentProvider, *mocked) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &mocked{
		loader:    mocks.NewMockMonorepoLoader(ctrl),
		manifests: mocks.NewMockManifestWriter(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}

	application := app.New(
		m.loader,
		mocks.NewMockLockStore(ctrl),
		mocks.NewMockInstalledStore(ctrl),
		m.manifests,
		nil,
		nil,
		nil,
		nil,
		mocks.NewMockGraphRenderer(ctrl),
		nil,
		m.logger,
	)

	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: m.logger}, func() {}, nil
	}, m
}

func TestRun_Success(t *testing.T) {
	p, _ := provider(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, p)
	assert.Equal(t, 0, exitCode)
}

func TestRun_CommandError(t *testing.T) {
	p, m := provider(t)
	dir := t.TempDir()

	m.loader.EXPECT().FindRoot(dir).Return(dir, nil)
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrMonorepoExists.Error())
	})

	exitCode := run(context.Background(), []string{"create-monorepo", "-d", dir}, new(bytes.Buffer), p)
	assert.Equal(t, 1, exitCode)
}

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"install"}, stderr, func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("graph construction failed")
	})

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "Error: graph construction failed\n", stderr.String())
}

func TestRun_UnknownWorkingDir(t *testing.T) {
	p, m := provider(t)
	m.logger.EXPECT().Error(gomock.Any())

	exitCode := run(context.Background(), []string{"install", "-d", "/does/not/exist"}, new(bytes.Buffer), p)
	assert.Equal(t, 1, exitCode)
}

func TestRun_CreateMonorepo(t *testing.T) {
	p, m := provider(t)
	dir := t.TempDir()

	m.loader.EXPECT().FindRoot(dir).Return("", zerr.With(domain.ErrMonorepoNotFound, "cwd", dir))
	m.manifests.EXPECT().Create(dir).Return(nil)
	m.logger.EXPECT().Info(gomock.Any())

	exitCode := run(context.Background(), []string{"create-monorepo", "--working-dir", dir}, new(bytes.Buffer), p)
	assert.Equal(t, 0, exitCode)
}
