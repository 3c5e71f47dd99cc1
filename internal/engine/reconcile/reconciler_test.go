package reconcile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/adapters/fs"
	"go.trai.ch/conductor/internal/adapters/installer"
	"go.trai.ch/conductor/internal/adapters/store"
	"go.trai.ch/conductor/internal/adapters/telemetry"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports/mocks"
	"go.trai.ch/conductor/internal/engine/autoload"
	"go.trai.ch/conductor/internal/engine/reconcile"
	"go.trai.ch/conductor/internal/engine/resolve"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type recordingAutoloader struct {
	inputs []autoload.Input
}

func (r *recordingAutoloader) Dump(_ context.Context, in autoload.Input) (*autoload.Report, error) {
	r.inputs = append(r.inputs, in)
	return &autoload.Report{}, nil
}

func (r *recordingAutoloader) targets() []string {
	out := make([]string, 0, len(r.inputs))
	for _, in := range r.inputs {
		out = append(out, in.Target.Name)
	}
	return out
}

type harness struct {
	m          *domain.Monorepo
	sets       map[string]resolve.InstallSet
	autoloader *recordingAutoloader
	infos      []string
}

func pkg(name, version string, kind domain.Kind, dist *domain.Dist) *domain.Package {
	return &domain.Package{
		Name:       name,
		PrettyName: name,
		Version:    domain.MustParseVersion(version),
		Kind:       kind,
		Type:       "library",
		Dist:       dist,
	}
}

func setup(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"src/app", "lib/log", "packages/psr-log"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), domain.DirPerm))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages/psr-log/composer.json"), []byte(`{"name": "psr/log"}`), domain.PrivateFilePerm))

	monorepo := pkg("acme/monorepo", "1.0.0", domain.KindRoot, nil)
	monorepo.Dir = root
	app := pkg("acme/app", "1.0.0", domain.KindMember, &domain.Dist{Type: "path", URL: "src/app", Reference: "app"})
	app.Dir = filepath.Join(root, "src/app")
	log := pkg("acme/log", "1.0.0", domain.KindMember, &domain.Dist{Type: "path", URL: "lib/log", Reference: "log"})
	log.Dir = filepath.Join(root, "lib/log")

	psrLog := pkg("psr/log", "3.0.0", domain.KindDependency, &domain.Dist{Type: "path", URL: "packages/psr-log", Reference: "psr"})
	phpunit := pkg("phpunit/phpunit", "10.5.0", domain.KindDependency, nil)

	return &harness{
		m: &domain.Monorepo{Root: monorepo, Members: []*domain.Package{app, log}},
		sets: map[string]resolve.InstallSet{
			"acme/app": {Packages: []*domain.Package{log, psrLog}, Dev: []*domain.Package{phpunit}},
			"acme/log": {Packages: []*domain.Package{psrLog}},
		},
		autoloader: &recordingAutoloader{},
	}
}

func (h *harness) reconciler(t *testing.T) *reconcile.Reconciler {
	t.Helper()
	h.infos = nil
	h.autoloader.inputs = nil

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).Do(func(msg string) { h.infos = append(h.infos, msg) }).AnyTimes()
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	return reconcile.NewReconciler(
		installer.NewManager(fs.NewWalker()),
		store.NewInstalledStore(),
		h.autoloader,
		logger,
		telemetry.NewNoOpTracer(),
	)
}

func TestReconciler_Reconcile(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	require.NoError(t, h.reconciler(t).Reconcile(ctx, h.m, h.sets, reconcile.Options{Dev: true}))

	assert.Equal(t, []string{
		"Installing dependencies from lock file (including require-dev)",
		"Nothing to install, update, or remove",
		"Package operations: 3 installs, 0 updates, 0 removals",
		"  - Installing acme/log (1.0.0)",
		"  - Installing phpunit/phpunit (10.5.0)",
		"  - Installing psr/log (3.0.0)",
		"Package operations: 1 installs, 0 updates, 0 removals",
		"  - Installing psr/log (3.0.0)",
	}, h.infos)

	appVendor := filepath.Join(h.m.Root.Dir, "src", "app", "vendor")
	assert.FileExists(t, filepath.Join(appVendor, "psr", "log", "composer.json"))
	linked, err := os.Stat(filepath.Join(appVendor, "acme", "log"))
	require.NoError(t, err)
	assert.True(t, linked.IsDir(), "path dist resolves to the member directory")
	target, err := os.Readlink(filepath.Join(appVendor, "acme", "log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "..", "..", "..", "lib", "log"), target)
	assert.DirExists(t, filepath.Join(appVendor, "phpunit", "phpunit"))

	state, err := store.NewInstalledStore().Get(appVendor)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.Dev)
	assert.Equal(t, []string{"phpunit/phpunit"}, state.DevPackageNames)
	require.Len(t, state.Packages, 3)
	assert.Equal(t, "acme/log", state.Packages[0].Name)
	assert.Equal(t, "../acme/log", state.Packages[0].InstallPath)

	assert.Equal(t, []string{"acme/monorepo", "acme/app", "acme/log"}, h.autoloader.targets())
	appInput := h.autoloader.inputs[1]
	assert.True(t, appInput.Dev)
	require.Len(t, appInput.Packages, 2)
	assert.Equal(t, filepath.Join(h.m.Root.Dir, "packages", "psr-log"), appInput.Packages[1].Dir)
	assert.Empty(t, h.sets["acme/app"].Packages[1].Dir, "lock packages are not modified")
	require.Len(t, appInput.DevPackages, 1)
}

func TestReconciler_Reconcile_Idempotent(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	require.NoError(t, h.reconciler(t).Reconcile(ctx, h.m, h.sets, reconcile.Options{Dev: true}))
	require.NoError(t, h.reconciler(t).Reconcile(ctx, h.m, h.sets, reconcile.Options{Dev: true}))

	assert.Equal(t, []string{
		"Installing dependencies from lock file (including require-dev)",
		"Nothing to install, update, or remove",
		"Nothing to install, update, or remove",
		"Nothing to install, update, or remove",
	}, h.infos)
}

func TestReconciler_Reconcile_NoDevRemovesDevPackages(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	require.NoError(t, h.reconciler(t).Reconcile(ctx, h.m, h.sets, reconcile.Options{Dev: true}))
	require.NoError(t, h.reconciler(t).Reconcile(ctx, h.m, h.sets, reconcile.Options{}))

	assert.Equal(t, []string{
		"Installing dependencies from lock file",
		"Nothing to install, update, or remove",
		"Package operations: 0 installs, 0 updates, 1 removals",
		"  - Removing phpunit/phpunit (10.5.0)",
		"Nothing to install, update, or remove",
	}, h.infos)

	appVendor := filepath.Join(h.m.Root.Dir, "src", "app", "vendor")
	assert.NoDirExists(t, filepath.Join(appVendor, "phpunit"))

	state, err := store.NewInstalledStore().Get(appVendor)
	require.NoError(t, err)
	assert.False(t, state.Dev)
	assert.Empty(t, state.DevPackageNames)

	assert.False(t, h.autoloader.inputs[1].Dev)
	assert.Empty(t, h.autoloader.inputs[1].DevPackages)
}

func TestReconciler_Reconcile_SkipsAutoload(t *testing.T) {
	h := setup(t)
	h.m.Settings.SkipAutoload = []string{"acme/log"}

	require.NoError(t, h.reconciler(t).Reconcile(context.Background(), h.m, h.sets, reconcile.Options{}))
	assert.Equal(t, []string{"acme/monorepo", "acme/app"}, h.autoloader.targets())

	require.NoError(t, h.reconciler(t).Reconcile(context.Background(), h.m, h.sets, reconcile.Options{NoAutoloader: true}))
	assert.Empty(t, h.autoloader.inputs)
}

func TestReconciler_Reconcile_InstallFailure(t *testing.T) {
	h := setup(t)

	ctrl := gomock.NewController(t)
	mockInstaller := mocks.NewMockInstallationManager(ctrl)
	mockInstaller.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(zerr.With(domain.ErrInstallFailed, "path", "vendor/acme/log"))

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	r := reconcile.NewReconciler(mockInstaller, store.NewInstalledStore(), h.autoloader, logger, telemetry.NewNoOpTracer())
	h.sets = map[string]resolve.InstallSet{"acme/app": h.sets["acme/app"]}

	err := r.Reconcile(context.Background(), h.m, h.sets, reconcile.Options{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInstallFailed.Error())
	assert.NoFileExists(t, domain.InstalledPath(filepath.Join(h.m.Root.Dir, "src", "app", "vendor")))
	assert.Equal(t, []string{"acme/monorepo"}, h.autoloader.targets())
}

func TestReconciler_Reconcile_CorruptState(t *testing.T) {
	h := setup(t)
	appVendor := filepath.Join(h.m.Root.Dir, "src", "app", "vendor")
	require.NoError(t, os.MkdirAll(domain.ComposerDir(appVendor), domain.DirPerm))
	require.NoError(t, os.WriteFile(domain.InstalledPath(appVendor), []byte("{"), domain.PrivateFilePerm))

	err := h.reconciler(t).Reconcile(context.Background(), h.m, h.sets, reconcile.Options{})
	assert.ErrorContains(t, err, domain.ErrInstalledParseFailed.Error())
}
