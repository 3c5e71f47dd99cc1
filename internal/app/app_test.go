package app_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/app"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/core/ports/mocks"
	"go.trai.ch/conductor/internal/engine/autoload"
	"go.trai.ch/conductor/internal/engine/reconcile"
	"go.trai.ch/conductor/internal/engine/resolve"
	"go.uber.org/mock/gomock"
)

type fakeResolver struct {
	opts  []resolve.Options
	locks []*domain.Lockfile
	res   *resolve.Result
	err   error
}

func (f *fakeResolver) Solve(_ context.Context, _ *domain.Monorepo, lock *domain.Lockfile, opts resolve.Options) (*resolve.Result, error) {
	f.opts = append(f.opts, opts)
	f.locks = append(f.locks, lock)
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &resolve.Result{
		Transaction: domain.NewLockTransaction(nil, nil),
		Sets:        map[string]resolve.InstallSet{},
	}, nil
}

type fakeLockWriter struct {
	calls int
}

func (f *fakeLockWriter) Write(
	_ context.Context,
	m *domain.Monorepo,
	_ *domain.Lockfile,
	res *resolve.Result,
	_ resolve.Options,
) (*domain.Monorepo, *resolve.Result, error) {
	f.calls++
	return m, res, nil
}

type fakeReconciler struct {
	opts []reconcile.Options
}

func (f *fakeReconciler) Reconcile(_ context.Context, _ *domain.Monorepo, _ map[string]resolve.InstallSet, opts reconcile.Options) error {
	f.opts = append(f.opts, opts)
	return nil
}

type fakeAutoloader struct {
	mu      sync.Mutex
	inputs  []autoload.Input
	classes int
}

func (f *fakeAutoloader) Dump(_ context.Context, in autoload.Input) (*autoload.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return &autoload.Report{Classes: f.classes}, nil
}

func (f *fakeAutoloader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type fixture struct {
	root       string
	m          *domain.Monorepo
	loader     *mocks.MockMonorepoLoader
	locks      *mocks.MockLockStore
	installed  *mocks.MockInstalledStore
	manifests  *mocks.MockManifestWriter
	renderer   *mocks.MockGraphRenderer
	watcher    *mocks.MockWatcher
	logger     *mocks.MockLogger
	resolver   *fakeResolver
	writer     *fakeLockWriter
	reconciler *fakeReconciler
	autoloader *fakeAutoloader
	app        *app.App
}

func member(root, name, dir string, memberType domain.MemberType) *domain.Package {
	return &domain.Package{
		Name:         name,
		PrettyName:   name,
		Version:      domain.MustParseVersion("1.0.0"),
		Kind:         domain.KindMember,
		Type:         "library",
		MemberType:   memberType,
		Dir:          filepath.Join(root, dir),
		ManifestPath: filepath.Join(root, dir, domain.PackageFileName),
	}
}

func link(t *testing.T, source, target, constraint string) domain.Link {
	t.Helper()
	l, err := domain.NewLink(source, target, constraint)
	require.NoError(t, err)
	return l
}

// newFixture builds a monorepo with the members acme/app, acme/log and
// acme/testing, run from workingDir below the root.
func newFixture(t *testing.T, workingDir string) *fixture {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"src/app", "lib/log", "lib/testing"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), domain.DirPerm))
	}

	rootPkg := &domain.Package{
		Name:         "acme/monorepo",
		PrettyName:   "acme/monorepo",
		Version:      domain.MustParseVersion("1.0.0"),
		Kind:         domain.KindRoot,
		Type:         "project",
		Dir:          root,
		ManifestPath: filepath.Join(root, domain.MonorepoFileName),
	}
	appPkg := member(root, "acme/app", "src/app", domain.MemberApplication)
	logPkg := member(root, "acme/log", "lib/log", domain.MemberLibrary)
	testingPkg := member(root, "acme/testing", "lib/testing", domain.MemberLibrary)

	appPkg.Requires = []domain.Link{link(t, "acme/app", "acme/log", "@dev"), link(t, "acme/app", "psr/log", "^2.0")}
	appPkg.DevRequires = []domain.Link{link(t, "acme/app", "acme/testing", "@dev")}
	logPkg.Requires = []domain.Link{link(t, "acme/log", "psr/log", "^2.0")}

	ctrl := gomock.NewController(t)
	f := &fixture{
		root: root,
		m: &domain.Monorepo{
			Root:       rootPkg,
			Members:    []*domain.Package{appPkg, logPkg, testingPkg},
			WorkingDir: filepath.Join(root, workingDir),
		},
		loader:     mocks.NewMockMonorepoLoader(ctrl),
		locks:      mocks.NewMockLockStore(ctrl),
		installed:  mocks.NewMockInstalledStore(ctrl),
		manifests:  mocks.NewMockManifestWriter(ctrl),
		renderer:   mocks.NewMockGraphRenderer(ctrl),
		watcher:    mocks.NewMockWatcher(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
		resolver:   &fakeResolver{},
		writer:     &fakeLockWriter{},
		reconciler: &fakeReconciler{},
		autoloader: &fakeAutoloader{classes: 3},
	}

	f.app = app.New(
		f.loader,
		f.locks,
		f.installed,
		f.manifests,
		f.resolver,
		f.writer,
		f.reconciler,
		f.autoloader,
		f.renderer,
		func() (ports.Watcher, error) { return f.watcher, nil },
		f.logger,
	)

	shutdown, err := f.app.Configure(app.GlobalOptions{WorkingDir: f.m.WorkingDir})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	return f
}

func (f *fixture) expectLoad() {
	f.loader.EXPECT().Load(f.m.WorkingDir).Return(f.m, nil)
}
