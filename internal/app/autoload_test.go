package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/app"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func (f *fixture) expectInstalledState() {
	f.installed.EXPECT().Get(filepath.Join(f.root, domain.VendorDirName)).Return(nil, nil).AnyTimes()
	f.installed.EXPECT().Get(filepath.Join(f.root, "src", "app", domain.VendorDirName)).Return(&domain.InstalledState{
		Packages: []domain.PackageDescriptor{
			{Name: "acme/log", Version: "1.0.0"},
			{Name: "psr/log", Version: "2.0.0"},
			{Name: "phpunit/phpunit", Version: "10.5.0"},
		},
		Dev:             true,
		DevPackageNames: []string{"phpunit/phpunit"},
	}, nil).AnyTimes()
	f.installed.EXPECT().Get(filepath.Join(f.root, "lib", "log", domain.VendorDirName)).Return(nil, nil).AnyTimes()
	f.installed.EXPECT().Get(filepath.Join(f.root, "lib", "testing", domain.VendorDirName)).Return(nil, nil).AnyTimes()
}

func names(pkgs []*domain.Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name)
	}
	return out
}

func TestApp_DumpAutoload(t *testing.T) {
	f := newFixture(t, "")
	f.expectLoad()
	f.expectInstalledState()
	for _, name := range []string{"acme/monorepo", "acme/app", "acme/log", "acme/testing"} {
		f.logger.EXPECT().Info("Generated autoload files for package " + name + " containing 3 classes")
	}

	require.NoError(t, f.app.DumpAutoload(context.Background(), app.DumpAutoloadOptions{}))

	require.Len(t, f.autoloader.inputs, 4)
	in := f.autoloader.inputs[1]
	assert.Equal(t, "acme/app", in.Target.Name)
	assert.True(t, in.Dev)
	assert.Equal(t, []string{"acme/log", "psr/log"}, names(in.Packages))
	assert.Equal(t, []string{"phpunit/phpunit"}, names(in.DevPackages))
}

func TestApp_DumpAutoload_NoDev(t *testing.T) {
	f := newFixture(t, "")
	f.expectLoad()
	f.expectInstalledState()
	f.logger.EXPECT().Info(gomock.Any()).Times(4)

	require.NoError(t, f.app.DumpAutoload(context.Background(), app.DumpAutoloadOptions{NoDev: true}))

	in := f.autoloader.inputs[1]
	assert.False(t, in.Dev)
	assert.Equal(t, []string{"acme/log", "psr/log"}, names(in.Packages))
	assert.Empty(t, in.DevPackages)
}

func TestApp_DumpAutoload_SkipsDisabledPackages(t *testing.T) {
	f := newFixture(t, "")
	f.m.Settings.SkipAutoload = []string{"acme/log", "acme/testing"}
	f.expectLoad()
	f.expectInstalledState()
	f.logger.EXPECT().Info(gomock.Any()).Times(2)
	f.logger.EXPECT().Debug("Skipping autoload generation for acme/log")
	f.logger.EXPECT().Debug("Skipping autoload generation for acme/testing")

	require.NoError(t, f.app.DumpAutoload(context.Background(), app.DumpAutoloadOptions{}))
	assert.Len(t, f.autoloader.inputs, 2)
}

func TestApp_DumpAutoload_CorruptState(t *testing.T) {
	f := newFixture(t, "")
	f.expectLoad()
	f.installed.EXPECT().Get(filepath.Join(f.root, domain.VendorDirName)).Return(&domain.InstalledState{
		Packages: []domain.PackageDescriptor{{Name: "psr/log", Version: "not a version"}},
	}, nil)

	err := f.app.DumpAutoload(context.Background(), app.DumpAutoloadOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInstalledParseFailed.Error())
	assert.Empty(t, f.autoloader.inputs)
}

func TestApp_DumpAutoload_Watch(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t, "")
	f.m.Settings.SkipAutoload = []string{"acme/app", "acme/log", "acme/testing"}
	f.loader.EXPECT().Load(f.m.WorkingDir).Return(f.m, nil).Times(2)
	f.expectInstalledState()
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info("Generated autoload files for package acme/monorepo containing 3 classes").Times(2)
	f.logger.EXPECT().Info("Watching for changes in " + f.root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan ports.WatchEvent)
	f.watcher.EXPECT().Start(gomock.Any(), f.root, []string{domain.VendorDirName}).Return(nil)
	f.watcher.EXPECT().Events().Return(func(yield func(ports.WatchEvent) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				if !yield(event) {
					return
				}
			}
		}
	})
	f.watcher.EXPECT().Stop().Return(nil)

	done := make(chan error, 1)
	go func() {
		done <- f.app.DumpAutoload(ctx, app.DumpAutoloadOptions{Watch: true})
	}()

	require.Eventually(t, func() bool { return f.autoloader.count() == 1 }, time.Second, 10*time.Millisecond)

	events <- ports.WatchEvent{Path: filepath.Join(f.root, "README.md"), Operation: ports.OpWrite}
	events <- ports.WatchEvent{Path: filepath.Join(f.root, "src", "app", "src", "Kernel.php"), Operation: ports.OpWrite}

	require.Eventually(t, func() bool { return f.autoloader.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestApp_DumpAutoload_WatchStartFailure(t *testing.T) {
	f := newFixture(t, "")
	f.m.Settings.SkipAutoload = []string{"acme/app", "acme/log", "acme/testing"}
	f.expectLoad()
	f.expectInstalledState()
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any())
	f.watcher.EXPECT().Start(gomock.Any(), f.root, gomock.Any()).Return(assert.AnError)
	f.watcher.EXPECT().Stop().Return(nil)

	err := f.app.DumpAutoload(context.Background(), app.DumpAutoloadOptions{Watch: true})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatchFailed.Error())
}
