package resolve_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newPackage(t *testing.T, kind domain.Kind, name, version string, requires, requiresDev map[string]string) *domain.Package {
	t.Helper()
	p, err := domain.PackageDescriptor{
		Name:       name,
		Version:    version,
		Require:    requires,
		RequireDev: requiresDev,
	}.Package(kind)
	require.NoError(t, err)
	return p
}

// newMonorepo returns a monorepo with an application depending on a library,
// a dev-only test framework and a platform php.
func newMonorepo(t *testing.T) *domain.Monorepo {
	t.Helper()
	php, err := domain.NewPlatformPackage("php", "8.3.0")
	require.NoError(t, err)

	root := newPackage(t, domain.KindRoot, "acme/monorepo", "1.0.0", map[string]string{"php": "^8.1"}, nil)
	root.Dir = "/repo"

	app := newPackage(t, domain.KindMember, "acme/app", "1.0.0",
		map[string]string{"acme/log": "@dev", "psr/log": "^3.0"},
		map[string]string{"phpunit/phpunit": "^10.0"})
	app.Dir = "/repo/src/app"
	log := newPackage(t, domain.KindMember, "acme/log", "1.0.0", map[string]string{"psr/log": "^2.0 || ^3.0"}, nil)
	log.Dir = "/repo/lib/log"

	return &domain.Monorepo{
		Root:    root,
		Members: []*domain.Package{app, log},
		Repositories: []*domain.Package{
			newPackage(t, domain.KindDependency, "psr/log", "2.0.0", nil, nil),
			newPackage(t, domain.KindDependency, "psr/log", "3.0.0", nil, nil),
			newPackage(t, domain.KindDependency, "phpunit/phpunit", "10.5.0", map[string]string{"sebastian/diff": "^5.0"}, nil),
			newPackage(t, domain.KindDependency, "sebastian/diff", "5.0.0", nil, nil),
		},
		Platform:    []*domain.Package{php},
		Config:      domain.MonorepoConfig{MinimumStability: domain.StabilityStable},
		ContentHash: "fresh",
		WorkingDir:  "/repo",
	}
}

// logRecorder captures everything logged through a mock logger.
type logRecorder struct {
	infos  []string
	warns  []string
	debugs []string
}

func recordLogs(t *testing.T) (*mocks.MockLogger, *logRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	rec := &logRecorder{}
	logger.EXPECT().Info(gomock.Any()).Do(func(msg string) { rec.infos = append(rec.infos, msg) }).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) { rec.warns = append(rec.warns, msg) }).AnyTimes()
	logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) { rec.debugs = append(rec.debugs, msg) }).AnyTimes()
	return logger, rec
}

func names(pkgs []*domain.Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name)
	}
	return out
}

func lockFor(t *testing.T, m *domain.Monorepo, nonDev, dev []string) *domain.Lockfile {
	t.Helper()
	pool := m.Pool()
	lock := &domain.Lockfile{ContentHash: m.ContentHash}
	for _, ref := range nonDev {
		lock.Packages = append(lock.Packages, find(t, pool, ref).Descriptor())
	}
	for _, ref := range dev {
		lock.PackagesDev = append(lock.PackagesDev, find(t, pool, ref).Descriptor())
	}
	lock.Normalize()
	return lock
}

// find resolves "name" or "name@version" in pool.
func find(t *testing.T, pool *domain.PackageIndex, ref string) *domain.Package {
	t.Helper()
	name, version, ok := strings.Cut(ref, "@")
	if !ok {
		p := pool.Get(name)
		require.NotNil(t, p, ref)
		return p
	}
	p := pool.Find(name, domain.MustParseConstraint(version))
	require.NotNil(t, p, ref)
	return p
}
