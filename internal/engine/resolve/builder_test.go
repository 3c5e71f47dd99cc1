package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/engine/resolve"
)

func TestRequestBuilder_Build_Update(t *testing.T) {
	m := newMonorepo(t)
	logger, rec := recordLogs(t)
	app := m.Member("acme/app")

	req, err := resolve.NewRequestBuilder(logger).Build(m, app, nil, resolve.Scope{Dev: true, Update: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"acme/log", "phpunit/phpunit", "psr/log"}, req.Targets())
	fixed, ok := req.FixedPackage("acme/app")
	require.True(t, ok, "a member target is fixed")
	assert.Same(t, app, fixed)
	_, ok = req.FixedPackage("php")
	assert.True(t, ok, "platform packages are fixed")
	assert.Empty(t, rec.warns)
}

func TestRequestBuilder_Build_NonDevScope(t *testing.T) {
	m := newMonorepo(t)
	logger, _ := recordLogs(t)

	req, err := resolve.NewRequestBuilder(logger).Build(m, m.Member("acme/app"), nil, resolve.Scope{Update: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/log", "psr/log"}, req.Targets())
}

func TestRequestBuilder_Build_FlagsAndAliases(t *testing.T) {
	m := newMonorepo(t)
	m.Config.MinimumStability = domain.StabilityBeta
	m.Config.PreferStable = true
	logger, _ := recordLogs(t)

	target := newPackage(t, domain.KindRoot, "acme/monorepo", "1.0.0", map[string]string{
		"acme/log":     "@dev",
		"vendor/beta":  "^2.0@beta",
		"vendor/alias": "dev-main as 1.2.0",
	}, nil)

	req, err := resolve.NewRequestBuilder(logger).Build(m, target, nil, resolve.Scope{Update: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.Stability{"vendor/beta": domain.StabilityBeta}, req.StabilityFlags,
		"members never carry a stability flag")
	require.Len(t, req.Aliases, 1)
	assert.Equal(t, domain.Alias{
		Package:         "vendor/alias",
		Version:         "dev-main",
		Alias:           "1.2.0",
		AliasNormalized: "1.2.0",
	}, req.Aliases[0])
	assert.Equal(t, domain.StabilityBeta, req.MinimumStability)
	assert.True(t, req.PreferStable)
}

func TestRequestBuilder_Build_FromLock(t *testing.T) {
	m := newMonorepo(t)
	logger, rec := recordLogs(t)
	lock := lockFor(t, m, []string{"acme/log", "psr/log@3.0.0"}, []string{"phpunit/phpunit"})
	lock.StabilityFlags = map[string]int{"Vendor/Beta": int(domain.StabilityBeta)}

	req, err := resolve.NewRequestBuilder(logger).Build(m, resolve.MonorepoTarget(m), lock, resolve.Scope{})
	require.NoError(t, err)

	require.Len(t, req.Requires(), 2)
	for _, l := range req.Requires() {
		assert.Contains(t, l.Constraint.String(), "==")
	}
	assert.Len(t, req.Present, 2)
	assert.Equal(t, domain.KindMember, req.Present[0].Kind)
	assert.Equal(t, domain.StabilityBeta, req.StabilityFlags["vendor/beta"])
	assert.Empty(t, rec.warns)

	devReq, err := resolve.NewRequestBuilder(logger).Build(m, resolve.MonorepoTarget(m), lock, resolve.Scope{Dev: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/log", "phpunit/phpunit", "psr/log"}, devReq.Targets())
}

func TestRequestBuilder_Build_StaleLock(t *testing.T) {
	m := newMonorepo(t)
	logger, rec := recordLogs(t)
	lock := lockFor(t, m, nil, nil)
	lock.ContentHash = "stale"

	_, err := resolve.NewRequestBuilder(logger).Build(m, m.Member("acme/app"), lock, resolve.Scope{})
	require.NoError(t, err)
	assert.Empty(t, rec.warns, "only the root target reports a stale lock")

	_, err = resolve.NewRequestBuilder(logger).Build(m, resolve.MonorepoTarget(m), lock, resolve.Scope{})
	require.NoError(t, err)
	assert.Equal(t, []string{resolve.StaleLockWarning}, rec.warns)
}

func TestMonorepoTarget(t *testing.T) {
	m := newMonorepo(t)
	target := resolve.MonorepoTarget(m)

	assert.Len(t, target.Requires, 4)
	assert.Len(t, target.DevRequires, 1)
	assert.Len(t, m.Root.Requires, 1, "the root is not modified")
}

func TestMergeRequirements(t *testing.T) {
	m := newMonorepo(t)
	m.WorkingDir = "/repo/lib/log"

	links, err := domain.ParseLinks("", map[string]string{"psr/log": "^3.0", "psr/container": "^2.0"})
	require.NoError(t, err)
	resolve.MergeRequirements(m, links, false)

	log := m.Member("acme/log")
	assert.True(t, log.References("psr/container"), "the active package gains new links")
	assert.Equal(t, "^3.0", constraintOf(log, "psr/log"))

	app := m.Member("acme/app")
	assert.False(t, app.References("psr/container"), "other members only have existing links replaced")
	assert.Equal(t, "^3.0", constraintOf(app, "psr/log"))

	assert.True(t, m.Root.References("psr/container"))
}

func constraintOf(p *domain.Package, target string) string {
	for _, l := range p.Links(true) {
		if l.Target == target {
			return l.Constraint.String()
		}
	}
	return ""
}
