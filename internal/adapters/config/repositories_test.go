package config_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/adapters/config"
	"go.trai.ch/conductor/internal/core/domain"
)

func TestLoader_Load_Repositories(t *testing.T) {
	root := setupMonorepo(t)
	createFile(t, root, domain.MonorepoFileName, `{
		"version": "1.0.0",
		"config": {"monorepo": {"app-dirs": [], "lib-dirs": ["lib/*"]}},
		"repositories": [
			{"type": "package", "package": {"name": "psr/log", "version": "3.0.0", "autoload": {"psr-4": {"Psr\\Log\\": "src"}}}},
			{"type": "package", "package": [
				{"name": "psr/container", "version": "1.1.2"},
				{"name": "psr/container", "version": "2.0.2"}
			]},
			{"type": "path", "url": "packages/*"},
			{"type": "composer", "url": "repo"}
		]
	}`)
	createFile(t, root, "packages/polyfill/composer.json", `{"name": "acme/polyfill"}`)
	createFile(t, root, "packages/pinned/composer.json", `{"name": "acme/pinned", "version": "2.1.0"}`)
	createFile(t, root, "repo/packages.json", `{
		"packages": {
			"phpunit/phpunit": {
				"10.5.0": {"require": {"php": ">=8.1"}},
				"9.6.0": {}
			}
		}
	}`)

	m, err := newLoader(t).Load(root)
	require.NoError(t, err)

	pool := m.Pool()
	assert.True(t, pool.Has("psr/log"))
	assert.Len(t, pool.Lookup("psr/container"), 2)
	assert.Len(t, pool.Lookup("phpunit/phpunit"), 2)

	polyfill := pool.Get("acme/polyfill")
	require.NotNil(t, polyfill)
	assert.Equal(t, "dev-main", polyfill.Version.String())
	assert.Equal(t, "packages/polyfill", polyfill.Dist.URL)
	assert.Equal(t, filepath.Join(root, "packages", "polyfill"), polyfill.Dir)

	assert.Equal(t, "2.1.0", pool.Get("acme/pinned").Version.String())

	phpunit := pool.Find("phpunit/phpunit", domain.MustParseConstraint("^10.0"))
	require.NotNil(t, phpunit)
	assert.Len(t, phpunit.Requires, 1)
}

func TestLoader_Load_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		repos   string
		wantErr error
	}{
		{"remote composer", `[{"type": "composer", "url": "https://repo.packagist.org"}]`, domain.ErrRemoteRepositoryUnsupported},
		{"unknown type", `[{"type": "vcs", "url": "git@example.com:acme/log.git"}]`, domain.ErrInvalidRepository},
		{"package without body", `[{"type": "package"}]`, domain.ErrInvalidRepository},
		{"bad version", `[{"type": "package", "package": {"name": "a/b", "version": "latest-ish"}}]`, domain.ErrInvalidRepository},
		{"missing local index", `[{"type": "composer", "url": "file://missing"}]`, domain.ErrManifestReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			createFile(t, root, domain.MonorepoFileName, `{
				"version": "1.0.0",
				"config": {"monorepo": {"app-dirs": [], "lib-dirs": []}},
				"repositories": `+tt.repos+`
			}`)

			_, err := newLoader(t).Load(root)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestRepositories_UnmarshalJSON(t *testing.T) {
	var keyed config.Repositories
	require.NoError(t, json.Unmarshal([]byte(`{
		"packagist.org": false,
		"local": {"type": "path", "url": "packages/*"}
	}`), &keyed))
	require.Len(t, keyed, 1)
	assert.Equal(t, "path", keyed[0].Type)

	var list config.Repositories
	require.NoError(t, json.Unmarshal([]byte(`[false, {"type": "composer", "url": "repo"}]`), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "repo", list[0].URL)

	var invalid config.Repositories
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &invalid))
}

func TestLoader_Load_InvalidPlatform(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.MonorepoFileName, `{
		"version": "1.0.0",
		"config": {"monorepo": {"app-dirs": [], "lib-dirs": []}, "platform": {"acme/log": "1.0.0"}}
	}`)

	_, err := newLoader(t).Load(root)
	assert.ErrorContains(t, err, domain.ErrInvalidRepository.Error())
}
