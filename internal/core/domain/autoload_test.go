package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/core/domain"
)

func TestAutoloadSpec_UnmarshalJSON(t *testing.T) {
	raw := `{
		"psr-4": {"Acme\\": "src/", "Acme\\Tests\\": ["tests/", "fixtures/"]},
		"psr-0": {"Legacy_": "lib/"},
		"classmap": ["classes/"],
		"files": ["helpers.php"],
		"exclude-from-classmap": ["/Tests/"]
	}`

	var spec domain.AutoloadSpec
	require.NoError(t, json.Unmarshal([]byte(raw), &spec))

	assert.Equal(t, map[string][]string{
		`Acme\`:       {"src/"},
		`Acme\Tests\`: {"tests/", "fixtures/"},
	}, spec.PSR4)
	assert.Equal(t, map[string][]string{"Legacy_": {"lib/"}}, spec.PSR0)
	assert.Equal(t, []string{"classes/"}, spec.Classmap)
	assert.Equal(t, []string{"helpers.php"}, spec.Files)
	assert.Equal(t, []string{"/Tests/"}, spec.ExcludeFromClassmap)
	assert.Empty(t, spec.Malformed())
	assert.False(t, spec.IsEmpty())
}

func TestAutoloadSpec_EmptyArray(t *testing.T) {
	var spec domain.AutoloadSpec
	require.NoError(t, json.Unmarshal([]byte(`[]`), &spec))
	assert.True(t, spec.IsEmpty())

	require.NoError(t, json.Unmarshal([]byte(`{"psr-4": []}`), &spec))
	assert.True(t, spec.IsEmpty())
}

func TestAutoloadSpec_MarshalRoundTrip(t *testing.T) {
	in := domain.AutoloadSpec{
		PSR4:     map[string][]string{`Acme\`: {"src/"}, `Acme\Extra\`: {"a/", "b/"}},
		Classmap: []string{"lib/"},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"psr-4": {"Acme\\": "src/", "Acme\\Extra\\": ["a/", "b/"]}, "classmap": ["lib/"]}`, string(data))

	var out domain.AutoloadSpec
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.PSR4, out.PSR4)
	assert.Equal(t, in.Classmap, out.Classmap)
}

func TestAutoloadSpec_Merge(t *testing.T) {
	a := domain.AutoloadSpec{PSR4: map[string][]string{`Acme\`: {"src/"}}, Files: []string{"a.php"}}
	b := domain.AutoloadSpec{PSR4: map[string][]string{`Acme\`: {"tests/"}}, Files: []string{"b.php"}}

	merged := a.Merge(b)

	assert.Equal(t, []string{"src/", "tests/"}, merged.PSR4[`Acme\`])
	assert.Equal(t, []string{"a.php", "b.php"}, merged.Files)
	assert.Equal(t, []string{"src/"}, a.PSR4[`Acme\`], "merge must not alias the receiver")
}

func TestValidateAutoload(t *testing.T) {
	decode := func(t *testing.T, raw string) domain.AutoloadSpec {
		t.Helper()
		var spec domain.AutoloadSpec
		require.NoError(t, json.Unmarshal([]byte(raw), &spec))
		return spec
	}

	tests := []struct {
		name      string
		raw       string
		targetDir string
		wantErr   error
	}{
		{name: "valid", raw: `{"psr-4": {"Acme\\": "src/"}, "psr-0": {"": "lib/"}}`},
		{name: "empty psr-4 namespace", raw: `{"psr-4": {"": "src/"}}`},
		{name: "psr-0 with target-dir", raw: `{"psr-0": {"Acme": ""}}`, targetDir: "Acme"},
		{name: "psr-4 with target-dir", raw: `{"psr-4": {"Acme\\": "src/"}}`, targetDir: "Acme", wantErr: domain.ErrPSR4TargetDir},
		{name: "missing separator", raw: `{"psr-4": {"Acme": "src/"}}`, wantErr: domain.ErrPSR4Separator},
		{name: "psr-4 string", raw: `{"psr-4": "src/"}`, wantErr: domain.ErrAutoloadNotArray},
		{name: "classmap string", raw: `{"classmap": "src/"}`, wantErr: domain.ErrAutoloadNotArray},
		{name: "files number", raw: `{"files": 42}`, wantErr: domain.ErrAutoloadNotArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateAutoload("acme/lib", tt.targetDir, "autoload", decode(t, tt.raw))
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestAutoloadTable_FirstWriterWins(t *testing.T) {
	table := domain.NewAutoloadTable()

	assert.True(t, table.AddClass(`Acme\X`, "/a/X.php"))
	assert.True(t, table.AddClass(`Acme\X`, "/a/X.php"), "same path is not a conflict")
	assert.False(t, table.AddClass(`Acme\X`, "/b/X.php"))
	assert.False(t, table.AddClass(`Acme\X`, "/b/X.php"))
	assert.True(t, table.AddClass(`Acme\A`, "/a/A.php"))

	assert.Equal(t, "/a/X.php", table.Classmap[`Acme\X`])
	assert.Equal(t, []string{`Acme\A`, `Acme\X`}, table.Classes())
	assert.Equal(t, []domain.Ambiguity{
		{Class: `Acme\X`, Paths: []string{"/a/X.php", "/b/X.php"}},
	}, table.Ambiguities())
}
