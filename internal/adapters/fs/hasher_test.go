package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/adapters/fs"
)

func TestHasher_HashBytes(t *testing.T) {
	h := fs.NewHasher()

	first := h.HashBytes([]byte("monorepo"), []byte("json"))
	assert.Len(t, first, 16)
	assert.Equal(t, first, h.HashBytes([]byte("monorepo"), []byte("json")), "hash must be deterministic")
	assert.NotEqual(t, first, h.HashBytes([]byte("monorepoj"), []byte("son")), "chunk boundaries are significant")
	assert.NotEqual(t, first, h.HashBytes([]byte("monorepo")))
}

func TestHasher_HashFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "composer.json")
	writeFile(t, path, `{"name": "acme/log"}`)

	h := fs.NewHasher()
	first, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Len(t, first, 16)

	writeFile(t, path, `{"name": "acme/http"}`)
	second, err := h.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = h.HashFile(filepath.Join(tmpDir, "missing.json"))
	assert.ErrorContains(t, err, "failed to open file")
}
