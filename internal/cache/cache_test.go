package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t,
		"https___www_immobiliare_it_annunci_12345_.json",
		Key("https://www.immobiliare.it/annunci/12345/"))

	// Deterministic.
	assert.Equal(t, Key("https://a.b/c"), Key("https://a.b/c"))
}

func TestDirMissThenRoundtrip(t *testing.T) {
	dir, err := NewDir(filepath.Join(t.TempDir(), "output"))
	require.NoError(t, err)

	url := "https://www.immobiliare.it/annunci/1/"

	_, ok, err := dir.Get(url)
	require.NoError(t, err)
	assert.False(t, ok)

	blob := []byte(`{"listing": {}}`)
	require.NoError(t, dir.Put(url, blob))

	got, ok, err := dir.Get(url)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blob, got)
}

func TestDirEmptyBlobIsAMiss(t *testing.T) {
	base := t.TempDir()
	dir, err := NewDir(base)
	require.NoError(t, err)

	url := "https://www.immobiliare.it/annunci/2/"
	require.NoError(t, os.WriteFile(filepath.Join(base, Key(url)), nil, 0644))

	_, ok, err := dir.Get(url)
	require.NoError(t, err)
	assert.False(t, ok)
}
