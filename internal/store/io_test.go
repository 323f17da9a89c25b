package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_ReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	require.NoError(t, writeJSON(path, map[string]int{"v": 1}, 0o600))
	require.NoError(t, writeJSON(path, map[string]int{"v": 2}, 0o600))

	var got map[string]int
	found, err := readJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got["v"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no staged files remain")
	assert.Equal(t, "record.json", entries[0].Name())
}

func TestReadJSON_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	var out map[string]int

	found, err := readJSON(filepath.Join(dir, "absent.json"), &out)
	require.NoError(t, err)
	assert.False(t, found)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, writeFile(bad, []byte("{not json"), 0o600))
	found, err = readJSON(bad, &out)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestWriteFile_MissingDirFails(t *testing.T) {
	err := writeFile(filepath.Join(t.TempDir(), "nope", "x.json"), []byte("{}"), 0o600)
	assert.Error(t, err)
}
