package export_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasbyte1/hashpass/internal/export"
)

const sampleHash = "$2b$12$examplehashvalue..."

func TestToFile_DefaultFilename(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := export.ToFile(sampleHash, "")
	require.NoError(t, err)

	want, err := filepath.Abs(export.DefaultFilename)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(filepath.Join(dir, export.DefaultFilename))
	require.NoError(t, err)
	assert.Equal(t, sampleHash+"\n", string(data))
}

func TestToFile_RelativePathResolved(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("out", 0o755))

	got, err := export.ToFile(sampleHash, filepath.Join("out", "h.txt"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.FileExists(t, filepath.Join(dir, "out", "h.txt"))
}

func TestToFile_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.txt")
	require.NoError(t, os.WriteFile(path, []byte("a much longer previous content\nsecond line\n"), 0o644))

	_, err := export.ToFile(sampleHash, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleHash+"\n", string(data))
}

func TestToFile_CreatesPrivateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.txt")
	_, err := export.ToFile(sampleHash, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0o077, "file is readable by group or others: %v", info.Mode())
}

func TestToFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "hash.txt")

	got, err := export.ToFile(sampleHash, path)
	assert.Empty(t, got)

	var werr *export.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "open", werr.Op)
	assert.Equal(t, path, werr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), path)
}

func TestToFile_PathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := export.ToFile(sampleHash, dir)

	var werr *export.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "open", werr.Op)
}
