package storage_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/contestcli/judge/internal/storage"
)

func TestFsStore(t *testing.T) {
	store, err := storage.NewFsStore(filepath.Join(t.TempDir(), "tests"))
	require.NoError(t, err)

	require.NoError(t, store.Write("1.in", []byte("1 2\n")))

	data, err := store.Read("1.in")
	require.NoError(t, err)
	require.Equal(t, "1 2\n", string(data))

	require.NoError(t, store.Delete("1.in"))

	_, err = store.Read("1.in")
	require.Error(t, err)
	require.Error(t, store.Delete("1.in"))
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "tests"), 0o755))
	files := map[string]string{
		"main.cpp":      "int main() {}\n",
		"tests/1.in":    "1 2\n",
		"tests/1.out":   "3\n",
		"tests/1m.in":   "split\n",
		"testcases.txt": "meta\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(content), 0o644))
	}

	var buf bytes.Buffer
	require.NoError(t, storage.Archive(src, &buf))

	dst := t.TempDir()
	require.NoError(t, storage.Restore(&buf, dst))

	for name, content := range files {
		data, err := os.ReadFile(filepath.Join(dst, name))
		require.NoError(t, err)
		require.Equal(t, content, string(data))
	}
}

func TestRestoreRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "../evil.txt",
		Mode: 0o644,
		Size: 4,
	}))
	_, err = tw.Write([]byte("evil"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())

	err = storage.Restore(&buf, t.TempDir())
	require.Error(t, err)
}
