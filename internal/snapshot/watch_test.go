package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"condameta/internal/domain"
)

func TestWatcher_ReloadsOnRewrite(t *testing.T) {
	store := openTestStore(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"import_to_pkg": {"yaml": ["pyyaml"]}, "pypi_to_conda": {}}`), 0o644))
	require.NoError(t, store.LoadFile(path))

	var reloads atomic.Int64
	watcher := NewWatcher(store, path, func() { reloads.Add(1) }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	// Give the watcher a beat to register before rewriting.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"import_to_pkg": {"cv2": ["opencv"]}, "pypi_to_conda": {}}`), 0o644))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	pkgs, err := store.PackagesForImport("cv2")
	require.NoError(t, err)
	require.Equal(t, []string{"opencv"}, pkgs)

	_, err = store.PackagesForImport("yaml")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	store := openTestStore(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"import_to_pkg": {}, "pypi_to_conda": {}}`), 0o644))

	var reloads atomic.Int64
	watcher := NewWatcher(store, path, func() { reloads.Add(1) }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	time.Sleep(500 * time.Millisecond)
	require.EqualValues(t, 0, reloads.Load())
}
