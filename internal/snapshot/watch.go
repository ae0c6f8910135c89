package snapshot

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the snapshot file when the external regeneration job
// rewrites it, then notifies the cache layer through onReload.
type Watcher struct {
	store    *Store
	path     string
	onReload func()
	logger   *zap.Logger
}

func NewWatcher(store *Store, path string, onReload func(), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		store:    store,
		path:     path,
		onReload: onReload,
		logger:   logger.Named("snapshot_watcher"),
	}
}

// Run watches the snapshot file's directory until ctx is done. Events are
// debounced; editors and atomic-rename writers both produce bursts.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("snapshot watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("snapshot watcher add failed", zap.String("path", w.path), zap.Error(err))
		return
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-watcher.Errors:
			if err != nil {
				w.logger.Warn("snapshot watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.LoadFile(w.path); err != nil {
		w.logger.Warn("snapshot reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	if w.onReload != nil {
		w.onReload()
	}
}
