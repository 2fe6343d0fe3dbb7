package watchlist

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultDebounceDelay absorbs editor write bursts and atomic-rename saves
// before triggering a reload.
const defaultDebounceDelay = 100 * time.Millisecond

// Watcher watches the watch-list file and fires a reload trigger when it
// changes. It watches the parent directory so rename-based writes (the
// common "write temp file then rename" pattern, also how Kubernetes updates
// ConfigMap mounts) are observed.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	reloader      *Reloader
	logger        *zap.Logger
	debounceDelay time.Duration
}

// NewWatcher creates a Watcher that triggers reloader on changes to path.
func NewWatcher(path string, reloader *Reloader, logger *zap.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		reloader:      reloader,
		logger:        logger,
		debounceDelay: defaultDebounceDelay,
	}, nil
}

// Start begins watching and blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	defer w.watcher.Close()

	w.logger.Info("watching watch-list file", zap.String("path", w.path))

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("watch-list file changed",
				zap.String("op", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounceDelay)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			w.reloader.Trigger("fsnotify")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch-list watcher error", zap.Error(err))
		}
	}
}
