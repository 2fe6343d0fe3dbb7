package watchlist

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Store owns the active WatchList snapshot. Reads never block and never
// fail; a reload either fully publishes a new snapshot or leaves the
// current one untouched. The publish is a single atomic pointer swap, so
// no lock is held across the file read.
type Store struct {
	path    string
	current atomic.Pointer[WatchList]
	logger  *zap.Logger
}

// NewStore loads the initial watch-list from path. There is no valid state
// without one, so the caller is expected to treat an error as fatal.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	wl, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, logger: logger}
	s.current.Store(wl)
	logger.Info("watch-list loaded",
		zap.String("path", path),
		zap.Int("entries", wl.Len()),
		zap.Strings("alerts", wl.Names()),
	)
	return s, nil
}

// Current returns the active snapshot.
func (s *Store) Current() *WatchList {
	return s.current.Load()
}

// Path returns the watch-list file path used at startup and on reload.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the watch-list file and atomically publishes the result.
// On failure the prior snapshot stays active and the error is returned for
// the caller to surface.
func (s *Store) Reload() error {
	wl, err := Load(s.path)
	if err != nil {
		s.logger.Error("watch-list reload failed, keeping previous snapshot",
			zap.String("path", s.path),
			zap.Int("active_entries", s.Current().Len()),
			zap.Error(err),
		)
		return err
	}
	s.current.Store(wl)
	s.logger.Info("watch-list reloaded",
		zap.String("path", s.path),
		zap.Int("entries", wl.Len()),
		zap.Strings("alerts", wl.Names()),
	)
	return nil
}
