package watchlist

import (
	"context"

	"go.uber.org/zap"
)

// Reloader serializes reload triggers for a Store. It is either idle or
// running exactly one reload; a trigger that arrives while a reload is in
// flight coalesces into the pending slot, and further triggers are dropped
// with a log line rather than queued. In-flight evaluations keep reading
// the pre-reload snapshot throughout.
type Reloader struct {
	store    *Store
	logger   *zap.Logger
	triggers chan string
	onResult func(source string, err error)
}

// NewReloader creates a Reloader for store. onResult, if non-nil, is called
// after every completed reload attempt, e.g. to record metrics.
func NewReloader(store *Store, logger *zap.Logger, onResult func(source string, err error)) *Reloader {
	return &Reloader{
		store:    store,
		logger:   logger,
		triggers: make(chan string, 1),
		onResult: onResult,
	}
}

// Trigger requests a reload. source names the trigger origin ("sighup",
// "http", "fsnotify") for logging. Never blocks: if a reload is already
// pending or in flight the trigger coalesces into it.
func (r *Reloader) Trigger(source string) {
	select {
	case r.triggers <- source:
	default:
		r.logger.Info("reload already in flight, coalescing trigger",
			zap.String("source", source),
		)
	}
}

// Run processes triggers until ctx is cancelled. Reload failures are logged
// by the Store and never stop the loop.
func (r *Reloader) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case source := <-r.triggers:
			r.logger.Info("reloading watch-list",
				zap.String("source", source),
				zap.String("path", r.store.Path()),
			)
			err := r.store.Reload()
			if r.onResult != nil {
				r.onResult(source, err)
			}
		}
	}
}
