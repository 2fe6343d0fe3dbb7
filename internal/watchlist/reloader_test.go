package watchlist

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReloaderTriggerReloads(t *testing.T) {
	path := writeWatchlist(t, "EtcdFsyncHigh\n")
	store, err := NewStore(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	var mu sync.Mutex
	var results []error
	reloader := NewReloader(store, zaptest.NewLogger(t), func(source string, err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, err)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reloader.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("DiskPressure\n"), 0644))
	reloader.Trigger("http")

	assert.Eventually(t, func() bool {
		names := store.Current().Names()
		return len(names) == 1 && names[0] == "DiskPressure"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1 && results[0] == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReloaderFailureKeepsSnapshot(t *testing.T) {
	path := writeWatchlist(t, "EtcdFsyncHigh\n")
	store, err := NewStore(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	var mu sync.Mutex
	var results []error
	reloader := NewReloader(store, zaptest.NewLogger(t), func(source string, err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, err)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reloader.Run(ctx)

	require.NoError(t, os.Remove(path))
	reloader.Trigger("sighup")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1 && results[0] != nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"EtcdFsyncHigh"}, store.Current().Names())
}

// A trigger arriving while a reload is pending coalesces instead of
// queueing; Trigger never blocks the caller.
func TestReloaderTriggerCoalesces(t *testing.T) {
	path := writeWatchlist(t, "EtcdFsyncHigh\n")
	store, err := NewStore(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	reloader := NewReloader(store, zaptest.NewLogger(t), nil)
	// Run loop deliberately not started: the first trigger occupies the
	// pending slot, the rest must coalesce without blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			reloader.Trigger("sighup")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Trigger blocked while a reload was pending")
	}
}
