// Package watchlist holds the set of alert names whose firing marks the
// cluster unhealthy, and the machinery for swapping that set at runtime.
package watchlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// commentMarker starts a comment line in the watch-list file.
const commentMarker = "#"

// ErrEmptyWatchList is returned when the watch-list source contains no
// usable entries. An empty watch-list is a misconfiguration, not a
// trivially healthy one.
var ErrEmptyWatchList = errors.New("watch-list contains no usable entries")

// WatchList is an immutable, ordered set of alert names read from the
// watch-list file. A new instance entirely replaces the old one on reload;
// it is never mutated in place.
type WatchList struct {
	names []string
	index map[string]struct{}
}

// New builds a WatchList from names, dropping duplicates while preserving
// first-seen order. Callers normally go through Load instead.
func New(names []string) *WatchList {
	wl := &WatchList{
		index: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, dup := wl.index[name]; dup {
			continue
		}
		wl.index[name] = struct{}{}
		wl.names = append(wl.names, name)
	}
	return wl
}

// Parse reads one alert name per line, trimming whitespace and skipping
// blank lines and comments.
func Parse(r io.Reader) (*WatchList, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch-list: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrEmptyWatchList
	}
	return New(names), nil
}

// Load reads and parses the watch-list file at path.
func Load(path string) (*WatchList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open watch-list file %s: %w", path, err)
	}
	defer f.Close()

	wl, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse watch-list file %s: %w", path, err)
	}
	return wl, nil
}

// Names returns the alert names in first-seen order. Callers must not
// modify the returned slice.
func (wl *WatchList) Names() []string {
	return wl.names
}

// Len returns the number of watched alert names.
func (wl *WatchList) Len() int {
	return len(wl.names)
}

// Contains reports whether name is on the watch-list.
func (wl *WatchList) Contains(name string) bool {
	_, ok := wl.index[name]
	return ok
}

// Matches returns the watched names present in firing, in watch-list order.
func (wl *WatchList) Matches(firing map[string]struct{}) []string {
	var matched []string
	for _, name := range wl.names {
		if _, ok := firing[name]; ok {
			matched = append(matched, name)
		}
	}
	return matched
}
