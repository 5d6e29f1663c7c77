package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 500 * time.Millisecond

// Watcher watches a store's root and its date folders and emits a debounced
// signal whenever record files change, so a viewer can rescan.
type Watcher struct {
	fw      *fsnotify.Watcher
	changes chan struct{}
}

// NewWatcher starts watching the store's root directory and every existing
// date folder beneath it.
func NewWatcher(s *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(s.Root()); err != nil {
		fw.Close()
		return nil, err
	}

	entries, err := os.ReadDir(s.Root())
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() && dateFolderPattern.MatchString(entry.Name()) {
				// Best effort; a folder that vanished mid-walk is fine.
				_ = fw.Add(filepath.Join(s.Root(), entry.Name()))
			}
		}
	}

	return &Watcher{
		fw:      fw,
		changes: make(chan struct{}, 1),
	}, nil
}

// Changes returns the channel signalled after file activity settles.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes events until the context is cancelled. Bursts of events are
// collapsed into a single signal per debounce interval. New date folders are
// added to the watch as they appear.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if dateFolderPattern.MatchString(filepath.Base(event.Name)) {
						_ = w.fw.Add(event.Name)
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
			} else {
				timer.Reset(debounceInterval)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
