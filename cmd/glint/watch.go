package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// fileWatcher monitors a single file and signals debounced changes.
// Editors often replace files via rename, so the parent directory is
// watched and events are filtered by name.
type fileWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	onChange  chan struct{}
	done      chan struct{}
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &fileWatcher{
		fsWatcher: fsw,
		path:      abs,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// start begins watching. The returned channel receives a signal when
// the file changes.
func (w *fileWatcher) start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(w.path), err)
	}
	go w.loop()
	return w.onChange, nil
}

// stop terminates the watcher and releases resources.
func (w *fileWatcher) stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *fileWatcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				pending = true
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDebounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *fileWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Name != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
