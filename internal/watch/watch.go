// Package watch reports when a pager source has new data. Files are
// observed through inotify-style notifications, pipes through poll, and
// sources that support neither fall back to a plain timeout so follow mode
// still reloads periodically.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Result says why a Watch call returned.
type Result int

const (
	// TimedOut means nothing happened within the timeout.
	TimedOut Result = iota
	// Changed means the source has (or may have) new data.
	Changed
	// ChangedHUP means the source delivered data and then hung up. The
	// writer is gone; there will be no further changes.
	ChangedHUP
)

// Watcher blocks until its source changes or the timeout passes.
type Watcher interface {
	Watch(timeout time.Duration) (Result, error)
	Close() error
}

// FileWatcher reports writes to a single file.
type FileWatcher struct {
	path string
	fsw  *fsnotify.Watcher
}

// NewFileWatcher watches path for modifications. The parent directory is
// registered too, so rename-and-recreate writers (log rotation) are still
// noticed.
func NewFileWatcher(path string) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return &FileWatcher{path: abs, fsw: fsw}, nil
}

func (w *FileWatcher) Watch(timeout time.Duration) (Result, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return TimedOut, nil
			}
			if abs, err := filepath.Abs(ev.Name); err == nil && abs != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				return Changed, nil
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return TimedOut, nil
			}
			return TimedOut, err
		case <-timer.C:
			return TimedOut, nil
		}
	}
}

func (w *FileWatcher) Close() error {
	return w.fsw.Close()
}

// TimeoutWatcher always waits out the timeout. It backs sources that offer
// no change notification at all.
type TimeoutWatcher struct{}

func (TimeoutWatcher) Watch(timeout time.Duration) (Result, error) {
	time.Sleep(timeout)
	return TimedOut, nil
}

func (TimeoutWatcher) Close() error { return nil }
