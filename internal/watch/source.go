package watch

import (
	"log/slog"
	"os"
)

// ForSource picks the best watcher for the source the pager is reading.
// path selects file watching; a nil path with a pipe selects polling. When
// file notification cannot be set up (network mounts, exotic filesystems)
// the timeout fallback keeps follow mode functional.
func ForSource(path string, pipe *os.File) Watcher {
	if path != "" {
		w, err := NewFileWatcher(path)
		if err == nil {
			return w
		}
		slog.Warn("file watch unavailable, falling back to timeout", "path", path, "error", err)
		return TimeoutWatcher{}
	}
	if pipe != nil {
		return NewPipeWatcher(pipe)
	}
	return TimeoutWatcher{}
}
