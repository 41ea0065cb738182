//go:build !windows && !plan9 && !js && !wasip1

package watch

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// PipeWatcher polls a pipe descriptor for readability. A hangup with data
// still buffered reports ChangedHUP so the caller can do one final drain.
type PipeWatcher struct {
	fd int
}

// NewPipeWatcher watches the descriptor of f. The reader side keeps
// ownership of the file; Close here is a no-op.
func NewPipeWatcher(f *os.File) *PipeWatcher {
	return &PipeWatcher{fd: int(f.Fd())}
}

func (w *PipeWatcher) Watch(timeout time.Duration) (Result, error) {
	fds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if errors.Is(err, unix.EINTR) {
		return TimedOut, nil
	}
	if err != nil {
		return TimedOut, err
	}
	if n == 0 {
		return TimedOut, nil
	}
	revents := fds[0].Revents
	if revents&unix.POLLHUP != 0 {
		return ChangedHUP, nil
	}
	if revents&unix.POLLIN != 0 {
		return Changed, nil
	}
	return TimedOut, nil
}

func (w *PipeWatcher) Close() error { return nil }
