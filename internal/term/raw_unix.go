//go:build !windows && !plan9 && !js && !wasip1

package term

import (
	"os"

	"golang.org/x/sys/unix"
)

// EnterNonCanonical disables echo and line buffering on f and returns a
// restore function for the original settings. Unlike a full raw mode, ISIG
// stays set: Ctrl-C must keep delivering SIGINT because the pager treats
// the signal itself as an event.
func EnterNonCanonical(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	raw := *saved
	raw.Lflag &^= unix.ECHO | unix.ICANON
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, err
	}
	return func() error {
		return unix.IoctlSetTermios(fd, ioctlWriteTermios, saved)
	}, nil
}
