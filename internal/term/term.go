// Package term handles terminal plumbing: locating the keyboard stream,
// querying the window size, and switching the terminal into the
// character-at-a-time mode the pager needs.
package term

import (
	"os"

	xterm "golang.org/x/term"
)

// OpenInput returns the stream keystrokes should be read from. When stdin
// is redirected (the usual piped invocation) the controlling terminal is
// opened directly so paging keys still work.
func OpenInput() (*os.File, error) {
	if IsTerminal(os.Stdin) {
		return os.Stdin, nil
	}
	return os.Open("/dev/tty")
}

// IsTerminal reports whether f refers to a terminal.
func IsTerminal(f *os.File) bool {
	return xterm.IsTerminal(int(f.Fd()))
}

// Size returns the terminal width and height in cells.
func Size(f *os.File) (width, height int, err error) {
	return xterm.GetSize(int(f.Fd()))
}
