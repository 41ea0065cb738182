package pane

import "fmt"

// Escape sequences used by the renderer. The pager draws inline at the
// bottom of the scrollback, so everything is expressed as relative cursor
// motion and line clears; no alternate screen, no absolute addressing.
const (
	clearLine = "\x1b[2K"
	sgrInvert = "\x1b[7m"
	sgrDim    = "\x1b[2m"
	sgrReset  = "\x1b[0m"
)

func cursorPrevLine(n int) string {
	return fmt.Sprintf("\x1b[%dF", n)
}

func cursorNextLine(n int) string {
	return fmt.Sprintf("\x1b[%dE", n)
}

func cursorHorizontalAbs(col int) string {
	return fmt.Sprintf("\x1b[%dG", col)
}
