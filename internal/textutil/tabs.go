package textutil

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

const (
	DefaultTabWidth = 4
	maxTabWidth     = 32
)

// ExpandTabs replaces tab characters with spaces, tracking the display
// column (not the byte offset) so alignment stays correct after wide runes.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth > maxTabWidth {
		tabWidth = maxTabWidth
	}
	if !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			if tabWidth <= 0 {
				continue
			}
			spaces := tabWidth - (column % tabWidth)
			for i := 0; i < spaces; i++ {
				builder.WriteByte(' ')
			}
			column += spaces
			continue
		}
		// Combining marks and other zero-width runes stay in the text
		// and count as zero columns; only control runes are dropped.
		if unicode.IsControl(ru) {
			continue
		}
		builder.WriteRune(ru)
		column += runewidth.RuneWidth(ru)
	}
	return builder.String()
}

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			continue
		}
		width += w
	}
	return width
}
