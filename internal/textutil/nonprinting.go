package textutil

import "strings"

// ShowNonprinting rewrites control characters in caret notation (^A..^_,
// ^? for DEL) so they are visible instead of being interpreted by the
// terminal. Tabs are left alone; tab expansion handles them.
func ShowNonprinting(text string) string {
	if !hasControl(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t':
			b.WriteRune(r)
		case r < 0x20:
			b.WriteByte('^')
			b.WriteByte(byte(r) + 0x40)
		case r == 0x7f:
			b.WriteString("^?")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasControl(text string) bool {
	for _, r := range text {
		if r == '\t' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
