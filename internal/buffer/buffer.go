// Package buffer holds the shared line buffer a pager session displays and
// the incremental readers that fill it from a file or pipe.
package buffer

// Buffer is an append-only ordered sequence of text lines. It is shared by
// reference between the orchestrator and the pane; only the orchestrator
// appends, and it does so between dispatch steps, never concurrently with a
// redraw, so no locking is used.
type Buffer struct {
	lines []string
}

func New() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Len() int {
	return len(b.lines)
}

func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// Slice returns the lines in [start, end). Bounds are clamped.
func (b *Buffer) Slice(start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if start >= end {
		return nil
	}
	return b.lines[start:end]
}

func (b *Buffer) Append(lines ...string) {
	b.lines = append(b.lines, lines...)
}
