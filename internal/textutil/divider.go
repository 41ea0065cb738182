package textutil

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Divider yields successive display-width-bounded slices of a string. Each
// slice holds as many grapheme clusters as fit in the configured width; a
// wide cluster that would overflow is pushed to the next slice.
type Divider struct {
	text  string
	width int
	pos   int
	start int
	end   int
}

func NewDivider(text string, width int) *Divider {
	return &Divider{text: text, width: width}
}

// indexOfWidth returns the byte offset in s where the cumulative display
// width first exceeds cols.
func indexOfWidth(s string, cols int) int {
	sum := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := clusterWidth(cluster)
		if sum+w > cols {
			start, _ := g.Positions()
			return start
		}
		sum += w
	}
	return len(s)
}

func clusterWidth(cluster string) int {
	w := 0
	for _, ru := range cluster {
		w += runewidth.RuneWidth(ru)
	}
	return w
}

// Seek positions the divider so the next slice starts cols display columns
// into the string. It returns the resulting byte offset.
func (d *Divider) Seek(cols int) int {
	d.pos = indexOfWidth(d.text, cols)
	d.start = d.pos
	d.end = d.pos
	return d.pos
}

// Next returns the next width-bounded slice, or ok=false at end of string.
func (d *Divider) Next() (string, bool) {
	if d.pos >= len(d.text) {
		return "", false
	}
	end := d.pos + indexOfWidth(d.text[d.pos:], d.width)
	if end == d.pos {
		// wider cluster than the slice width; take it alone so progress
		// is always made
		g := uniseg.NewGraphemes(d.text[d.pos:])
		if g.Next() {
			end = d.pos + len(g.Str())
		} else {
			end = len(d.text)
		}
	}
	d.start = d.pos
	d.end = end
	d.pos = end
	return d.text[d.start:d.end], true
}

// LastRange returns the byte range of the slice most recently returned by
// Next (or the seek position if Next has not run since the last Seek).
func (d *Divider) LastRange() (int, int) {
	return d.start, d.end
}
