package pane

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/glimpse/internal/textutil"
)

// decorateTrim renders one logical line as a single physical row: the
// display-width-bounded slice starting at the horizontal offset, with the
// gutter, highlight overlay, and continuation marks applied.
func (p *Pane) decorateTrim(line string, lineNo, numWidth, textWidth, paneWidth int) string {
	expanded := textutil.ExpandTabs(line, p.tabWidth)
	d := textutil.NewDivider(expanded, textWidth)
	d.Seek(p.x)
	slice, _ := d.Next()
	start, end := d.LastRange()

	var b strings.Builder
	if p.showNumbers {
		fmt.Fprintf(&b, "%*d ", numWidth, lineNo+1)
	}
	// The mark column is reserved even when no mark is shown so the text
	// never shifts as the offset moves.
	if start > 0 {
		b.WriteString(sgrDim + "+" + sgrReset)
	} else {
		b.WriteString(" ")
	}
	b.WriteString(p.highlightSlice(expanded, slice, start, end))
	if end < len(expanded) {
		// The mark sits in the pane's last column regardless of how much
		// of the slice was filled.
		b.WriteString(cursorHorizontalAbs(paneWidth))
		b.WriteString(sgrDim + "+" + sgrReset)
	}
	return b.String()
}

// decorateWrap renders one logical line as up to budget physical rows.
// The line number appears only on the first row; continuation rows get a
// blank gutter and a leading mark instead.
func (p *Pane) decorateWrap(line string, lineNo, numWidth, textWidth, budget int) []string {
	expanded := textutil.ExpandTabs(line, p.tabWidth)
	d := textutil.NewDivider(expanded, textWidth)

	var rows []string
	first := true
	for len(rows) < budget {
		seg, ok := d.Next()
		if !ok {
			if first {
				rows = append(rows, p.wrapPrefix(lineNo, numWidth, true))
			}
			break
		}
		start, end := d.LastRange()
		var b strings.Builder
		b.WriteString(p.wrapPrefix(lineNo, numWidth, first))
		b.WriteString(p.highlightSlice(expanded, seg, start, end))
		rows = append(rows, b.String())
		first = false
	}
	return rows
}

func (p *Pane) wrapPrefix(lineNo, numWidth int, first bool) string {
	var b strings.Builder
	if p.showNumbers {
		if first {
			fmt.Fprintf(&b, "%*d ", numWidth, lineNo+1)
		} else {
			b.WriteString(strings.Repeat(" ", numWidth+1))
		}
	}
	// The mark column is reserved on every row so continuation rows line
	// up with the first one.
	if first {
		b.WriteString(" ")
	} else {
		b.WriteString(sgrDim + "+" + sgrReset)
	}
	return b.String()
}

// highlightSlice overlays inverse video on the parts of [start, end) that
// intersect a match. Matches are found against the whole expanded line so
// a hit straddling the slice edge is still partially inverted.
func (p *Pane) highlightSlice(expanded, slice string, start, end int) string {
	if !p.highlight || p.matcher == nil {
		return slice
	}
	spans := p.matcher.FindAll(expanded)
	if len(spans) == 0 {
		return slice
	}
	var b strings.Builder
	pos := start
	for _, sp := range spans {
		if sp.End <= start {
			continue
		}
		if sp.Start >= end {
			break
		}
		s, e := sp.Start, sp.End
		if s < start {
			s = start
		}
		if e > end {
			e = end
		}
		if s > pos {
			b.WriteString(expanded[pos:s])
		}
		if e > s {
			b.WriteString(sgrInvert)
			b.WriteString(expanded[s:e])
			b.WriteString(sgrReset)
		}
		pos = e
	}
	if pos < end {
		b.WriteString(expanded[pos:end])
	}
	return b.String()
}
