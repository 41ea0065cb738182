// Package pane renders a window of buffered lines at the bottom of the
// terminal. The renderer is inline: it draws over its own previous output
// with relative cursor motion and leaves the scrollback above it alone.
// One row below the content area is reserved for the status message.
package pane

import (
	"bufio"
	"io"
	"math"

	"github.com/kk-code-lab/glimpse/internal/buffer"
	"github.com/kk-code-lab/glimpse/internal/search"
	"github.com/kk-code-lab/glimpse/internal/textutil"
)

// marginRight keeps a few columns of slack visible past the longest line
// when scrolling horizontally.
const marginRight = 4

const defaultHeight = 5

// SizeFunc reports the terminal dimensions in cells. It is injected so
// tests can render against a fixed geometry.
type SizeFunc func() (width, height int, err error)

type stepKind int

const (
	stepChar stepKind = iota
	stepHalfPage
	stepPage
)

// ScrollStep is a motion request relative to the current viewport extent.
// It resolves to a character count only when applied, because the pane
// geometry can change between commands.
type ScrollStep struct {
	kind stepKind
	n    int
}

func Char(n int) ScrollStep { return ScrollStep{kind: stepChar, n: n} }
func HalfPage(n int) ScrollStep { return ScrollStep{kind: stepHalfPage, n: n} }
func Page(n int) ScrollStep { return ScrollStep{kind: stepPage, n: n} }

func (s ScrollStep) amount(extent int) int {
	switch s.kind {
	case stepChar:
		return s.n
	case stepHalfPage:
		return s.n * extent / 2
	default:
		return s.n * extent
	}
}

// Pane owns the scroll position, display options, and redraw bookkeeping.
type Pane struct {
	out  *bufio.Writer
	size SizeFunc

	buf     *buffer.Buffer
	matcher search.Matcher

	x, y   int
	height int

	showNumbers bool
	highlight   bool
	wrap        bool
	tabWidth    int
	message     string

	// flushed is the number of physical rows written by the previous
	// Refresh; the next one climbs back up by this much before redrawing.
	flushed int
}

// New returns a pane writing to w with geometry probed through size.
func New(w io.Writer, size SizeFunc) *Pane {
	return &Pane{
		out:       bufio.NewWriter(w),
		size:      size,
		buf:       buffer.New(),
		height:    defaultHeight,
		highlight: true,
		tabWidth:  textutil.DefaultTabWidth,
	}
}

// Load replaces the buffer and resets the scroll position to the origin.
func (p *Pane) Load(buf *buffer.Buffer) {
	p.buf = buf
	p.x, p.y = 0, 0
}

// SetMatcher installs the pattern matcher used for highlight overlay.
func (p *Pane) SetMatcher(m search.Matcher) { p.matcher = m }

// Position returns the current scroll position.
func (p *Pane) Position() (x, y int) { return p.x, p.y }

// Height returns the content height in rows.
func (p *Pane) Height() int { return p.height }

// PaneSize returns the terminal width and the content height.
func (p *Pane) PaneSize() (width, height int, err error) {
	w, _, err := p.size()
	if err != nil {
		return 0, 0, err
	}
	return w, p.height, nil
}

// SetHeight clamps n to [1, terminal rows - 1] and applies it. Callers
// must use the returned value; the request may have been clamped.
func (p *Pane) SetHeight(n int) (int, error) {
	_, rows, err := p.size()
	if err != nil {
		return 0, err
	}
	limit := rows - 1
	if limit < 1 {
		limit = 1
	}
	if n < 1 {
		n = 1
	}
	if n > limit {
		n = limit
	}
	p.height = n
	return n, nil
}

func (p *Pane) IncrementHeight(n int) (int, error) {
	return p.SetHeight(p.height + n)
}

func (p *Pane) DecrementHeight(n int) (int, error) {
	return p.SetHeight(p.height - n)
}

func (p *Pane) ShowLineNumber(on bool) { p.showNumbers = on }
func (p *Pane) ShowHighlight(on bool) { p.highlight = on }
func (p *Pane) SetTabWidth(n int) { p.tabWidth = n }

// SetMessage replaces the status line text. Empty clears it.
func (p *Pane) SetMessage(text string) { p.message = text }

// SetWrap switches wrap mode. Wrapped display has no horizontal scroll,
// so turning it on pins x to 0.
func (p *Pane) SetWrap(on bool) {
	p.wrap = on
	if on {
		p.x = 0
	}
}

func (p *Pane) Wrap() bool { return p.wrap }

// ScrollUp moves toward the start of the buffer and returns the distance
// actually travelled.
func (p *Pane) ScrollUp(s ScrollStep) (int, error) {
	dy := s.amount(p.height)
	ny := p.y - dy
	if ny < 0 {
		ny = 0
	}
	moved := p.y - ny
	p.y = ny
	return moved, nil
}

// ScrollDown moves toward the end, clamped so the final window still
// fills the pane. The returned distance may be short of the request.
func (p *Pane) ScrollDown(s ScrollStep) (int, error) {
	width, _, err := p.size()
	if err != nil {
		return 0, err
	}
	dy := s.amount(p.height)
	limit := p.limitBottomY(width)
	ny := p.y + dy
	if ny > limit {
		ny = limit
	}
	if ny < p.y {
		ny = p.y
	}
	moved := ny - p.y
	p.y = ny
	return moved, nil
}

// ScrollLeft moves the horizontal offset toward column zero.
func (p *Pane) ScrollLeft(s ScrollStep) (int, error) {
	width, _, err := p.size()
	if err != nil {
		return 0, err
	}
	dx := s.amount(p.printableWidth(width))
	nx := p.x - dx
	if nx < 0 {
		nx = 0
	}
	moved := p.x - nx
	p.x = nx
	return moved, nil
}

// ScrollRight moves the horizontal offset toward the line tails, clamped
// by the longest visible line plus the right margin. A no-op in wrap mode.
func (p *Pane) ScrollRight(s ScrollStep) (int, error) {
	if p.wrap {
		return 0, nil
	}
	width, _, err := p.size()
	if err != nil {
		return 0, err
	}
	dx := s.amount(p.printableWidth(width))
	nx := p.limitRightX(p.x+dx, width)
	if nx < p.x {
		nx = p.x
	}
	moved := nx - p.x
	p.x = nx
	return moved, nil
}

// GotoTopOfLines jumps to the first line and snaps back to column zero.
func (p *Pane) GotoTopOfLines() {
	p.x, p.y = 0, 0
}

// GotoBottomOfLines jumps to the last window and snaps back to column
// zero.
func (p *Pane) GotoBottomOfLines() error {
	width, _, err := p.size()
	if err != nil {
		return err
	}
	p.x, p.y = 0, p.limitBottomY(width)
	return nil
}

func (p *Pane) GotoHeadOfLine() {
	p.x = 0
}

func (p *Pane) GotoTailOfLine() error {
	if p.wrap {
		return nil
	}
	width, _, err := p.size()
	if err != nil {
		return err
	}
	p.x = p.limitRightX(math.MaxInt32, width)
	return nil
}

// GotoAbsoluteHorizontalOffset jumps to the horizontal offset n, clamped
// by the same rule as horizontal scrolling.
func (p *Pane) GotoAbsoluteHorizontalOffset(n int) error {
	if p.wrap {
		return nil
	}
	width, _, err := p.size()
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	p.x = p.limitRightX(n, width)
	return nil
}

// GotoAbsoluteLine jumps to the zero-based line n, clamped into the
// buffer.
func (p *Pane) GotoAbsoluteLine(n int) {
	if max := p.buf.Len() - 1; n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	p.y = n
}

// limitBottomY is the largest top-line index that still fills the pane.
// In wrap mode the answer depends on how many physical rows the tail
// lines occupy, so it walks backwards summing wrapped row counts.
func (p *Pane) limitBottomY(width int) int {
	n := p.buf.Len()
	if !p.wrap {
		if n > p.height {
			return n - p.height
		}
		return 0
	}
	textWidth := p.wrapTextWidth(width)
	acc := 0
	for i := n - 1; i >= 0; i-- {
		acc += p.wrappedRows(p.buf.Line(i), textWidth)
		if acc == p.height {
			return i
		}
		if acc > p.height {
			return i + 1
		}
	}
	return 0
}

// limitRightX clamps a requested horizontal offset. A pane wide enough
// for the longest visible line plus the margin snaps back to zero;
// otherwise the offset stops where the line tail meets the right edge.
// The clamp works on the printable width so the tail stays reachable
// when the line-number gutter eats into the pane.
func (p *Pane) limitRightX(next, width int) int {
	maxLen := p.maxVisibleWidth()
	printable := p.printableWidth(width)
	switch {
	case printable >= maxLen+marginRight:
		return 0
	case next+printable <= maxLen+marginRight:
		return next
	default:
		return maxLen + marginRight - printable
	}
}

// printableWidth is the column budget left for line text after the
// line-number gutter.
func (p *Pane) printableWidth(width int) int {
	w := width - p.gutterWidth(lineNumberWidth(p.buf.Len()))
	if w < 1 {
		w = 1
	}
	return w
}

func (p *Pane) maxVisibleWidth() int {
	end := p.y + p.height
	if n := p.buf.Len(); end > n {
		end = n
	}
	max := 0
	for i := p.y; i < end; i++ {
		w := textutil.DisplayWidth(textutil.ExpandTabs(p.buf.Line(i), p.tabWidth))
		if w > max {
			max = w
		}
	}
	return max
}

func (p *Pane) wrappedRows(line string, textWidth int) int {
	dw := textutil.DisplayWidth(textutil.ExpandTabs(line, p.tabWidth))
	if dw == 0 {
		return 1
	}
	return (dw-1)/textWidth + 1
}

func lineNumberWidth(bufLen int) int {
	digits := 1
	for bufLen >= 10 {
		bufLen /= 10
		digits++
	}
	if digits < 2 {
		digits = 2
	}
	return digits
}

func (p *Pane) gutterWidth(numWidth int) int {
	if !p.showNumbers {
		return 0
	}
	return numWidth + 1
}

// trimTextWidth is the column budget for the sliced text in trim mode:
// the pane minus the gutter and the two continuation-mark columns.
func (p *Pane) trimTextWidth(width, numWidth int) int {
	w := width - p.gutterWidth(numWidth) - 2
	if w < 1 {
		w = 1
	}
	return w
}

func (p *Pane) wrapTextWidth(width int) int {
	numWidth := lineNumberWidth(p.buf.Len())
	w := width - p.gutterWidth(numWidth) - 1
	if w < 1 {
		w = 1
	}
	return w
}

// Refresh redraws the pane in place: climb to the top of the previous
// frame, clear at least as many rows as either frame needs, write the new
// rows, then the status line.
func (p *Pane) Refresh() error {
	width, _, err := p.size()
	if err != nil {
		return err
	}
	rows := p.buildRows(width)

	if p.flushed > 0 {
		p.out.WriteString(cursorPrevLine(p.flushed))
	}
	sweep := p.flushed
	if p.height > sweep {
		sweep = p.height
	}
	p.sweep(sweep)

	for _, r := range rows {
		p.out.WriteString(r)
		p.out.WriteString("\n")
	}
	if pad := p.height - len(rows); pad > 0 {
		p.out.WriteString(cursorNextLine(pad))
	}
	p.writeStatus(width)
	p.flushed = p.height
	return p.out.Flush()
}

// sweep clears n content rows plus the status row and returns the cursor
// to the top. The newlines double as scroll requests when the pane is
// first drawn at the bottom of the screen.
func (p *Pane) sweep(n int) {
	p.out.WriteString(cursorHorizontalAbs(1))
	for i := 0; i < n; i++ {
		p.out.WriteString(clearLine)
		p.out.WriteString("\n")
	}
	p.out.WriteString(clearLine)
	p.out.WriteString(cursorPrevLine(n))
}

func (p *Pane) writeStatus(width int) {
	switch {
	case p.message != "":
		p.out.WriteString(p.message)
	case p.buf.Len() > 0 && p.y >= p.limitBottomY(width):
		p.out.WriteString(sgrInvert + "(END)" + sgrReset)
	}
}

func (p *Pane) buildRows(width int) []string {
	n := p.buf.Len()
	numWidth := lineNumberWidth(n)
	end := p.y + p.height
	if end > n {
		end = n
	}
	var rows []string
	for i := p.y; i < end && len(rows) < p.height; i++ {
		line := p.buf.Line(i)
		if p.wrap {
			budget := p.height - len(rows)
			rows = append(rows, p.decorateWrap(line, i, numWidth, p.wrapTextWidth(width), budget)...)
		} else {
			rows = append(rows, p.decorateTrim(line, i, numWidth, p.trimTextWidth(width, numWidth), width))
		}
	}
	return rows
}

// Quit clears the status row so the shell prompt comes back clean. The
// rendered content above it stays in the scrollback.
func (p *Pane) Quit() error {
	p.out.WriteString(cursorHorizontalAbs(1))
	p.out.WriteString(clearLine)
	return p.out.Flush()
}

// Erase removes the whole rendered pane, leaving the cursor where the
// pane's first row used to be.
func (p *Pane) Erase() error {
	if p.flushed > 0 {
		p.out.WriteString(cursorPrevLine(p.flushed))
	}
	p.out.WriteString(cursorHorizontalAbs(1))
	for i := 0; i < p.flushed; i++ {
		p.out.WriteString(clearLine)
		p.out.WriteString("\n")
	}
	p.out.WriteString(clearLine)
	if p.flushed > 0 {
		p.out.WriteString(cursorPrevLine(p.flushed))
	}
	p.flushed = 0
	return p.out.Flush()
}
