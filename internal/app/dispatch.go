package app

import (
	"errors"
	"log/slog"

	"github.com/kk-code-lab/glimpse/internal/event"
	"github.com/kk-code-lab/glimpse/internal/pane"
	"github.com/kk-code-lab/glimpse/internal/search"
)

func (a *App) dispatch(cmd event.Command) (quit bool, err error) {
	if a.follow {
		return a.dispatchFollow(cmd)
	}
	return a.dispatchNormal(cmd)
}

func (a *App) dispatchNormal(cmd event.Command) (bool, error) {
	switch c := cmd.(type) {
	case event.MoveDown:
		_, err := a.pane.ScrollDown(pane.Char(c.N))
		return false, err
	case event.MoveUp:
		_, err := a.pane.ScrollUp(pane.Char(c.N))
		return false, err
	case event.MoveLeft:
		_, err := a.pane.ScrollLeft(pane.Char(c.N))
		return false, err
	case event.MoveRight:
		_, err := a.pane.ScrollRight(pane.Char(c.N))
		return false, err
	case event.MoveDownHalfPages:
		_, err := a.pane.ScrollDown(pane.HalfPage(c.N))
		return false, err
	case event.MoveUpHalfPages:
		_, err := a.pane.ScrollUp(pane.HalfPage(c.N))
		return false, err
	case event.MoveLeftHalfPages:
		_, err := a.pane.ScrollLeft(pane.HalfPage(c.N))
		return false, err
	case event.MoveRightHalfPages:
		_, err := a.pane.ScrollRight(pane.HalfPage(c.N))
		return false, err
	case event.MoveDownPages:
		_, err := a.pane.ScrollDown(pane.Page(c.N))
		return false, err
	case event.MoveUpPages:
		_, err := a.pane.ScrollUp(pane.Page(c.N))
		return false, err
	case event.MoveToHeadOfLine:
		a.pane.GotoHeadOfLine()
	case event.MoveToEndOfLine:
		return false, a.pane.GotoTailOfLine()
	case event.MoveToTopOfLines:
		a.pane.GotoTopOfLines()
	case event.MoveToBottomOfLines:
		return false, a.pane.GotoBottomOfLines()
	case event.MoveToLineNumber:
		a.pane.GotoAbsoluteLine(c.N)

	case event.ToggleLineNumberPrinting:
		a.showNumbers = !a.showNumbers
		a.pane.ShowLineNumber(a.showNumbers)
	case event.ToggleLineWraps:
		a.wrap = !a.wrap
		a.pane.SetWrap(a.wrap)
	case event.IncrementLines:
		_, err := a.pane.IncrementHeight(c.N)
		return false, err
	case event.DecrementLines:
		_, err := a.pane.DecrementHeight(c.N)
		return false, err
	case event.SetNumOfLines:
		_, err := a.pane.SetHeight(c.N)
		return false, err

	case event.SearchIncremental:
		a.applyPattern(c.Pattern)
		if c.Pattern != "" {
			_, y := a.pane.Position()
			if hit, ok := a.searchForward(y); ok {
				a.pane.GotoAbsoluteLine(hit)
			}
		}
	case event.SearchTrigger:
		a.pane.SetMessage("")
	case event.SearchNext:
		_, y := a.pane.Position()
		if hit, ok := a.searchForward(y + 1); ok {
			a.pane.GotoAbsoluteLine(hit)
		}
	case event.SearchPrev:
		_, y := a.pane.Position()
		if hit, ok := a.searchBackward(y - 1); ok {
			a.pane.GotoAbsoluteLine(hit)
		}

	case event.Message:
		a.pane.SetMessage(c.Text)
	case event.Cancel:
		a.clearSearch()
	case event.FollowMode:
		a.enterFollow()
	case event.FileUpdated:
		a.reload()
	case event.Interrupt:
		// Nothing pending to interrupt; ring the bell once through the
		// pane writer and clear it so the next redraw stays silent.
		a.pane.SetMessage("\a")
		if err := a.pane.Refresh(); err != nil {
			return false, err
		}
		a.pane.SetMessage("")
	case event.Resize:
		// Re-clamp against the new terminal geometry; the redraw after
		// dispatch picks up the new width on its own.
		_, err := a.pane.SetHeight(a.pane.Height())
		return false, err
	case event.Quit:
		return true, a.pane.Quit()
	case event.QuitWithClear:
		return true, a.pane.Erase()
	}
	return false, nil
}

// dispatchFollow handles the reduced command set of follow mode. The
// viewport is pinned to the newest data, so repositioning commands are
// dropped; searching only updates the highlight.
func (a *App) dispatchFollow(cmd event.Command) (bool, error) {
	switch c := cmd.(type) {
	case event.IncrementLines:
		if _, err := a.pane.IncrementHeight(c.N); err != nil {
			return false, err
		}
		return false, a.pane.GotoBottomOfLines()
	case event.DecrementLines:
		if _, err := a.pane.DecrementHeight(c.N); err != nil {
			return false, err
		}
		return false, a.pane.GotoBottomOfLines()
	case event.SetNumOfLines:
		if _, err := a.pane.SetHeight(c.N); err != nil {
			return false, err
		}
		return false, a.pane.GotoBottomOfLines()
	case event.ToggleLineNumberPrinting:
		a.showNumbers = !a.showNumbers
		a.pane.ShowLineNumber(a.showNumbers)
	case event.ToggleLineWraps:
		a.wrap = !a.wrap
		a.pane.SetWrap(a.wrap)
		return false, a.pane.GotoBottomOfLines()
	case event.SearchIncremental:
		a.applyPattern(c.Pattern)
	case event.SearchTrigger:
		a.pane.SetMessage(followBanner)
	case event.Cancel:
		a.clearSearch()
		a.pane.SetMessage(followBanner)
	case event.FollowMode, event.Interrupt:
		a.leaveFollow()
	case event.FileUpdated:
		a.reload()
		return false, a.pane.GotoBottomOfLines()
	case event.Resize:
		if _, err := a.pane.SetHeight(a.pane.Height()); err != nil {
			return false, err
		}
		return false, a.pane.GotoBottomOfLines()
	case event.Quit:
		return true, a.pane.Quit()
	case event.QuitWithClear:
		return true, a.pane.Erase()
	}
	return false, nil
}

// applyPattern updates the live pattern and the message bar. A malformed
// pattern is rejected on the bar and leaves the previous match state
// untouched.
func (a *App) applyPattern(pattern string) {
	a.pane.SetMessage("/" + pattern)
	if err := a.matcher.SetPattern(pattern); err != nil {
		if errors.Is(err, search.ErrInvalidPattern) {
			a.pane.SetMessage("/" + pattern + "  (invalid pattern)")
			return
		}
		slog.Warn("set pattern failed", "error", err)
	}
}

func (a *App) clearSearch() {
	if err := a.matcher.SetPattern(""); err != nil {
		slog.Warn("clear pattern failed", "error", err)
	}
	a.pane.SetMessage("")
}

// searchForward finds the first line at or after from that matches the
// active pattern. There is no wraparound; past the end means no match.
func (a *App) searchForward(from int) (int, bool) {
	if a.matcher.String() == "" {
		return 0, false
	}
	if from < 0 {
		from = 0
	}
	for i := from; i < a.buf.Len(); i++ {
		if _, ok := a.matcher.FindFirst(a.buf.Line(i)); ok {
			return i, true
		}
	}
	return 0, false
}

func (a *App) searchBackward(from int) (int, bool) {
	if a.matcher.String() == "" {
		return 0, false
	}
	if from >= a.buf.Len() {
		from = a.buf.Len() - 1
	}
	for i := from; i >= 0; i-- {
		if _, ok := a.matcher.FindFirst(a.buf.Line(i)); ok {
			return i, true
		}
	}
	return 0, false
}

// reload pulls any appended data into the buffer. Failures degrade to a
// no-op so a transient read error does not end the session.
func (a *App) reload() {
	n, err := a.reader.ReadInto(a.buf, 0)
	if err != nil {
		slog.Warn("reload failed", "source", a.sourceName(), "error", err)
		return
	}
	if n > 0 {
		slog.Debug("reloaded", "source", a.sourceName(), "lines", n)
	}
}

func (a *App) enterFollow() {
	a.follow = true
	a.reload()
	if err := a.pane.GotoBottomOfLines(); err != nil {
		slog.Warn("follow reposition failed", "error", err)
	}
	a.pane.SetMessage(followBanner)
}

func (a *App) leaveFollow() {
	a.follow = false
	a.pane.SetMessage("")
}
