package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/glimpse/internal/buffer"
	"github.com/kk-code-lab/glimpse/internal/event"
	"github.com/kk-code-lab/glimpse/internal/pane"
	"github.com/kk-code-lab/glimpse/internal/search"
)

func testApp(t *testing.T, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reader, err := buffer.NewFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { reader.Close() })

	var out bytes.Buffer
	a := &App{
		cfg:     Config{Path: path},
		buf:     buffer.New(),
		reader:  reader,
		matcher: search.NewPlain(),
		pane: pane.New(&out, func() (int, int, error) {
			return 80, 24, nil
		}),
	}
	if _, err := a.reader.ReadInto(a.buf, 0); err != nil {
		t.Fatal(err)
	}
	a.pane.Load(a.buf)
	a.pane.SetMatcher(a.matcher)
	if _, err := a.pane.SetHeight(5); err != nil {
		t.Fatal(err)
	}
	return a, &out
}

func repeatLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return lines
}

func mustDispatch(t *testing.T, a *App, cmd event.Command) bool {
	t.Helper()
	quit, err := a.dispatch(cmd)
	if err != nil {
		t.Fatalf("dispatch(%v): %v", event.String(cmd), err)
	}
	return quit
}

func TestMoveCommandsAdjustPosition(t *testing.T) {
	a, _ := testApp(t, repeatLines(30)...)

	mustDispatch(t, a, event.MoveDown{N: 3})
	if _, y := a.pane.Position(); y != 3 {
		t.Fatalf("y = %d, want 3", y)
	}
	mustDispatch(t, a, event.MoveUp{N: 1})
	if _, y := a.pane.Position(); y != 2 {
		t.Fatalf("y = %d, want 2", y)
	}
	mustDispatch(t, a, event.MoveDownPages{N: 1})
	if _, y := a.pane.Position(); y != 7 {
		t.Fatalf("y = %d after page, want 7", y)
	}
	mustDispatch(t, a, event.MoveToBottomOfLines{})
	if _, y := a.pane.Position(); y != 25 {
		t.Fatalf("y = %d at bottom, want 25", y)
	}
	mustDispatch(t, a, event.MoveToLineNumber{N: 4})
	if _, y := a.pane.Position(); y != 4 {
		t.Fatalf("y = %d, want 4", y)
	}
}

func TestIncrementalSearchJumpsForward(t *testing.T) {
	a, _ := testApp(t, "apple", "banana", "cherry", "banana split")

	mustDispatch(t, a, event.SearchIncremental{Pattern: "ban"})
	if _, y := a.pane.Position(); y != 1 {
		t.Fatalf("y = %d, want first match at 1", y)
	}

	// The next match is searched from one line past the current one.
	mustDispatch(t, a, event.SearchNext{})
	if _, y := a.pane.Position(); y != 3 {
		t.Fatalf("y = %d, want next match at 3", y)
	}
}

func TestSearchNextDoesNotWrap(t *testing.T) {
	a, _ := testApp(t, "match", "plain", "plain")
	mustDispatch(t, a, event.SearchIncremental{Pattern: "match"})
	mustDispatch(t, a, event.SearchNext{})
	if _, y := a.pane.Position(); y != 0 {
		t.Fatalf("y = %d, want unchanged 0 without wraparound", y)
	}
}

func TestSearchPrevStopsAtTop(t *testing.T) {
	a, _ := testApp(t, "hit", "miss", "hit", "miss")
	mustDispatch(t, a, event.SearchIncremental{Pattern: "hit"})
	mustDispatch(t, a, event.MoveToLineNumber{N: 3})
	mustDispatch(t, a, event.SearchPrev{})
	if _, y := a.pane.Position(); y != 2 {
		t.Fatalf("y = %d, want 2", y)
	}
	mustDispatch(t, a, event.SearchPrev{})
	if _, y := a.pane.Position(); y != 0 {
		t.Fatalf("y = %d, want 0", y)
	}
	mustDispatch(t, a, event.SearchPrev{})
	if _, y := a.pane.Position(); y != 0 {
		t.Fatalf("y = %d, want to stay at 0", y)
	}
}

func TestInvalidRegexPatternIsRejectedOnMessageBar(t *testing.T) {
	a, out := testApp(t, "some text")
	a.matcher = search.NewRegex()
	a.pane.SetMatcher(a.matcher)

	mustDispatch(t, a, event.SearchIncremental{Pattern: "(["})
	if err := a.pane.Refresh(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "invalid pattern") {
		t.Fatalf("message bar missing rejection: %q", out.String())
	}
	// The session keeps going; position is untouched.
	if _, y := a.pane.Position(); y != 0 {
		t.Fatalf("y = %d, want 0", y)
	}
}

func TestCancelClearsSearchState(t *testing.T) {
	a, _ := testApp(t, "findme")
	mustDispatch(t, a, event.SearchIncremental{Pattern: "findme"})
	mustDispatch(t, a, event.Cancel{})
	if a.matcher.String() != "" {
		t.Fatalf("pattern = %q after cancel, want empty", a.matcher.String())
	}
}

func TestFollowModePinsToBottom(t *testing.T) {
	a, _ := testApp(t, repeatLines(40)...)

	mustDispatch(t, a, event.FollowMode{})
	if !a.follow {
		t.Fatal("not in follow mode")
	}
	if _, y := a.pane.Position(); y != 35 {
		t.Fatalf("y = %d, want bottom 35", y)
	}

	// Repositioning commands are dropped while following.
	mustDispatch(t, a, event.MoveUp{N: 10})
	if _, y := a.pane.Position(); y != 35 {
		t.Fatalf("y = %d, follow mode must ignore motions", y)
	}
}

func TestFollowModeReloadsOnUpdate(t *testing.T) {
	a, _ := testApp(t, repeatLines(10)...)
	mustDispatch(t, a, event.FollowMode{})

	f, err := os.OpenFile(a.cfg.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("appended\nappended\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	mustDispatch(t, a, event.FileUpdated{})
	if a.buf.Len() != 12 {
		t.Fatalf("buffer has %d lines, want 12", a.buf.Len())
	}
	if _, y := a.pane.Position(); y != 7 {
		t.Fatalf("y = %d, want new bottom 7", y)
	}
}

func TestInterruptLeavesFollowMode(t *testing.T) {
	a, _ := testApp(t, repeatLines(10)...)
	mustDispatch(t, a, event.FollowMode{})
	mustDispatch(t, a, event.Interrupt{})
	if a.follow {
		t.Fatal("still in follow mode after interrupt")
	}
}

func TestFollowSearchHighlightsWithoutReposition(t *testing.T) {
	a, _ := testApp(t, append(repeatLines(20), "needle")...)
	mustDispatch(t, a, event.FollowMode{})
	_, before := a.pane.Position()

	mustDispatch(t, a, event.SearchIncremental{Pattern: "line"})
	if _, y := a.pane.Position(); y != before {
		t.Fatalf("y = %d, follow search must not reposition (was %d)", y, before)
	}
	if a.matcher.String() != "line" {
		t.Fatalf("pattern = %q, want %q", a.matcher.String(), "line")
	}
}

func TestNormalUpdateReloadsWithoutReposition(t *testing.T) {
	a, _ := testApp(t, repeatLines(5)...)
	mustDispatch(t, a, event.MoveDown{N: 2})

	f, err := os.OpenFile(a.cfg.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("tail\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	mustDispatch(t, a, event.FileUpdated{})
	if a.buf.Len() != 6 {
		t.Fatalf("buffer has %d lines, want 6", a.buf.Len())
	}
	if _, y := a.pane.Position(); y != 2 {
		t.Fatalf("y = %d, normal mode reload must keep position", y)
	}
}

func TestQuitVariants(t *testing.T) {
	a, out := testApp(t, "content")
	if err := a.pane.Refresh(); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if quit := mustDispatch(t, a, event.Quit{}); !quit {
		t.Fatal("Quit did not end the session")
	}
	if strings.Count(out.String(), "\x1b[2K") != 1 {
		t.Fatalf("Quit output = %q, want a single line clear", out.String())
	}

	b, bout := testApp(t, "content")
	if err := b.pane.Refresh(); err != nil {
		t.Fatal(err)
	}
	bout.Reset()
	if quit := mustDispatch(t, b, event.QuitWithClear{}); !quit {
		t.Fatal("QuitWithClear did not end the session")
	}
	if strings.Count(bout.String(), "\x1b[2K") < 2 {
		t.Fatalf("QuitWithClear output = %q, want full erase", bout.String())
	}
}

func TestToggleCommands(t *testing.T) {
	a, _ := testApp(t, "a line that is quite long indeed")
	mustDispatch(t, a, event.ToggleLineNumberPrinting{})
	if !a.showNumbers {
		t.Fatal("line numbers not toggled on")
	}
	mustDispatch(t, a, event.ToggleLineWraps{})
	if !a.wrap {
		t.Fatal("wrap not toggled on")
	}
	mustDispatch(t, a, event.ToggleLineWraps{})
	if a.wrap {
		t.Fatal("wrap not toggled off")
	}
}

func TestHeightCommands(t *testing.T) {
	a, _ := testApp(t, repeatLines(30)...)
	mustDispatch(t, a, event.SetNumOfLines{N: 10})
	if h := a.pane.Height(); h != 10 {
		t.Fatalf("height = %d, want 10", h)
	}
	mustDispatch(t, a, event.IncrementLines{N: 2})
	if h := a.pane.Height(); h != 12 {
		t.Fatalf("height = %d, want 12", h)
	}
	mustDispatch(t, a, event.DecrementLines{N: 20})
	if h := a.pane.Height(); h != 1 {
		t.Fatalf("height = %d, want floor of 1", h)
	}
}

func TestInterruptRingsBellThroughPane(t *testing.T) {
	a, out := testApp(t, repeatLines(10)...)
	mustDispatch(t, a, event.Interrupt{})
	if !strings.Contains(out.String(), "\a") {
		t.Fatalf("bell not written through the pane: %q", out.String())
	}
	out.Reset()
	if err := a.pane.Refresh(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "\a") {
		t.Fatalf("bell persisted into the next redraw: %q", out.String())
	}
}
