// Package keybind turns decoded keystrokes into pager commands. It is a
// small state machine: a repeat count may precede a command key, and a '/'
// switches into incremental search entry until Enter or Esc ends it.
package keybind

import "github.com/kk-code-lab/glimpse/internal/event"

type state int

const (
	stateReady state = iota
	stateNumbering
	stateCommanding
	stateIncSearching
)

type binding struct {
	seq []Key
	cmd event.Command
}

// KeyBind maps keystroke sequences to commands. Multi-key sequences are
// supported; a partial match keeps the machine waiting for the rest.
type KeyBind struct {
	state    state
	number   int
	pattern  []rune
	pending  []Key
	bindings []binding
}

// New returns a KeyBind with the default table.
func New() *KeyBind {
	return &KeyBind{bindings: defaultBindings()}
}

func defaultBindings() []binding {
	one := func(k Key, c event.Command) binding {
		return binding{seq: []Key{k}, cmd: c}
	}
	return []binding{
		one(Rune('j'), event.MoveDown{}),
		one(Ctrl('j'), event.MoveDown{}),
		one(Ctrl('n'), event.MoveDown{}),
		one(Rune('k'), event.MoveUp{}),
		one(Ctrl('k'), event.MoveUp{}),
		one(Ctrl('p'), event.MoveUp{}),
		one(Rune('h'), event.MoveLeft{}),
		one(Rune('l'), event.MoveRight{}),
		one(Rune('d'), event.MoveDownHalfPages{}),
		one(Ctrl('d'), event.MoveDownHalfPages{}),
		one(Rune('u'), event.MoveUpHalfPages{}),
		one(Ctrl('u'), event.MoveUpHalfPages{}),
		one(Rune('H'), event.MoveLeftHalfPages{}),
		one(Rune('L'), event.MoveRightHalfPages{}),
		one(Rune('f'), event.MoveDownPages{}),
		one(Ctrl('f'), event.MoveDownPages{}),
		one(Rune(' '), event.MoveDownPages{}),
		one(Rune('b'), event.MoveUpPages{}),
		one(Ctrl('b'), event.MoveUpPages{}),
		one(Rune('0'), event.MoveToHeadOfLine{}),
		one(Ctrl('a'), event.MoveToHeadOfLine{}),
		one(Rune('$'), event.MoveToEndOfLine{}),
		one(Ctrl('e'), event.MoveToEndOfLine{}),
		one(Rune('g'), event.MoveToTopOfLines{}),
		one(Rune('G'), event.MoveToBottomOfLines{}),
		one(Rune('#'), event.ToggleLineNumberPrinting{}),
		one(Rune('!'), event.ToggleLineWraps{}),
		one(Rune('-'), event.DecrementLines{}),
		one(Rune('+'), event.IncrementLines{}),
		one(Rune('='), event.SetNumOfLines{}),
		one(Rune('n'), event.SearchNext{}),
		one(Rune('N'), event.SearchPrev{}),
		one(Rune('q'), event.Quit{}),
		one(Rune('Q'), event.QuitWithClear{}),
		one(Rune('F'), event.FollowMode{}),
	}
}

// Dispatch consumes one key and returns the command it completes, or nil
// when the machine is still collecting input.
func (kb *KeyBind) Dispatch(k Key) event.Command {
	switch kb.state {
	case stateReady:
		return kb.dispatchReady(k)
	case stateNumbering:
		return kb.dispatchNumbering(k)
	case stateCommanding:
		return kb.dispatchCommanding(k)
	case stateIncSearching:
		return kb.dispatchIncSearching(k)
	}
	return nil
}

func (kb *KeyBind) reset() {
	kb.state = stateReady
	kb.number = 0
	kb.pending = nil
}

func (kb *KeyBind) dispatchReady(k Key) event.Command {
	switch {
	case k == Rune('/'):
		kb.state = stateIncSearching
		kb.pattern = kb.pattern[:0]
		return event.SearchIncremental{Pattern: ""}
	case k.Kind == KindRune && k.Ch >= '1' && k.Ch <= '9':
		kb.state = stateNumbering
		kb.number = int(k.Ch - '0')
		return nil
	case k.Kind == KindEsc:
		return event.Cancel{}
	case k.Kind == KindRune || k.Kind == KindCtrl:
		kb.state = stateCommanding
		return kb.dispatchCommanding(k)
	default:
		return nil
	}
}

func (kb *KeyBind) dispatchNumbering(k Key) event.Command {
	switch {
	case k.Kind == KindRune && k.Ch >= '0' && k.Ch <= '9':
		kb.number = kb.number*10 + int(k.Ch-'0')
		return nil
	case k.Kind == KindEsc || k == Rune('\n'):
		// An abandoned count disappears without a trace.
		kb.reset()
		return nil
	case k.Kind == KindRune || k.Kind == KindCtrl:
		kb.state = stateCommanding
		return kb.dispatchCommanding(k)
	default:
		return nil
	}
}

func (kb *KeyBind) dispatchCommanding(k Key) event.Command {
	kb.pending = append(kb.pending, k)
	cmd, prefix := kb.lookup(kb.pending)
	if prefix {
		return nil
	}
	number := kb.number
	kb.reset()
	if cmd == nil {
		// Unbound sequence. Clear the message bar rather than leaving a
		// stale status behind.
		return event.Message{}
	}
	return combine(cmd, number)
}

func (kb *KeyBind) dispatchIncSearching(k Key) event.Command {
	switch {
	case k == Rune('\n'):
		kb.state = stateReady
		return event.SearchTrigger{}
	case k.Kind == KindEsc:
		kb.state = stateReady
		return event.Cancel{}
	case k.Kind == KindBackspace || k.Kind == KindDelete:
		if len(kb.pattern) == 0 {
			kb.state = stateReady
			return event.Cancel{}
		}
		kb.pattern = kb.pattern[:len(kb.pattern)-1]
		return event.SearchIncremental{Pattern: string(kb.pattern)}
	case k.Kind == KindRune:
		kb.pattern = append(kb.pattern, k.Ch)
		return event.SearchIncremental{Pattern: string(kb.pattern)}
	default:
		return nil
	}
}

// lookup matches seq against the table. It reports the exact match if any,
// and whether seq is a proper prefix of a longer binding.
func (kb *KeyBind) lookup(seq []Key) (event.Command, bool) {
	var exact event.Command
	prefix := false
	for _, b := range kb.bindings {
		if len(b.seq) < len(seq) {
			continue
		}
		match := true
		for i := range seq {
			if b.seq[i] != seq[i] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if len(b.seq) == len(seq) {
			exact = b.cmd
		} else {
			prefix = true
		}
	}
	return exact, prefix
}

// combine folds a pending repeat count into the matched command. Motions
// treat a missing count as one. A count before g or G turns the jump into
// an absolute line target.
func combine(cmd event.Command, n int) event.Command {
	count := n
	if count == 0 {
		count = 1
	}
	switch cmd.(type) {
	case event.MoveDown:
		return event.MoveDown{N: count}
	case event.MoveUp:
		return event.MoveUp{N: count}
	case event.MoveLeft:
		return event.MoveLeft{N: count}
	case event.MoveRight:
		return event.MoveRight{N: count}
	case event.MoveDownHalfPages:
		return event.MoveDownHalfPages{N: count}
	case event.MoveUpHalfPages:
		return event.MoveUpHalfPages{N: count}
	case event.MoveLeftHalfPages:
		return event.MoveLeftHalfPages{N: count}
	case event.MoveRightHalfPages:
		return event.MoveRightHalfPages{N: count}
	case event.MoveDownPages:
		return event.MoveDownPages{N: count}
	case event.MoveUpPages:
		return event.MoveUpPages{N: count}
	case event.IncrementLines:
		return event.IncrementLines{N: count}
	case event.DecrementLines:
		return event.DecrementLines{N: count}
	case event.MoveToTopOfLines:
		if n > 0 {
			return event.MoveToLineNumber{N: n - 1}
		}
		return cmd
	case event.MoveToBottomOfLines:
		if n > 0 {
			return event.MoveToLineNumber{N: n - 1}
		}
		return cmd
	case event.SetNumOfLines:
		if n == 0 {
			return nil
		}
		return event.SetNumOfLines{N: n}
	default:
		return cmd
	}
}
