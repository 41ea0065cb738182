// Package event defines the commands exchanged between the key decoder,
// the watcher, and the main loop. Every input source reduces to a Command
// sent over one channel, so the consumer never needs to know where an
// order came from.
package event

import "fmt"

// Command is a single instruction for the main loop. Implementations are
// small value types; the isCommand marker keeps the set closed.
type Command interface {
	isCommand()
}

// Movement commands. N is a repeat count, already resolved by the key
// decoder (a bare motion arrives with N == 1).
type (
	MoveDown  struct{ N int }
	MoveUp    struct{ N int }
	MoveLeft  struct{ N int }
	MoveRight struct{ N int }

	MoveDownHalfPages  struct{ N int }
	MoveUpHalfPages    struct{ N int }
	MoveLeftHalfPages  struct{ N int }
	MoveRightHalfPages struct{ N int }

	MoveDownPages struct{ N int }
	MoveUpPages   struct{ N int }

	MoveToHeadOfLine    struct{}
	MoveToEndOfLine     struct{}
	MoveToTopOfLines    struct{}
	MoveToBottomOfLines struct{}
	// MoveToLineNumber targets a zero-based line index.
	MoveToLineNumber struct{ N int }
)

// Display toggles and height adjustment.
type (
	ToggleLineNumberPrinting struct{}
	ToggleLineWraps          struct{}

	IncrementLines struct{ N int }
	DecrementLines struct{ N int }
	SetNumOfLines  struct{ N int }
)

// Search commands. SearchIncremental carries the pattern typed so far and
// fires on every keystroke; SearchTrigger commits it.
type (
	SearchIncremental struct{ Pattern string }
	SearchTrigger     struct{}
	SearchNext        struct{}
	SearchPrev        struct{}
)

// Control commands.
type (
	// Message replaces the message bar text. An empty Text clears it.
	Message struct{ Text string }
	// Cancel aborts the pending operation and clears search state.
	Cancel struct{}
	// Quit leaves the pager with the pane content intact on screen.
	Quit struct{}
	// QuitWithClear leaves the pager and erases the pane first.
	QuitWithClear struct{}
	// FollowMode toggles tail-following of the source.
	FollowMode struct{}
	// FileUpdated reports that the watcher saw new data.
	FileUpdated struct{}
	// Interrupt reports a SIGINT from the terminal.
	Interrupt struct{}
	// Resize reports that the terminal geometry changed.
	Resize struct{}
)

func (MoveDown) isCommand() {}
func (MoveUp) isCommand() {}
func (MoveLeft) isCommand() {}
func (MoveRight) isCommand() {}
func (MoveDownHalfPages) isCommand() {}
func (MoveUpHalfPages) isCommand() {}
func (MoveLeftHalfPages) isCommand() {}
func (MoveRightHalfPages) isCommand() {}
func (MoveDownPages) isCommand() {}
func (MoveUpPages) isCommand() {}
func (MoveToHeadOfLine) isCommand() {}
func (MoveToEndOfLine) isCommand() {}
func (MoveToTopOfLines) isCommand() {}
func (MoveToBottomOfLines) isCommand() {}
func (MoveToLineNumber) isCommand() {}

func (ToggleLineNumberPrinting) isCommand() {}
func (ToggleLineWraps) isCommand() {}
func (IncrementLines) isCommand() {}
func (DecrementLines) isCommand() {}
func (SetNumOfLines) isCommand() {}

func (SearchIncremental) isCommand() {}
func (SearchTrigger) isCommand() {}
func (SearchNext) isCommand() {}
func (SearchPrev) isCommand() {}

func (Message) isCommand() {}
func (Cancel) isCommand() {}
func (Quit) isCommand() {}
func (QuitWithClear) isCommand() {}
func (FollowMode) isCommand() {}
func (FileUpdated) isCommand() {}
func (Interrupt) isCommand() {}
func (Resize) isCommand() {}

// String renders a command for logs.
func String(c Command) string {
	return fmt.Sprintf("%T%+v", c, c)
}
