// Package app runs a pager session: it loads the source, owns the event
// loop, and dispatches commands from the key reader, the change watcher,
// and the interrupt handler. The three producers feed one channel; this
// loop is the only consumer and the only place state changes.
package app

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/kk-code-lab/glimpse/internal/buffer"
	"github.com/kk-code-lab/glimpse/internal/event"
	"github.com/kk-code-lab/glimpse/internal/keybind"
	"github.com/kk-code-lab/glimpse/internal/pane"
	"github.com/kk-code-lab/glimpse/internal/search"
	"github.com/kk-code-lab/glimpse/internal/term"
	"github.com/kk-code-lab/glimpse/internal/textutil"
	"github.com/kk-code-lab/glimpse/internal/watch"
)

const (
	watchTimeout    = 500 * time.Millisecond
	initialPipeWait = 200 * time.Millisecond

	followBanner = "Waiting for data... (interrupt to abort)"
)

// Config holds the resolved command-line options.
type Config struct {
	// Path of the file to page. Empty means read from stdin.
	Path string

	Height          int
	ShowLineNumbers bool
	Wrap            bool
	TabWidth        int
	Follow          bool
	// PlainSearch switches pattern matching from regular expressions to
	// literal substrings.
	PlainSearch     bool
	ShowNonprinting bool
}

// App is one pager session.
type App struct {
	cfg     Config
	pane    *pane.Pane
	buf     *buffer.Buffer
	reader  *buffer.Reader
	matcher search.Matcher

	follow      bool
	showNumbers bool
	wrap        bool
}

// Run executes a session to completion. The terminal is restored on every
// return path.
func Run(cfg Config) error {
	a := &App{
		cfg:         cfg,
		buf:         buffer.New(),
		showNumbers: cfg.ShowLineNumbers,
		wrap:        cfg.Wrap,
	}
	if cfg.PlainSearch {
		a.matcher = search.NewPlain()
	} else {
		a.matcher = search.NewRegex()
	}

	if err := a.openSource(); err != nil {
		return err
	}
	defer a.reader.Close()
	if _, err := a.reader.ReadInto(a.buf, initialPipeWait); err != nil {
		return fmt.Errorf("read %s: %w", a.sourceName(), err)
	}

	input, err := term.OpenInput()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if input != os.Stdin {
		defer input.Close()
	}

	a.pane = pane.New(os.Stdout, func() (int, int, error) {
		return term.Size(input)
	})
	a.pane.Load(a.buf)
	a.pane.SetMatcher(a.matcher)
	a.pane.ShowLineNumber(a.showNumbers)
	a.pane.SetWrap(a.wrap)
	a.pane.SetTabWidth(cfg.TabWidth)
	if _, err := a.pane.SetHeight(cfg.Height); err != nil {
		return fmt.Errorf("query terminal size: %w", err)
	}

	// Character-at-a-time input, echo off. ISIG stays enabled: Ctrl-C
	// must still arrive as a signal for the interrupt producer.
	restore, err := term.EnterNonCanonical(input)
	if err != nil {
		return fmt.Errorf("set terminal mode: %w", err)
	}
	defer func() {
		if rerr := restore(); rerr != nil {
			slog.Error("terminal restore failed", "error", rerr)
		}
	}()

	events := make(chan event.Command, 16)
	done := make(chan struct{})
	defer close(done)

	a.startKeyReader(input, events, done)
	a.startWatcher(events, done)
	a.startSignals(events, done)

	if cfg.Follow {
		a.enterFollow()
	}
	if err := a.pane.Refresh(); err != nil {
		return err
	}

	for cmd := range events {
		slog.Debug("dispatch", "command", event.String(cmd), "follow", a.follow)
		quit, err := a.dispatch(cmd)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		if err := a.pane.Refresh(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) sourceName() string {
	if a.cfg.Path == "" {
		return "stdin"
	}
	return a.cfg.Path
}

func (a *App) openSource() error {
	var err error
	if a.cfg.Path == "" {
		if term.IsTerminal(os.Stdin) {
			return errors.New("no file given and stdin is a terminal")
		}
		a.reader, err = buffer.NewPipeReader(os.Stdin)
	} else {
		a.reader, err = buffer.NewFileReader(a.cfg.Path)
	}
	if err != nil {
		return err
	}
	if a.cfg.ShowNonprinting {
		a.reader.Transform = func(s string) string {
			return textutil.ShowNonprinting(s)
		}
	}
	return nil
}

func (a *App) startKeyReader(input *os.File, events chan<- event.Command, done <-chan struct{}) {
	go func() {
		r := bufio.NewReader(input)
		kb := keybind.New()
		for {
			k, err := keybind.ReadKey(r)
			if err != nil {
				slog.Debug("key reader stopped", "error", err)
				return
			}
			cmd := kb.Dispatch(k)
			if cmd == nil {
				continue
			}
			select {
			case events <- cmd:
			case <-done:
				return
			}
		}
	}()
}

func (a *App) startWatcher(events chan<- event.Command, done <-chan struct{}) {
	var pipe *os.File
	if a.cfg.Path == "" {
		pipe = os.Stdin
	}
	w := watch.ForSource(a.cfg.Path, pipe)
	go func() {
		defer w.Close()
		for {
			res, err := w.Watch(watchTimeout)
			if err != nil {
				// Transient watch failures degrade to a timeout.
				slog.Warn("watch error", "error", err)
				res = watch.TimedOut
			}
			select {
			case <-done:
				return
			default:
			}
			switch res {
			case watch.TimedOut:
				continue
			case watch.Changed, watch.ChangedHUP:
				select {
				case events <- event.FileUpdated{}:
				case <-done:
					return
				}
				if res == watch.ChangedHUP {
					// The writer is gone; nothing more to watch.
					return
				}
			}
		}
	}()
}

func (a *App) startSignals(events chan<- event.Command, done <-chan struct{}) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, append(resizeSignals(), os.Interrupt)...)
	go func() {
		defer signal.Stop(sigc)
		for {
			select {
			case sig := <-sigc:
				var cmd event.Command = event.Interrupt{}
				if sig != os.Interrupt {
					cmd = event.Resize{}
				}
				select {
				case events <- cmd:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()
}
