package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kk-code-lab/glimpse/internal/app"
	"github.com/kk-code-lab/glimpse/internal/textutil"
)

const usage = `glimpse - inline terminal pager

USAGE:
    glimpse [OPTIONS] [FILE]
    command | glimpse [OPTIONS]

A FILE of "-" reads from standard input.

OPTIONS:
    -n LINES    Initial pane height (default 5)
    -N          Show line numbers
    -w          Wrap long lines
    -t WIDTH    Tab stop width (default 4)
    -f          Start in follow mode (like tail -f)
    -p          Search with literal substrings instead of regular expressions
    -v          Show nonprinting characters in caret notation
    -h          Show this help and exit

KEYS:
    j/k/h/l  move    d/u  half page    f/b/space  page
    0/$      line head/tail    g/G  buffer top/bottom
    /        incremental search    n/N  next/previous match
    #        toggle line numbers   !    toggle wrapping
    -/+/=    shrink/grow/set pane height
    F        follow mode           q/Q  quit / quit and clear
`

func main() {
	fs := flag.NewFlagSet("glimpse", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	height := fs.Int("n", 5, "initial pane height")
	numbers := fs.Bool("N", false, "show line numbers")
	wrap := fs.Bool("w", false, "wrap long lines")
	tabWidth := fs.Int("t", textutil.DefaultTabWidth, "tab stop width")
	follow := fs.Bool("f", false, "start in follow mode")
	plain := fs.Bool("p", false, "search with literal substrings")
	caret := fs.Bool("v", false, "show nonprinting characters")
	fs.Parse(os.Args[1:])

	setupLogging()

	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "glimpse: too many arguments")
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)
	if path == "-" {
		path = ""
	}
	if *height < 1 {
		fmt.Fprintf(os.Stderr, "glimpse: invalid pane height %d\n", *height)
		os.Exit(1)
	}
	if *tabWidth < 0 {
		fmt.Fprintf(os.Stderr, "glimpse: invalid tab width %d\n", *tabWidth)
		os.Exit(1)
	}

	cfg := app.Config{
		Path:            path,
		Height:          *height,
		ShowLineNumbers: *numbers,
		Wrap:            *wrap,
		TabWidth:        *tabWidth,
		Follow:          *follow,
		PlainSearch:     *plain,
		ShowNonprinting: *caret,
	}
	if err := app.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "glimpse: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends debug logs to the file named by GLIMPSE_LOG. The
// terminal is busy being a pager, so by default logs are discarded.
func setupLogging() {
	target := os.Getenv("GLIMPSE_LOG")
	if target == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glimpse: cannot open log file: %v\n", err)
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
