// Package search finds pattern occurrences in buffered lines. Two matchers
// share one interface: a literal substring search and a regular expression
// search. Both report byte ranges so the renderer can highlight hits.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern wraps pattern compilation failures so callers can show
// them on the message bar instead of aborting.
var ErrInvalidPattern = errors.New("invalid pattern")

// Span is a half-open byte range [Start, End) within a line.
type Span struct {
	Start int
	End   int
}

// Matcher locates occurrences of a pattern within single lines.
type Matcher interface {
	// String returns the current pattern text.
	String() string
	// SetPattern replaces the pattern. Regex matchers may reject it.
	SetPattern(pat string) error
	// FindFirst returns the first occurrence in line, or false.
	FindFirst(line string) (Span, bool)
	// FindAll returns every non-overlapping occurrence in line.
	FindAll(line string) []Span
}

// Null never matches. It stands in before any pattern has been set so
// callers need no nil checks.
type Null struct{}

func (Null) String() string { return "" }
func (Null) SetPattern(string) error { return nil }
func (Null) FindFirst(string) (Span, bool) { return Span{}, false }
func (Null) FindAll(string) []Span { return nil }

// Plain matches the pattern as a literal substring.
type Plain struct {
	pat string
}

func NewPlain() *Plain { return &Plain{} }

func (p *Plain) String() string { return p.pat }

func (p *Plain) SetPattern(pat string) error {
	p.pat = pat
	return nil
}

func (p *Plain) FindFirst(line string) (Span, bool) {
	if p.pat == "" {
		return Span{}, false
	}
	i := strings.Index(line, p.pat)
	if i < 0 {
		return Span{}, false
	}
	return Span{Start: i, End: i + len(p.pat)}, true
}

func (p *Plain) FindAll(line string) []Span {
	if p.pat == "" {
		return nil
	}
	var spans []Span
	off := 0
	for {
		i := strings.Index(line[off:], p.pat)
		if i < 0 {
			return spans
		}
		start := off + i
		spans = append(spans, Span{Start: start, End: start + len(p.pat)})
		off = start + len(p.pat)
	}
}

// Regex matches the pattern as a regular expression.
type Regex struct {
	pat string
	re  *regexp.Regexp
}

func NewRegex() *Regex { return &Regex{} }

func (r *Regex) String() string { return r.pat }

func (r *Regex) SetPattern(pat string) error {
	if pat == "" {
		r.pat, r.re = "", nil
		return nil
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	r.pat, r.re = pat, re
	return nil
}

func (r *Regex) FindFirst(line string) (Span, bool) {
	if r.re == nil {
		return Span{}, false
	}
	loc := r.re.FindStringIndex(line)
	if loc == nil || loc[0] == loc[1] {
		return Span{}, false
	}
	return Span{Start: loc[0], End: loc[1]}, true
}

func (r *Regex) FindAll(line string) []Span {
	if r.re == nil {
		return nil
	}
	var spans []Span
	for _, loc := range r.re.FindAllStringIndex(line, -1) {
		if loc[0] == loc[1] {
			continue
		}
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}
