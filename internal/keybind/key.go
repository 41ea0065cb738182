package keybind

import (
	"bufio"
	"fmt"
	"unicode/utf8"
)

// Kind classifies a decoded key.
type Kind int

const (
	// KindRune is a printable character, with newline folded in as '\n'.
	KindRune Kind = iota
	// KindCtrl is a control chord, Ch holding the lowercase letter.
	KindCtrl
	KindEsc
	KindBackspace
	KindDelete
	// KindOther covers recognized but unbound sequences such as arrows.
	KindOther
)

// Key is one decoded keystroke.
type Key struct {
	Kind Kind
	Ch   rune
}

func Rune(ch rune) Key { return Key{Kind: KindRune, Ch: ch} }
func Ctrl(ch rune) Key { return Key{Kind: KindCtrl, Ch: ch} }

var (
	Esc       = Key{Kind: KindEsc}
	Backspace = Key{Kind: KindBackspace}
	Delete    = Key{Kind: KindDelete}
)

func (k Key) String() string {
	switch k.Kind {
	case KindRune:
		if k.Ch == '\n' {
			return "Enter"
		}
		return string(k.Ch)
	case KindCtrl:
		return fmt.Sprintf("C-%c", k.Ch)
	case KindEsc:
		return "Esc"
	case KindBackspace:
		return "Backspace"
	case KindDelete:
		return "Delete"
	default:
		return "(other)"
	}
}

// ReadKey decodes one keystroke from a raw-mode terminal stream. Escape
// sequences are resolved by peeking the reader's buffered bytes, so a lone
// Esc press is distinguishable from the head of a CSI sequence.
func ReadKey(r *bufio.Reader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch {
	case b == 0x1b:
		return readEscape(r)
	case b == '\r' || b == '\n':
		return Rune('\n'), nil
	case b == 0x7f:
		return Backspace, nil
	case b < 0x20:
		return Ctrl(rune('a' + b - 1)), nil
	case b < utf8.RuneSelf:
		return Rune(rune(b)), nil
	}

	// Multibyte rune: collect continuation bytes until it decodes.
	seq := []byte{b}
	for !utf8.FullRune(seq) && len(seq) < utf8.UTFMax {
		nb, err := r.ReadByte()
		if err != nil {
			break
		}
		seq = append(seq, nb)
	}
	ch, _ := utf8.DecodeRune(seq)
	if ch == utf8.RuneError {
		return Key{Kind: KindOther}, nil
	}
	return Rune(ch), nil
}

func readEscape(r *bufio.Reader) (Key, error) {
	if r.Buffered() == 0 {
		return Esc, nil
	}
	next, err := r.ReadByte()
	if err != nil {
		return Esc, nil
	}
	switch next {
	case '[':
		return readCSI(r)
	case 'O':
		// SS3 sequences (F1..F4, some Home/End variants). Consume the
		// final byte and report an unbound key.
		if _, err := r.ReadByte(); err != nil {
			return Esc, nil
		}
		return Key{Kind: KindOther}, nil
	default:
		// Alt chord; the pager has no Alt bindings.
		return Key{Kind: KindOther}, nil
	}
}

func readCSI(r *bufio.Reader) (Key, error) {
	var seq []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return Esc, nil
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if len(seq) > 8 {
			return Key{Kind: KindOther}, nil
		}
	}
	if string(seq) == "3~" {
		return Delete, nil
	}
	return Key{Kind: KindOther}, nil
}
