package buffer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBufferSliceClamps(t *testing.T) {
	b := New()
	b.Append("a", "b", "c")
	if got := b.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := b.Line(1); got != "b" {
		t.Fatalf("Line(1) = %q, want %q", got, "b")
	}
	if got := b.Line(5); got != "" {
		t.Fatalf("Line(5) = %q, want empty", got)
	}
	if got := b.Slice(1, 10); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("Slice(1, 10) = %v", got)
	}
	if got := b.Slice(5, 2); len(got) != 0 {
		t.Fatalf("Slice(5, 2) = %v, want empty", got)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileReaderSplitsLines(t *testing.T) {
	path := writeTemp(t, "one\ntwo\r\nthree")
	r, err := NewFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := New()
	n, err := r.ReadInto(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("ReadInto added %d lines, want 3", n)
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		if got := buf.Line(i); got != w {
			t.Errorf("Line(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestFileReaderResumesAfterAppend(t *testing.T) {
	path := writeTemp(t, "first\n")
	r, err := NewFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := New()
	if _, err := r.ReadInto(buf, 0); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("second\nthird\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	n, err := r.ReadInto(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("reload added %d lines, want 2", n)
	}
	if buf.Len() != 3 || buf.Line(2) != "third" {
		t.Fatalf("buffer = %v", buf.Slice(0, buf.Len()))
	}
}

func TestFileReaderNoDuplicateOnIdleReload(t *testing.T) {
	path := writeTemp(t, "only\n")
	r, err := NewFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := New()
	if _, err := r.ReadInto(buf, 0); err != nil {
		t.Fatal(err)
	}
	n, err := r.ReadInto(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || buf.Len() != 1 {
		t.Fatalf("idle reload added %d lines, buffer has %d", n, buf.Len())
	}
}

func TestFileReaderUTF16(t *testing.T) {
	// "ab\ncd" little endian with BOM.
	content := []byte{0xFF, 0xFE, 'a', 0, 'b', 0, '\n', 0, 'c', 0, 'd', 0}
	path := filepath.Join(t.TempDir(), "utf16.txt")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := NewFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := New()
	if _, err := r.ReadInto(buf, 0); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2 || buf.Line(0) != "ab" || buf.Line(1) != "cd" {
		t.Fatalf("buffer = %v", buf.Slice(0, buf.Len()))
	}
}

func TestFileReaderTransform(t *testing.T) {
	path := writeTemp(t, "x\n")
	r, err := NewFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	r.Transform = func(s string) string { return "<" + s + ">" }

	buf := New()
	if _, err := r.ReadInto(buf, 0); err != nil {
		t.Fatal(err)
	}
	if got := buf.Line(0); got != "<x>" {
		t.Fatalf("Line(0) = %q, want %q", got, "<x>")
	}
}

func TestPipeReaderCarriesPartialLine(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewPipeReader(pr)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := New()
	if _, err := pw.WriteString("hello\nwor"); err != nil {
		t.Fatal(err)
	}
	n, err := r.ReadInto(buf, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || buf.Line(0) != "hello" {
		t.Fatalf("first drain: n=%d buffer=%v", n, buf.Slice(0, buf.Len()))
	}

	if _, err := pw.WriteString("ld\n"); err != nil {
		t.Fatal(err)
	}
	n, err = r.ReadInto(buf, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || buf.Line(1) != "world" {
		t.Fatalf("second drain: n=%d buffer=%v", n, buf.Slice(0, buf.Len()))
	}
}

func TestPipeReaderFlushesOnClose(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewPipeReader(pr)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := New()
	if _, err := pw.WriteString("tail without newline"); err != nil {
		t.Fatal(err)
	}
	pw.Close()

	if _, err := r.ReadInto(buf, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 1 || buf.Line(0) != "tail without newline" {
		t.Fatalf("buffer = %v", buf.Slice(0, buf.Len()))
	}
	// Closed pipe yields nothing more.
	n, err := r.ReadInto(buf, 0)
	if err != nil || n != 0 {
		t.Fatalf("post-close drain: n=%d err=%v", n, err)
	}
}
