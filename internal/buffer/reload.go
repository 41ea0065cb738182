package buffer

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const readChunkSize = 64 * 1024

// Reader feeds a Buffer incrementally from a file or a pipe. File sources
// remember the byte offset of the last read so a reload only parses appended
// data. Pipe sources drain whatever is currently readable and carry an
// unterminated trailing line over to the next call.
type Reader struct {
	file *os.File
	fd   int // raw pipe descriptor, kept nonblocking
	pipe bool
	eof  bool

	offset  int64
	enc     sourceEncoding
	probed  bool
	rawTail []byte // undecoded odd byte of a UTF-16 chunk
	tail    []byte // decoded bytes of an incomplete final line

	// Transform, when set, is applied to every completed line before it
	// reaches the buffer.
	Transform func(string) string
}

// NewFileReader opens path for incremental reading. The file stays open for
// the life of the reader so follow mode can pick up appended data.
func NewFileReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f}, nil
}

// NewPipeReader wraps a pipe such as a redirected stdin. The descriptor is
// switched to nonblocking mode so a drain can stop at the data currently
// available instead of stalling on a slow producer. Reads go through the
// raw descriptor from here on; os.File.Fd would flip it back to blocking.
func NewPipeReader(f *os.File) (*Reader, error) {
	fd := int(f.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	return &Reader{file: f, fd: fd, pipe: true}, nil
}

// Close releases the underlying descriptor.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadInto appends any newly available lines to buf and reports how many
// were added. File sources read from the remembered offset to the current
// end of file. Pipe sources drain readable data, waiting up to wait for the
// first byte; a zero wait takes only what is already buffered.
func (r *Reader) ReadInto(buf *Buffer, wait time.Duration) (int, error) {
	if r.eof {
		return 0, nil
	}
	if r.pipe {
		return r.drainPipe(buf, wait)
	}
	return r.readFile(buf)
}

func (r *Reader) readFile(buf *Buffer) (int, error) {
	added := 0
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.file.ReadAt(chunk, r.offset)
		if n > 0 {
			r.offset += int64(n)
			added += r.consume(buf, chunk[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				added += r.flushTail(buf)
				return added, nil
			}
			return added, err
		}
	}
}

func (r *Reader) drainPipe(buf *Buffer, wait time.Duration) (int, error) {
	added := 0
	chunk := make([]byte, readChunkSize)
	deadline := time.Now().Add(wait)
	for {
		n, err := unix.Read(r.fd, chunk)
		if n > 0 {
			added += r.consume(buf, chunk[:n])
			continue
		}
		if n == 0 && err == nil {
			// Zero-byte read on a pipe means the write end closed.
			r.eof = true
			added += r.flushTail(buf)
			return added, nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if !errors.Is(err, unix.EAGAIN) {
			return added, err
		}
		// Nothing readable right now. Wait for more only while data has
		// yet to arrive and the caller's budget allows it.
		remain := time.Until(deadline)
		if added > 0 || remain <= 0 {
			return added, nil
		}
		if err := r.waitReadable(remain); err != nil {
			return added, err
		}
	}
}

func (r *Reader) waitReadable(d time.Duration) error {
	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}
	_, err := unix.Poll(fds, int(d.Milliseconds()))
	if errors.Is(err, unix.EINTR) {
		return nil
	}
	return err
}

// consume decodes one raw chunk, splits it into lines, and appends the
// completed ones to buf. The trailing fragment without a newline stays in
// r.tail until the next chunk or a flush completes it.
func (r *Reader) consume(buf *Buffer, chunk []byte) int {
	raw := chunk
	if len(r.rawTail) > 0 {
		raw = append(r.rawTail, chunk...)
		r.rawTail = nil
	}
	if !r.probed {
		r.probed = true
		r.enc = detectEncoding(raw)
		switch r.enc {
		case encodingUTF8BOM:
			raw = raw[3:]
		case encodingUTF16LE, encodingUTF16BE:
			raw = raw[2:]
		}
	}
	if r.enc == encodingUTF16LE || r.enc == encodingUTF16BE {
		if len(raw)%2 != 0 {
			r.rawTail = []byte{raw[len(raw)-1]}
			raw = raw[:len(raw)-1]
		}
	}
	decoded, err := decodeChunk(r.enc, raw)
	if err != nil {
		decoded = raw
	}

	data := decoded
	if len(r.tail) > 0 {
		data = append(r.tail, decoded...)
		r.tail = nil
	}
	added := 0
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		buf.Append(r.finish(data[:i]))
		added++
		data = data[i+1:]
	}
	if len(data) > 0 {
		r.tail = append([]byte(nil), data...)
	}
	return added
}

func (r *Reader) flushTail(buf *Buffer) int {
	if len(r.tail) == 0 {
		return 0
	}
	buf.Append(r.finish(r.tail))
	r.tail = nil
	return 1
}

func (r *Reader) finish(line []byte) string {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	s := string(line)
	if r.Transform != nil {
		s = r.Transform(s)
	}
	return s
}
