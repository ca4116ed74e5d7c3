package manifest

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

const byteOrderMark = "\uFEFF"

// LineReader yields the lines of a stream lazily, without length limit.
// Line terminators (\n or \r\n) are stripped. The underlying stream is closed
// once, either when the input is exhausted, on a read error, or on Close.
type LineReader struct {
	rc    io.ReadCloser
	br    *bufio.Reader
	text  string
	line  int
	err   error
	done  bool
	close sync.Once
}

// NewLineReader wraps rc. Ownership of rc passes to the LineReader.
func NewLineReader(rc io.ReadCloser) *LineReader {
	return &LineReader{
		rc: rc,
		br: bufio.NewReaderSize(rc, 64*1024),
	}
}

// Next advances to the next line and reports whether there is one.
func (r *LineReader) Next() bool {
	if r.done {
		return false
	}

	s, err := r.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		r.finish(err)
		return false
	}
	if err != nil && s == "" {
		r.finish(nil)
		return false
	}

	r.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	if r.line == 1 {
		s = strings.TrimPrefix(s, byteOrderMark)
	}
	r.text = s
	return true
}

// Text returns the current line.
func (r *LineReader) Text() string {
	return r.text
}

// Line returns the 1-based number of the current line.
func (r *LineReader) Line() int {
	return r.line
}

// Err returns the read error that stopped iteration, if any.
func (r *LineReader) Err() error {
	return r.err
}

// Close releases the underlying stream. It is safe to call more than once.
func (r *LineReader) Close() error {
	r.done = true
	var err error
	r.close.Do(func() {
		err = r.rc.Close()
	})
	return err
}

func (r *LineReader) finish(err error) {
	r.err = err
	if cerr := r.Close(); r.err == nil && cerr != nil {
		r.err = cerr
	}
}
