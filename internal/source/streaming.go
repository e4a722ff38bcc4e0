package source

// streaming.go cleans raw catalog bytes before they reach a parser:
//
//   - a leading UTF-8 BOM (0xEF 0xBB 0xBF) written by spreadsheet exports is dropped
//   - invalid UTF-8 bytes are replaced with '?'
//
// Both happen on the fly with a fixed-size buffer.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CleanReader strips a leading BOM and sanitizes invalid UTF-8.
type CleanReader struct {
	br         *bufio.Reader
	bomChecked bool
}

// NewCleanReader wraps r.
func NewCleanReader(r io.Reader) *CleanReader {
	return &CleanReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (r *CleanReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !r.bomChecked {
		r.bomChecked = true
		if head, err := r.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}

	n := 0
	for n < len(p) {
		ch, size, err := r.br.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}

		if ch == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}

		if size > len(p)-n {
			if n == 0 {
				return 0, io.ErrShortBuffer
			}
			if err := r.br.UnreadRune(); err != nil {
				return n, err
			}
			break
		}
		n += utf8.EncodeRune(p[n:], ch)
	}
	return n, nil
}
