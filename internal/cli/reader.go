package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads prompter input lines and gives up when its context is
// cancelled. A read abandoned on cancellation finishes in the background.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// ReadLine returns the next line with surrounding whitespace trimmed. A
// final line without newline is returned before io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err  error
		line string
	}
	ch := make(chan result, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		line, err := r.reader.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-ch:
		return strings.TrimSpace(res.line), res.err
	}
}
