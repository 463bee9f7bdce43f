// Package link feeds text commands into the robot from a byte stream: a
// serial port, stdin or anything else that reads.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/shlex"

	"github.com/teslashibe/go-enic/internal/log"
)

// MaxLine is the longest line kept; further bytes are dropped.
const MaxLine = 64

// Submitter accepts one command word.
type Submitter interface {
	Submit(cmd string) error
}

// LineBuffer assembles lines one byte at a time. Carriage returns are
// ignored and empty lines are skipped.
type LineBuffer struct {
	buf      []byte
	overflow bool
}

// Feed adds one byte. On a newline it returns the finished line; err is
// ErrLineTooLong if the line was cut.
func (l *LineBuffer) Feed(c byte) (line string, ok bool, err error) {
	switch c {
	case '\r':
		return "", false, nil
	case '\n':
		return l.take()
	}
	if len(l.buf) < MaxLine {
		l.buf = append(l.buf, c)
	} else {
		l.overflow = true
	}
	return "", false, nil
}

// Flush returns a pending partial line, as if a newline had arrived.
func (l *LineBuffer) Flush() (line string, ok bool, err error) {
	return l.take()
}

func (l *LineBuffer) take() (string, bool, error) {
	if len(l.buf) == 0 {
		l.overflow = false
		return "", false, nil
	}
	line := string(l.buf)
	l.buf = l.buf[:0]
	if l.overflow {
		l.overflow = false
		return line, true, ErrLineTooLong
	}
	return line, true, nil
}

// Split breaks a line into command words. Quotes group words and # starts
// a comment.
func Split(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("link: split %q: %w", line, err)
	}
	return words, nil
}

// Reader pumps commands from src into a Submitter.
type Reader struct {
	src  io.Reader
	dst  Submitter
	name string
	log  *slog.Logger

	lines LineBuffer
	count uint64
}

// NewReader creates a reader; name labels its log lines.
func NewReader(name string, src io.Reader, dst Submitter) *Reader {
	return &Reader{
		src:  src,
		dst:  dst,
		name: name,
		log:  log.Component("link").With("source", name),
	}
}

// Count returns how many commands were submitted.
func (r *Reader) Count() uint64 {
	return r.count
}

// Run reads until EOF, a read error or ctx is cancelled. A partial last line
// is delivered at EOF. Cancellation is noticed between reads, so sources
// should have a read timeout.
func (r *Reader) Run(ctx context.Context) error {
	buf := make([]byte, 128)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := r.src.Read(buf)
		for _, c := range buf[:n] {
			r.handle(r.lines.Feed(c))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.handle(r.lines.Flush())
				return nil
			}
			return fmt.Errorf("link: read %s: %w", r.name, err)
		}
	}
}

func (r *Reader) handle(line string, ok bool, err error) {
	if !ok {
		return
	}
	if errors.Is(err, ErrLineTooLong) {
		r.log.Warn("line truncated", "max", MaxLine, "line", line)
	}
	words, err := Split(line)
	if err != nil {
		r.log.Warn("bad command line", "error", err)
		return
	}
	for _, w := range words {
		if err := r.dst.Submit(strings.TrimSpace(w)); err != nil {
			r.log.Warn("command not queued", "command", w, "error", err)
			continue
		}
		r.count++
	}
}
