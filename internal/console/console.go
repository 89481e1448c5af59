// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/aibor/virtsh/internal/term"
)

const chunkSize = 4096

// panicRE matches the line xv6 prints on a kernel panic.
var panicRE = regexp.MustCompile(`(?m)^panic: `)

// Stream is the bidirectional byte stream of the target.
type Stream interface {
	io.ReadWriter
	SetReadDeadline(t time.Time) error
}

// Console reads from a [Stream] and matches patterns against its output.
//
// It is not safe for concurrent use. Only one [Console.Expect] may be in
// flight at a time.
type Console struct {
	stream     Stream
	transcript io.Writer

	buf    []byte
	chunk  []byte
	closed bool
}

// New creates a new [Console] for the given stream.
//
// If transcript is not nil, every byte read from the stream is copied to it
// as is. A failing transcript writer is dropped and does not affect matching.
func New(stream Stream, transcript io.Writer) *Console {
	return &Console{
		stream:     stream,
		transcript: transcript,
		chunk:      make([]byte, chunkSize),
	}
}

// Send writes the given line followed by a single newline.
//
// It does not wait for any acknowledgement.
func (c *Console) Send(line string) error {
	_, err := io.WriteString(c.stream, line+"\n")
	if err != nil {
		if term.IsClosed(err) {
			c.closed = true
			return ErrClosed
		}

		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// Expect reads from the stream until re matches the buffered output.
//
// It returns the output before the match and the matched text. Both are
// consumed. Output following the match stays buffered for the next call.
// Carriage returns are removed before matching.
//
// Reading stops at the given deadline with [ErrTimeout], when the stream ends
// with [ErrClosed], or when ctx is cancelled. All errors are wrapped in an
// [Error] that carries the unmatched output. Unmatched output stays buffered.
func (c *Console) Expect(
	ctx context.Context,
	re *regexp.Regexp,
	deadline time.Time,
) (string, string, error) {
	for {
		loc := re.FindIndex(c.buf)
		if loc != nil {
			before := string(c.buf[:loc[0]])
			match := string(c.buf[loc[0]:loc[1]])
			c.buf = append(c.buf[:0], c.buf[loc[1]:]...)

			return before, match, nil
		}

		if c.closed {
			return "", "", c.error(re, ErrClosed)
		}

		err := c.fill(ctx, deadline)
		if err != nil {
			return "", "", c.error(re, err)
		}
	}
}

// Buffered returns the output that has been read but not consumed yet.
func (c *Console) Buffered() string {
	return string(c.buf)
}

// Closed returns true once the end of the stream has been read.
func (c *Console) Closed() bool {
	return c.closed
}

// Panicked returns true if the output that has not been consumed by a match
// yet contains a kernel panic message.
//
// It is a heuristic: any line starting with "panic: " counts, including one
// printed by a user program. Output handed out by [Console.Expect] before is
// not considered.
func (c *Console) Panicked() bool {
	return panicRE.Match(c.buf)
}

func (c *Console) error(re *regexp.Regexp, err error) error {
	return &Error{
		Pattern:  re.String(),
		Captured: string(c.buf),
		Err:      err,
	}
}

// fill does a single read with the given deadline and appends the data to the
// buffer. Cancellation of ctx moves the read deadline into the past, which
// makes a pending read return immediately.
func (c *Console) fill(ctx context.Context, deadline time.Time) error {
	err := ctx.Err()
	if err != nil {
		return contextError(err)
	}

	err = c.stream.SetReadDeadline(deadline)
	if err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.stream.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	n, err := c.stream.Read(c.chunk)
	c.append(c.chunk[:n])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contextError(ctxErr)
		}

		return ErrTimeout
	case term.IsClosed(err):
		c.closed = true
		return nil
	default:
		return fmt.Errorf("read: %w", err)
	}
}

func (c *Console) append(data []byte) {
	if len(data) == 0 {
		return
	}

	if c.transcript != nil {
		_, err := c.transcript.Write(data)
		if err != nil {
			c.transcript = nil
		}
	}

	c.buf = append(c.buf, bytes.ReplaceAll(data, []byte("\r"), nil)...)
}

// contextError maps an expired context deadline to [ErrTimeout]. Any other
// context error is returned as is.
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	return err
}
