// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"errors"
	"os/exec"
	"runtime"
	"sync"

	"github.com/aibor/virtsh/internal/term"
)

// child is the exclusively owned target process of a [Session].
type child struct {
	proc    term.Process
	cleanup runtime.Cleanup

	once sync.Once
	err  error
}

// newChild creates a child for the given process.
//
// If the session is garbage collected while the child has not been released,
// the child is released then. This is only a safety net, [Session.Stop] is
// the way to release it.
func newChild(sess *Session, proc term.Process) *child {
	ch := &child{proc: proc}
	ch.cleanup = runtime.AddCleanup(sess, func(c *child) {
		_ = c.release()
	}, ch)

	return ch
}

// release kills the process group, reaps the process and closes the stream.
// Only the first call has an effect. All calls return the same result.
func (c *child) release() error {
	c.once.Do(func() {
		c.cleanup.Stop()

		killErr := c.proc.Kill()

		// The process is killed on purpose or has exited on its own already,
		// so a non-zero exit status is expected.
		waitErr := c.proc.Wait()

		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			waitErr = nil
		}

		c.err = errors.Join(killErr, waitErr, c.proc.Close())
	})

	return c.err
}
