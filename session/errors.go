// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrConfiguration is returned by [Session.Start] if the project root or
	// the artifact is missing. Nothing has been spawned.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrSpawn is returned by [Session.Start] if the target process could not
	// be created.
	ErrSpawn = errors.New("spawn failed")

	// ErrBootTimeout is returned by [Session.Start] if the prompt did not
	// show up within the boot timeout.
	ErrBootTimeout = errors.New("boot timed out")

	// ErrPrematureExit is returned by [Session.Start] if the target exited
	// before the prompt showed up.
	ErrPrematureExit = errors.New("target exited before boot completed")

	// ErrCommandTimeout is returned if the expected output did not show up in
	// time. The session is still usable, but the prompt of the timed out
	// command may still arrive. Wait for it with [Session.WaitFor] before the
	// next [Session.Run].
	ErrCommandTimeout = errors.New("command timed out")

	// ErrStreamClosed is returned if the target exited while waiting for
	// output. The session is [Crashed].
	ErrStreamClosed = errors.New("target exited")

	// ErrNotStarted is returned if an operation is called in a state that
	// does not allow it, e.g. before [Session.Start] or after a crash.
	ErrNotStarted = errors.New("session not ready")

	// ErrGuestPanic is returned in addition to [ErrStreamClosed] or
	// [ErrPrematureExit] if the guest kernel printed a panic message.
	ErrGuestPanic = errors.New("guest system panicked")
)

// Error wraps any error returned by [Session] operations.
type Error struct {
	// Op is the operation that failed: start, run or wait.
	Op string

	// Command is the command or pattern the operation was called with.
	Command string

	// Captured is the output read since the last match up to the failure.
	Captured string

	Err error

	verbose bool
}

// Error implements the [error] interface.
//
// The captured output is included if the session is verbose or the target
// exited during boot.
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString(e.Op)

	if e.Command != "" {
		msg.WriteString(" " + strconv.Quote(e.Command))
	}

	msg.WriteString(": " + e.Err.Error())

	if e.Captured != "" && (e.verbose || errors.Is(e.Err, ErrPrematureExit)) {
		msg.WriteString("\ncaptured output:\n" + e.Captured)
	}

	return msg.String()
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}
