// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned if the pattern did not show up before the
	// deadline.
	ErrTimeout = errors.New("timed out")

	// ErrClosed is returned if the stream ended before the pattern showed up.
	ErrClosed = errors.New("stream closed")
)

// Error wraps any error occurring while waiting for a pattern.
type Error struct {
	// Pattern is the pattern that was waited for.
	Pattern string

	// Captured is the output read up to the failure that did not match.
	Captured string

	Err error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("expect %q: %v", e.Pattern, e.Err)
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
