// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import "testing"

// StartTB starts a new [Session] for the test. The test fails immediately if
// the session cannot be started. The session is stopped when the test and all
// its subtests complete.
func StartTB(tb testing.TB, cfg Config) *Session {
	tb.Helper()

	sess := New(cfg)
	tb.Cleanup(func() { _ = sess.Stop() })

	err := sess.Start(tb.Context())
	if err != nil {
		tb.Fatalf("start session: %v", err)
	}

	return sess
}
