// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session drives the interactive shell of an emulated xv6 machine.
//
// A [Session] spawns the target (by default "make -C <root> qemu") attached to
// a pseudo-terminal, waits for the shell prompt "$ " and then offers a
// synchronous request/response API on top of the unstructured terminal
// output: [Session.Run] sends a command and returns everything printed up to
// the next prompt.
//
// The preferred usage is scoped acquisition with [With], which guarantees the
// target is terminated and reaped on every exit path:
//
//	err := session.With(ctx, session.Config{ProjectRoot: "../xv6-riscv"},
//	    func(s *session.Session) error {
//	        output, err := s.Run(ctx, "echo hello world")
//	        ...
//	    })
//
// In tests, [StartTB] starts a session and registers its teardown with
// [testing.TB.Cleanup].
//
// Timeouts are not fatal. A command that does not return to the prompt in
// time fails with [ErrCommandTimeout] and the session stays usable. Only the
// end of the target's output stream, which means the target exited, moves
// the session into [Crashed]. From then on all operations fail fast with
// [ErrNotStarted].
package session
