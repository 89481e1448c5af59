// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package term spawns the target process attached to a terminal-like stream
// and provides forced termination of its whole process group.
//
// The target (usually "make qemu") writes directly to its terminal and expects
// input character by character, so [StartPTY] is the default. [StartPipe]
// exists for hosts without pseudo-terminal support and for tests.
package term
