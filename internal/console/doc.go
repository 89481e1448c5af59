// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package console frames the unstructured output of an interactive shell.
//
// The target writes plain text without any message boundaries. A [Console]
// buffers everything read from the stream and hands out the text up to the
// next occurrence of a pattern, usually the shell prompt. Every read is bound
// by a deadline, so a silent target never blocks the caller forever.
package console
