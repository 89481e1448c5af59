// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides a CLI command entry point for virtsh. It handles flag
// parsing, the session runs for scripts, commands and interactive input, and
// the mapping of errors to exit codes.
package cmd
