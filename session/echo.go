// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import "strings"

// stripEcho removes the first line of the raw output if it contains the
// command and trims surrounding white space.
//
// The terminal may echo the typed command before the actual output. The
// substring test is a heuristic: output that happens to contain the command in
// its first line is dropped as well.
func stripEcho(raw, command string) string {
	lines := strings.Split(raw, "\n")
	if strings.Contains(lines[0], command) {
		lines = lines[1:]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
