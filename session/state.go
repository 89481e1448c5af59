// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

// State is the lifecycle state of a [Session].
type State int

const (
	// NotStarted is the state of a new session.
	NotStarted State = iota
	// Booting means the target is spawned but the prompt was not seen yet.
	Booting
	// Ready means the shell is idle and accepts commands.
	Ready
	// Stopped is final. The target has been terminated and reaped.
	Stopped
	// Crashed is final. The target exited on its own while the session was
	// in use.
	Crashed
)

var stateNames = map[State]string{
	NotStarted: "not started",
	Booting:    "booting",
	Ready:      "ready",
	Stopped:    "stopped",
	Crashed:    "crashed",
}

func (s State) String() string {
	name, exists := stateNames[s]
	if !exists {
		return "unknown"
	}

	return name
}

// Final returns true if no further transition is possible from the state.
func (s State) Final() bool {
	return s == Stopped || s == Crashed
}
