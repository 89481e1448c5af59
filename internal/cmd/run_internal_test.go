// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aibor/virtsh/session"
	"github.com/stretchr/testify/assert"
)

func TestHandleParseArgsError(t *testing.T) {
	assert.Equal(t, 0, handleParseArgsError(ErrHelp))
	assert.Equal(t, 0, handleParseArgsError(fmt.Errorf("parse args: %w", ErrHelp)))
	assert.Equal(t, -1, handleParseArgsError(&ParseArgsError{msg: "fail"}))
	assert.Equal(t, -1, handleParseArgsError(assert.AnError))
}

func TestHandleRunError(t *testing.T) {
	commandFailed := fmt.Errorf("%w: %w", ErrCommandFailed, session.ErrCommandTimeout)
	startFailed := fmt.Errorf("%w: %w", ErrStart, session.ErrBootTimeout)

	tests := []struct {
		name             string
		err              error
		expectedExitCode int
	}{
		{
			name:             "command failed",
			err:              commandFailed,
			expectedExitCode: 1,
		},
		{
			name:             "multiple commands failed",
			err:              errors.Join(commandFailed, commandFailed),
			expectedExitCode: 1,
		},
		{
			name:             "start failed",
			err:              startFailed,
			expectedExitCode: -1,
		},
		{
			name:             "start and command failed",
			err:              errors.Join(commandFailed, startFailed),
			expectedExitCode: -1,
		},
		{
			name:             "any error",
			err:              assert.AnError,
			expectedExitCode: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedExitCode, handleRunError(tt.err))
		})
	}
}
