// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"strconv"
	"testing"

	"github.com/aibor/virtsh/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedUintValue_Set(t *testing.T) {
	tests := []struct {
		input       string
		expected    uint64
		expectedErr error
	}{
		{input: "", expectedErr: strconv.ErrSyntax},
		{input: "four", expectedErr: strconv.ErrSyntax},
		{input: "-2", expectedErr: strconv.ErrSyntax},
		{input: "18446744073709551616", expectedErr: strconv.ErrRange},
		{input: "0", expectedErr: cmd.ErrValueOutOfRange},
		{input: "1", expected: 1},
		{input: "8", expected: 8},
		{input: "16", expected: 16},
		{input: "17", expectedErr: cmd.ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			jobs := uint64(3)
			value := cmd.LimitedUintValue{Value: &jobs, Lower: 1, Upper: 16}

			err := value.Set(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				assert.Equal(t, uint64(3), jobs, "unchanged on error")
				return
			}

			assert.Equal(t, tt.expected, jobs)
			assert.Equal(t, tt.input, value.String())
		})
	}
}

func TestLimitedUintValue_Unbounded(t *testing.T) {
	var value uint64

	unbounded := cmd.LimitedUintValue{Value: &value}

	require.NoError(t, unbounded.Set("0"))
	require.NoError(t, unbounded.Set("100000"))
	assert.Equal(t, uint64(100000), value)
}

func TestLimitedUintValue_String(t *testing.T) {
	assert.Equal(t, "0", (&cmd.LimitedUintValue{}).String())
}
