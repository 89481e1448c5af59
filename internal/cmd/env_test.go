// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/virtsh/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvArgs(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		output []string
	}{
		{
			name:   "empty",
			env:    "",
			output: []string{},
		},
		{
			name:   "multiple args",
			env:    "-root /src/xv6 -verbose",
			output: []string{"-root", "/src/xv6", "-verbose"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VIRTSH_ARGS", tt.env)
			assert.Equal(t, tt.output, cmd.EnvArgs())
		})
	}
}

func TestLocalConfigArgs(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected []string
	}{
		{
			name:     "empty",
			content:  "",
			expected: []string{},
		},
		{
			name:     "single line",
			content:  "-timeout=3s\n-c=echo hello",
			expected: []string{"-timeout=3s", "-c=echo hello"},
		},
		{
			name:     "multiple lines",
			content:  "-root\n../xv6\n-jobs\n4\n",
			expected: []string{"-root", "../xv6", "-jobs", "4"},
		},
		{
			name:     "with env vars",
			content:  "-root=${XV6}\n-transcript=$LOGS/out\n-artifact=${UNSET}/k\n",
			env:      map[string]string{"XV6": "/src/xv6", "LOGS": "/tmp"},
			expected: []string{"-root=/src/xv6", "-transcript=/tmp/out", "-artifact=/k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFS := fstest.MapFS{
				"conf": &fstest.MapFile{
					Data: []byte(tt.content),
				},
			}

			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			content, err := cmd.LocalConfigArgs(testFS, "conf")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, content)
		})
	}
}

func TestLocalConfigArgs_Missing(t *testing.T) {
	content, err := cmd.LocalConfigArgs(fstest.MapFS{}, "conf")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestMergedArgs(t *testing.T) {
	t.Setenv("VIRTSH_ARGS", "-root /from/env -debug")

	testFS := fstest.MapFS{
		".virtsh-args": &fstest.MapFile{
			Data: []byte("-root\n/from/file\n"),
		},
	}

	args, err := cmd.MergedArgs([]string{"-root", "/from/args", "script"},
		testFS, ".virtsh-args")
	require.NoError(t, err)

	expected := []string{
		"-root", "/from/env", "-debug",
		"-root", "/from/file",
		"-root", "/from/args", "script",
	}
	assert.Equal(t, expected, args)
}
