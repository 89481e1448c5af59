// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build integration

package session_test

import (
	"flag"
	"os"
	"testing"

	"github.com/aibor/virtsh/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xv6Root = flag.String("xv6", os.Getenv("XV6_ROOT"),
	"xv6 project root with a built kernel")

func xv6Config(t *testing.T) session.Config {
	t.Helper()

	if *xv6Root == "" {
		t.Skip("no xv6 project root given, use -xv6 or XV6_ROOT")
	}

	return session.Config{
		ProjectRoot: *xv6Root,
		Verbose:     testing.Verbose(),
	}
}

func TestXV6(t *testing.T) {
	sess := session.StartTB(t, xv6Config(t))

	output, err := sess.Run(t.Context(), "echo hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", output)

	assert.True(t, sess.HasFile(t.Context(), "README"))
	assert.False(t, sess.HasFile(t.Context(), "nonexistent"))

	for _, word := range []string{"a", "b", "c"} {
		output, err := sess.Run(t.Context(), "echo "+word)
		require.NoError(t, err)
		assert.Equal(t, word, output)
	}

	output, err = sess.Run(t.Context(), "")
	require.NoError(t, err)
	assert.Empty(t, output)

	require.NoError(t, sess.Stop())
	assert.Equal(t, session.Stopped, sess.State())
	require.NoError(t, sess.Stop())
}

func TestXV6_With(t *testing.T) {
	err := session.With(t.Context(), xv6Config(t),
		func(sess *session.Session) error {
			output, err := sess.Run(t.Context(), "ls")
			if err != nil {
				return err
			}

			assert.Contains(t, output, "README")

			return nil
		})
	require.NoError(t, err)
}
