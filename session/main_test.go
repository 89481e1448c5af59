// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session_test

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aibor/virtsh/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	fakeShellEnv = "VIRTSH_FAKE_SHELL"
	fakeEchoEnv  = "VIRTSH_FAKE_ECHO"
)

// Boot modes of the fake shell.
const (
	bootNormal = "normal"
	bootSilent = "silent"
	bootSlow   = "slow"
	bootExit   = "exit"
)

const fakeListing = `.              1 1 1024
..             1 1 1024
README         2 2 2292
cat            2 3 34264
echo           2 4 33184
sh             2 14 54264
console        3 21 0
`

// TestMain runs the fake shell instead of the tests if the test binary is
// started as target by a session.
func TestMain(m *testing.M) {
	mode, isShell := os.LookupEnv(fakeShellEnv)
	if isShell {
		os.Exit(fakeShell(mode, os.Getenv(fakeEchoEnv) != ""))
	}

	goleak.VerifyTestMain(m)
}

// fakeShell imitates the boot and the shell of xv6 on stdin and stdout.
func fakeShell(mode string, echo bool) int {
	fmt.Print("\r\nxv6 kernel is booting\r\n\r\nhart 1 starting\r\n")

	switch mode {
	case bootSilent:
		time.Sleep(time.Hour)
		return 0
	case bootSlow:
		time.Sleep(300 * time.Millisecond)
	case bootExit:
		fmt.Print("init: starting sh\r\npanic: init exiting\r\n")
		return 1
	}

	fmt.Print("init: starting sh\r\n$ ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if echo {
			fmt.Print(line + "\r\n")
		}

		fields := strings.Fields(line)

		switch {
		case len(fields) == 0:
		case fields[0] == "echo":
			fmt.Print(strings.Join(fields[1:], " ") + "\r\n")
		case fields[0] == "ls":
			fmt.Print(strings.ReplaceAll(fakeListing, "\n", "\r\n"))
		case fields[0] == "sleep" && len(fields) > 1:
			ms, _ := strconv.Atoi(fields[1])
			time.Sleep(time.Duration(ms) * time.Millisecond)
		case fields[0] == "pid":
			fmt.Printf("%d\r\n", os.Getpid())
		case fields[0] == "crash":
			fmt.Print("usertrap(): unexpected scause 0xd\r\npanic: kerneltrap\r\n")
			return 1
		default:
			fmt.Printf("exec %s failed\r\n", fields[0])
		}

		fmt.Print("$ ")
	}

	return 0
}

// projectRoot creates a temporary project root with an empty artifact.
func projectRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	artifact := filepath.Join(root, session.DefaultArtifact)

	require.NoError(t, os.MkdirAll(filepath.Dir(artifact), 0o755))
	require.NoError(t, os.WriteFile(artifact, nil, 0o600))

	return root
}

// fakeConfig returns a [session.Config] that runs the fake shell in the given
// boot mode on pipes.
func fakeConfig(t *testing.T, mode string, env ...string) session.Config {
	t.Helper()

	executable, err := os.Executable()
	require.NoError(t, err)

	return session.Config{
		ProjectRoot:    projectRoot(t),
		Command:        []string{executable, "-test.run=^$"},
		Env:            append([]string{fakeShellEnv + "=" + mode}, env...),
		DefaultTimeout: 5 * time.Second,
		BootTimeout:    5 * time.Second,
		Spawner:        session.SpawnPipe,
	}
}
