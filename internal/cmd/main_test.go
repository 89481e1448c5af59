// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

const fakeShellEnv = "VIRTSH_FAKE_SHELL"

// TestMain runs a fake shell instead of the tests if the test binary is
// started as target.
func TestMain(m *testing.M) {
	if os.Getenv(fakeShellEnv) == "target" {
		os.Exit(fakeShell())
	}

	goleak.VerifyTestMain(m)
}

// fakeShell imitates the shell of xv6 on stdin and stdout.
func fakeShell() int {
	fmt.Print("xv6 kernel is booting\r\n\r\ninit: starting sh\r\n$ ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())

		switch {
		case len(fields) == 0:
		case fields[0] == "echo":
			fmt.Print(strings.Join(fields[1:], " ") + "\r\n")
		case fields[0] == "sleep" && len(fields) > 1:
			ms, _ := strconv.Atoi(fields[1])
			time.Sleep(time.Duration(ms) * time.Millisecond)
		case fields[0] == "halt":
			return 0
		default:
			fmt.Printf("exec %s failed\r\n", fields[0])
		}

		fmt.Print("$ ")
	}

	return 0
}
