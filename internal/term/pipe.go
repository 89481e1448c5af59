// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package term

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// StartPipe starts the given command with plain pipes for stdin and a combined
// stdout and stderr.
//
// The command is started in its own process group so [Process.Kill]
// terminates its children as well.
func StartPipe(cmd *exec.Cmd) (Process, error) {
	outReader, outWriter, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("output pipe: %w", err)
	}

	inReader, inWriter, err := os.Pipe()
	if err != nil {
		_ = outReader.Close()
		_ = outWriter.Close()

		return nil, fmt.Errorf("input pipe: %w", err)
	}

	cmd.Stdin = inReader
	cmd.Stdout = outWriter
	cmd.Stderr = outWriter
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	err = cmd.Start()

	// The child's ends are not needed here anymore. Closing the write end of
	// the output pipe makes reads end with EOF once the child exits.
	_ = inReader.Close()
	_ = outWriter.Close()

	if err != nil {
		_ = outReader.Close()
		_ = inWriter.Close()

		return nil, fmt.Errorf("start: %w", err)
	}

	return &process{
		cmd:    cmd,
		reader: outReader,
		writer: inWriter,
	}, nil
}
