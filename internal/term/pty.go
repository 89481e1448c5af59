// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package term

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

const (
	windowRows = 24
	windowCols = 80
)

// StartPTY starts the given command attached to a new pseudo-terminal.
//
// Echo is disabled on the terminal before the command starts. The command runs
// in a new session with the terminal as its controlling terminal.
func StartPTY(cmd *exec.Cmd) (Process, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}

	// The terminal side is only needed by the child. Once it is closed here,
	// reads from ptmx end with EIO when the child exits.
	defer tty.Close()

	err = pty.Setsize(ptmx, &pty.Winsize{Rows: windowRows, Cols: windowCols})
	if err != nil {
		_ = ptmx.Close()
		return nil, fmt.Errorf("set pty size: %w", err)
	}

	err = disableEcho(tty)
	if err != nil {
		_ = ptmx.Close()
		return nil, err
	}

	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	err = cmd.Start()
	if err != nil {
		_ = ptmx.Close()
		return nil, fmt.Errorf("start: %w", err)
	}

	return &process{
		cmd:    cmd,
		reader: ptmx,
		writer: ptmx,
	}, nil
}

func disableEcho(tty *os.File) error {
	fd := int(tty.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}

	termios.Lflag &^= unix.ECHO

	err = unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
	if err != nil {
		return fmt.Errorf("set termios: %w", err)
	}

	return nil
}
