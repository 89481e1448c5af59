// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Process is a started target process with its attached stream.
//
// Reads return data written by the process on its stdout and stderr. Writes go
// to its stdin.
type Process interface {
	io.ReadWriteCloser

	// SetReadDeadline sets the deadline for pending and future reads.
	SetReadDeadline(t time.Time) error

	// Pid returns the process ID of the started process.
	Pid() int

	// Kill forcibly terminates the process and all processes in its process
	// group.
	Kill() error

	// Wait waits for the process to exit and releases its resources. It may
	// be called more than once and returns the same result each time.
	Wait() error
}

// Spawner starts the given command and returns the running [Process].
type Spawner func(cmd *exec.Cmd) (Process, error)

var (
	_ Spawner = StartPTY
	_ Spawner = StartPipe
)

type process struct {
	cmd    *exec.Cmd
	reader *os.File
	writer *os.File

	waitOnce sync.Once
	waitErr  error
}

func (p *process) Read(b []byte) (int, error) {
	return p.reader.Read(b) //nolint:wrapcheck
}

func (p *process) Write(b []byte) (int, error) {
	return p.writer.Write(b) //nolint:wrapcheck
}

func (p *process) SetReadDeadline(t time.Time) error {
	return p.reader.SetReadDeadline(t) //nolint:wrapcheck
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

// Kill sends SIGKILL to the process group. The process is started as group
// leader, so its pid is the group id. Children like the emulator started by
// make are terminated as well.
func (p *process) Kill() error {
	err := unix.Kill(-p.Pid(), unix.SIGKILL)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill process group %d: %w", p.Pid(), err)
	}

	return nil
}

func (p *process) Wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
	})

	return p.waitErr
}

func (p *process) Close() error {
	errs := []error{p.reader.Close()}
	if p.writer != p.reader {
		errs = append(errs, p.writer.Close())
	}

	return errors.Join(errs...)
}

// IsClosed returns true if the given read or write error means the stream has
// ended.
//
// A pseudo-terminal on Linux reports [unix.EIO] once the last process holding
// the terminal side exits, instead of [io.EOF]. Writing to a pipe whose reader
// exited fails with [unix.EPIPE].
func IsClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, unix.EIO) ||
		errors.Is(err, unix.EPIPE) ||
		errors.Is(err, os.ErrClosed)
}
