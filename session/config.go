// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aibor/virtsh/internal/sys"
	"github.com/aibor/virtsh/internal/term"
)

const (
	// DefaultArtifact is the prebuilt kernel, relative to the project root.
	DefaultArtifact = "kernel/kernel"

	// DefaultTimeout is the default bound for a single command.
	DefaultTimeout = 30 * time.Second

	// DefaultBootTimeout is the default bound for the boot of the target.
	DefaultBootTimeout = 60 * time.Second
)

// Spawner starts the target command attached to a stream.
type Spawner = term.Spawner

var (
	// SpawnPTY attaches the target to a pseudo-terminal with echo disabled.
	SpawnPTY Spawner = term.StartPTY

	// SpawnPipe attaches the target to plain pipes. Use it on hosts without
	// pseudo-terminal support.
	SpawnPipe Spawner = term.StartPipe
)

// Config is the configuration of a [Session]. Zero values are replaced with
// defaults by [New].
type Config struct {
	// ProjectRoot is the directory of the target project. It must exist and
	// contain the [Config.Artifact].
	ProjectRoot string

	// Artifact is the path of the prebuilt artifact relative to ProjectRoot.
	// Defaults to [DefaultArtifact].
	Artifact string

	// Command is the command that builds and runs the target. Defaults to
	// "make -C <ProjectRoot> qemu". It is run with ProjectRoot as working
	// directory.
	Command []string

	// Env is added to the environment of the command, in the form
	// "key=value".
	Env []string

	// DefaultTimeout bounds [Session.Run] and [Session.WaitFor] unless the
	// given context has a deadline. Defaults to [DefaultTimeout].
	DefaultTimeout time.Duration

	// BootTimeout bounds the wait for the first prompt in [Session.Start].
	// Defaults to [DefaultBootTimeout].
	BootTimeout time.Duration

	// Verbose logs every sent command, every received output and every
	// failure including the output captured up to the failure.
	Verbose bool

	// Logger receives the verbose output and teardown errors. Defaults to
	// [slog.Default].
	Logger *slog.Logger

	// Transcript receives a raw copy of everything read from the target.
	Transcript io.Writer

	// KeepOnBootTimeout keeps the target running if the prompt is not seen
	// within the BootTimeout. The session stays [Booting] and the caller may
	// inspect the output with [Session.WaitFor], resume the boot with
	// [Session.Start] or give up with [Session.Stop]. By default, the target
	// is terminated on any start failure.
	KeepOnBootTimeout bool

	// Spawner starts the command. Defaults to [SpawnPTY].
	Spawner Spawner
}

func (c *Config) setDefaults() {
	if c.Artifact == "" {
		c.Artifact = DefaultArtifact
	}

	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = DefaultTimeout
	}

	if c.BootTimeout <= 0 {
		c.BootTimeout = DefaultBootTimeout
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	if c.Spawner == nil {
		c.Spawner = SpawnPTY
	}
}

// validate checks the project root and the artifact. It resolves the project
// root to an absolute path and sets the default command.
func (c *Config) validate() error {
	root, err := sys.AbsolutePath(c.ProjectRoot)
	if err != nil {
		return err //nolint:wrapcheck
	}

	err = sys.ValidateDir(root)
	if err != nil {
		return fmt.Errorf("project root: %w", err)
	}

	err = sys.ValidateFile(filepath.Join(root, c.Artifact))
	if err != nil {
		return fmt.Errorf("artifact %s (build the target first): %w",
			c.Artifact, err)
	}

	c.ProjectRoot = root

	if len(c.Command) == 0 {
		c.Command = []string{"make", "-C", root, "qemu"}
	}

	return nil
}
