// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aibor/virtsh/session"
)

const (
	name = "virtsh"

	jobsDefault = 1
	jobsMin     = 1
	jobsMax     = 16

	usageMessage = `Usage of 'virtsh':
    virtsh [flags...] [script...]

Boots the xv6 project in -root with "make qemu" and runs shell commands in it.

Run commands given by flag:
	virtsh -root ../xv6-riscv -c "echo hello" -c ls

Run script files, one command per line, each in its own session:
	virtsh -root ../xv6-riscv -jobs 4 tests/*.sh

Without scripts and commands, commands are read from stdin.

All virtsh flags can also be provided via environment variable VIRTSH_ARGS:
	VIRTSH_ARGS="-root=/src/xv6 -verbose" virtsh script.sh

All virtsh flags can also be provided via file ./.virtsh-args, with one
argument per line.
`
)

type flags struct {
	ProjectRoot       string
	Artifact          string
	Command           []string
	Timeout           time.Duration
	BootTimeout       time.Duration
	Commands          []string
	Scripts           []string
	Jobs              uint64
	Pipe              bool
	KeepOnBootTimeout bool
	TranscriptPath    string
	Verbose           bool
	Debug             bool
	Version           bool
}

func defaultFlags() *flags {
	return &flags{
		ProjectRoot: ".",
		Artifact:    session.DefaultArtifact,
		Timeout:     session.DefaultTimeout,
		BootTimeout: session.DefaultBootTimeout,
		Jobs:        jobsDefault,
	}
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := defaultFlags()
	flagSet := flags.newFlagSet(output)

	err := flagSet.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}

		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	if flags.Version {
		return flags, nil
	}

	flags.Scripts = flagSet.Args()

	if len(flags.Scripts) > 0 && len(flags.Commands) > 0 {
		return nil, fail(flagSet, "-c and scripts are mutually exclusive", nil)
	}

	return flags, nil
}

func (f *flags) newFlagSet(output io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), usageMessage)
		fmt.Fprintln(flagSet.Output(), "\nFlags:")
		flagSet.PrintDefaults()
	}

	flagSet.Var(
		(*FilePath)(&f.ProjectRoot),
		"root",
		"xv6 project directory",
	)

	flagSet.StringVar(
		&f.Artifact,
		"artifact",
		f.Artifact,
		"prebuilt kernel, relative to the project directory",
	)

	flagSet.Var(
		(*CommandLine)(&f.Command),
		"command",
		"command that boots the target (default \"make -C <root> qemu\")",
	)

	flagSet.DurationVar(
		&f.Timeout,
		"timeout",
		f.Timeout,
		"timeout for a single command",
	)

	flagSet.DurationVar(
		&f.BootTimeout,
		"bootTimeout",
		f.BootTimeout,
		"timeout for the boot until the first prompt",
	)

	flagSet.Var(
		(*StringList)(&f.Commands),
		"c",
		"command to run. Flag may be used more than once.",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.Jobs,
			Lower: jobsMin,
			Upper: jobsMax,
		},
		"jobs",
		"number of scripts run at the same time",
	)

	flagSet.BoolVar(
		&f.Pipe,
		"pipe",
		f.Pipe,
		"attach the target to pipes instead of a pseudo-terminal",
	)

	flagSet.BoolVar(
		&f.KeepOnBootTimeout,
		"keepOnBootTimeout",
		f.KeepOnBootTimeout,
		"keep waiting for the prompt after a boot timeout instead of failing",
	)

	flagSet.Var(
		(*FilePath)(&f.TranscriptPath),
		"transcript",
		"file to write the raw output of the target to",
	)

	flagSet.BoolVar(
		&f.Verbose,
		"verbose",
		f.Verbose,
		"log every command, its output and failures with captured output",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	return flagSet
}

func (f *flags) logLevel() slog.Level {
	switch {
	case f.Debug:
		return slog.LevelDebug
	case f.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// sessionConfig returns the [session.Config] for the flags.
func (f *flags) sessionConfig(transcript io.Writer) session.Config {
	cfg := session.Config{
		ProjectRoot:       f.ProjectRoot,
		Artifact:          f.Artifact,
		Command:           f.Command,
		DefaultTimeout:    f.Timeout,
		BootTimeout:       f.BootTimeout,
		Verbose:           f.Verbose,
		Logger:            slog.Default(),
		Transcript:        transcript,
		KeepOnBootTimeout: f.KeepOnBootTimeout,
	}

	if f.Pipe {
		cfg.Spawner = session.SpawnPipe
	}

	return cfg
}

// fail fails like flag does. It prints the error first and then usage.
func fail(flagSet *flag.FlagSet, msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(flagSet.Output(), err.Error())

	flagSet.Usage()

	return err
}
