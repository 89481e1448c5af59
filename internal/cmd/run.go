// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/aibor/virtsh/session"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

// lockedWriter serializes writes of concurrent sessions.
type lockedWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (w *lockedWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.writer.Write(b) //nolint:wrapcheck
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	var transcript io.Writer

	if flags.TranscriptPath != "" {
		file, err := os.Create(flags.TranscriptPath)
		if err != nil {
			return fmt.Errorf("transcript: %w", err)
		}
		defer file.Close()

		slog.Debug("Writing transcript",
			slog.String("path", flags.TranscriptPath))

		transcript = &lockedWriter{writer: file}
	}

	sessionCfg := flags.sessionConfig(transcript)

	switch {
	case len(flags.Scripts) > 0:
		return runScripts(ctx, sessionCfg, flags.Scripts, int(flags.Jobs),
			cfg.Stdout)
	case len(flags.Commands) > 0:
		return withSession(ctx, sessionCfg, func(sess *session.Session) error {
			return runCommands(ctx, sess, flags.Commands, cfg.Stdout)
		})
	default:
		return withSession(ctx, sessionCfg, func(sess *session.Session) error {
			return runInteractive(ctx, sess, cfg.Stdin, cfg.Stdout)
		})
	}
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	// Command failures are logged already as they happen.
	if errors.Is(err, ErrStart) || !errors.Is(err, ErrCommandFailed) {
		slog.Error(err.Error())
		return -1
	}

	return 1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, defaultFlags().logLevel())

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.logLevel())

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return 0
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
