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
	"regexp"

	"github.com/aibor/virtsh/session"
)

var promptRE = regexp.MustCompile(regexp.QuoteMeta(session.Prompt))

// withSession starts a session, calls fn with it and stops it afterwards.
//
// Start errors are wrapped with [ErrStart]. If the boot timed out and the
// config keeps the target on boot timeout, the boot is resumed until it
// completes or ctx is done.
func withSession(
	ctx context.Context,
	cfg session.Config,
	fn func(*session.Session) error,
) error {
	sess := session.New(cfg)
	defer sess.Stop() //nolint:errcheck

	err := sess.Start(ctx)
	for cfg.KeepOnBootTimeout && errors.Is(err, session.ErrBootTimeout) {
		slog.Warn("Boot not completed yet, keep waiting",
			slog.String("session", sess.ID()),
			slog.Duration("timeout", sess.Config().BootTimeout))

		err = sess.Start(ctx)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}

	slog.Debug("Session ready",
		slog.String("session", sess.ID()),
		slog.String("root", sess.Config().ProjectRoot))

	return fn(sess)
}

// runCommand runs a single command and writes its output to out.
//
// If the command timed out, the prompt of the timed out command is awaited
// once more, so the next command does not see it as its own. If this fails
// as well, the session is stopped.
func runCommand(
	ctx context.Context,
	sess *session.Session,
	command string,
	out io.Writer,
) error {
	output, err := sess.Run(ctx, command)
	if err != nil {
		if errors.Is(err, session.ErrCommandTimeout) {
			_, syncErr := sess.WaitFor(ctx, promptRE)
			if syncErr != nil {
				slog.Debug("Failed to resync with prompt",
					slog.String("session", sess.ID()),
					slog.Any("error", syncErr))

				_ = sess.Stop()
			}
		}

		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	if output != "" {
		fmt.Fprintln(out, output)
	}

	return nil
}

// runCommands runs the commands in order. Failing commands are logged and do
// not prevent further commands unless the session is not usable anymore.
func runCommands(
	ctx context.Context,
	sess *session.Session,
	commands []string,
	out io.Writer,
) error {
	var errs []error

	for _, command := range commands {
		err := runCommand(ctx, sess, command, out)
		if err != nil {
			slog.Error(err.Error(), slog.String("session", sess.ID()))
			errs = append(errs, err)

			if sess.State() != session.Ready {
				break
			}
		}
	}

	return errors.Join(errs...)
}
