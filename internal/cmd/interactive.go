// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/virtsh/session"
	"golang.org/x/term"
)

// isTerminal returns true if the reader is a terminal.
func isTerminal(reader io.Reader) bool {
	file, ok := reader.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}

// runInteractive runs every line read from in as command until in ends or
// the session is not usable anymore. If in is a terminal, the prompt is
// printed before each line.
func runInteractive(
	ctx context.Context,
	sess *session.Session,
	in io.Reader,
	out io.Writer,
) error {
	showPrompt := isTerminal(in)

	var errs []error

	scanner := bufio.NewScanner(in)

	for {
		if showPrompt {
			fmt.Fprint(out, session.Prompt)
		}

		if !scanner.Scan() {
			break
		}

		err := runCommand(ctx, sess, scanner.Text(), out)
		if err != nil {
			slog.Error(err.Error(), slog.String("session", sess.ID()))
			errs = append(errs, err)

			if sess.State() != session.Ready {
				break
			}
		}
	}

	if showPrompt {
		fmt.Fprintln(out)
	}

	err := scanner.Err()
	if err != nil {
		errs = append(errs, fmt.Errorf("read input: %w", err))
	}

	return errors.Join(errs...)
}
