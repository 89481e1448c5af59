// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aibor/virtsh/session"
	"golang.org/x/sync/errgroup"
)

const scriptComment = "#"

// parseScript returns the commands of a script. The format is one command
// per line. Empty lines and lines starting with "#" are skipped.
func parseScript(reader io.Reader) ([]string, error) {
	var commands []string

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, scriptComment) {
			continue
		}

		commands = append(commands, line)
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return commands, nil
}

func readScript(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close()

	return parseScript(file)
}

// runScripts runs each script in its own session. Up to jobs sessions run at
// the same time. The output of each script is written to out in the order of
// the scripts, once all are done.
func runScripts(
	ctx context.Context,
	cfg session.Config,
	scripts []string,
	jobs int,
	out io.Writer,
) error {
	outputs := make([]bytes.Buffer, len(scripts))
	errs := make([]error, len(scripts))

	eg := errgroup.Group{}
	eg.SetLimit(jobs)

	// Each script reports its own error, so a failing script does not hide
	// the errors of the others.
	for idx, script := range scripts {
		eg.Go(func() error {
			err := runScript(ctx, cfg, script, &outputs[idx])
			if err != nil {
				errs[idx] = fmt.Errorf("script %s: %w", script, err)
			}

			return nil
		})
	}

	_ = eg.Wait()

	for idx, script := range scripts {
		if len(scripts) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", script)
		}

		_, _ = outputs[idx].WriteTo(out)
	}

	return errors.Join(errs...)
}

func runScript(
	ctx context.Context,
	cfg session.Config,
	script string,
	out io.Writer,
) error {
	commands, err := readScript(script)
	if err != nil {
		return err
	}

	slog.Debug("Running script",
		slog.String("script", script),
		slog.Int("commands", len(commands)))

	return withSession(ctx, cfg, func(sess *session.Session) error {
		return runCommands(ctx, sess, commands, out)
	})
}
