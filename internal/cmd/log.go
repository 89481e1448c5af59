// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

// setupLogging sets the default logger to a text handler on writer.
//
// Timestamps are only logged at debug level. Verbose session traces stay
// readable next to the command output that way.
func setupLogging(writer io.Writer, level slog.Level) {
	options := &slog.HandlerOptions{
		Level: level,
	}

	if level > slog.LevelDebug {
		options.ReplaceAttr = dropTime
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(writer, options)))
}

func dropTime(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 && attr.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return attr
}
