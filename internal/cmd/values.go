// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"strings"

	"github.com/aibor/virtsh/internal/sys"
)

// FilePath is a [flag.Value] that resolves the given path to an absolute one.
type FilePath string

func (f *FilePath) String() string {
	return string(*f)
}

func (f *FilePath) Set(s string) error {
	path, err := sys.AbsolutePath(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	*f = FilePath(path)

	return nil
}

// StringList is a [flag.Value] that collects all values of a flag given more
// than once. Empty values are collected as well.
type StringList []string

func (l *StringList) String() string {
	return strings.Join(*l, "; ")
}

func (l *StringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// CommandLine is a [flag.Value] that splits a command line into its white
// space separated fields. No quoting is supported.
type CommandLine []string

func (c *CommandLine) String() string {
	return strings.Join(*c, " ")
}

func (c *CommandLine) Set(s string) error {
	*c = strings.Fields(s)
	return nil
}
