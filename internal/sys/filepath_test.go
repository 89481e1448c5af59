// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/virtsh/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsolutePath(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := sys.AbsolutePath("")
		require.ErrorIs(t, err, sys.ErrEmptyPath)
	})

	t.Run("relative", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		path, err := sys.AbsolutePath("some/file")
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(wd, "some/file"), path)
	})

	t.Run("absolute", func(t *testing.T) {
		path, err := sys.AbsolutePath("/some/../file")
		require.NoError(t, err)

		assert.Equal(t, "/file", path)
	})
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")

	require.NoError(t, os.WriteFile(file, []byte("data"), 0o600))

	tests := []struct {
		name        string
		validate    func(string) error
		path        string
		expectedErr error
	}{
		{
			name:     "dir is dir",
			validate: sys.ValidateDir,
			path:     dir,
		},
		{
			name:        "file is not dir",
			validate:    sys.ValidateDir,
			path:        file,
			expectedErr: sys.ErrNotDirectory,
		},
		{
			name:        "missing dir",
			validate:    sys.ValidateDir,
			path:        filepath.Join(dir, "missing"),
			expectedErr: os.ErrNotExist,
		},
		{
			name:     "file is file",
			validate: sys.ValidateFile,
			path:     file,
		},
		{
			name:        "dir is not file",
			validate:    sys.ValidateFile,
			path:        dir,
			expectedErr: sys.ErrNotRegularFile,
		},
		{
			name:        "missing file",
			validate:    sys.ValidateFile,
			path:        filepath.Join(dir, "missing"),
			expectedErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.path)
			if tt.expectedErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
