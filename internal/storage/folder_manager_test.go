package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFolderManager_EnsureKindFolder(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	fm := NewFolderManager(tempDir, logger)

	t.Run("creates folder for report kind", func(t *testing.T) {
		folderPath, err := fm.EnsureKindFolder("monthly-comparison")

		require.NoError(t, err)
		assert.DirExists(t, folderPath)
		assert.Equal(t, filepath.Join(tempDir, "monthly-comparison"), folderPath)
	})

	t.Run("returns existing folder path if folder already exists", func(t *testing.T) {
		folderPath1, err := fm.EnsureKindFolder("summary")
		require.NoError(t, err)

		folderPath2, err := fm.EnsureKindFolder("summary")
		require.NoError(t, err)
		assert.Equal(t, folderPath1, folderPath2)
	})

	t.Run("returns error for empty kind", func(t *testing.T) {
		_, err := fm.EnsureKindFolder("")
		assert.True(t, errors.Is(err, ErrEmptyFolderName))

		_, err = fm.EnsureKindFolder("../..")
		assert.True(t, errors.Is(err, ErrEmptyFolderName))
	})
}

func TestFolderManager_KindFolderPath(t *testing.T) {
	tempDir := t.TempDir()
	fm := NewFolderManager(tempDir, zap.NewNop())

	path := fm.KindFolderPath("comparison")

	assert.Equal(t, filepath.Join(tempDir, "comparison"), path)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, fm.FolderExists("comparison"))

	_, err = fm.EnsureKindFolder("comparison")
	require.NoError(t, err)
	assert.True(t, fm.FolderExists("comparison"))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps valid characters",
			input:    "GRP-2024_07",
			expected: "GRP-2024_07",
		},
		{
			name:     "removes path separators",
			input:    "../../../etc/passwd",
			expected: "etcpasswd",
		},
		{
			name:     "removes special characters",
			input:    "test<>:\"|?*file",
			expected: "testfile",
		},
		{
			name:     "collapses whitespace into hyphens",
			input:    "  Office   supplies Q3 ",
			expected: "Office-supplies-Q3",
		},
		{
			name:     "keeps accented letters",
			input:    "Nhóm Văn phòng",
			expected: "Nhóm-Văn-phòng",
		},
		{
			name:     "handles UUID format",
			input:    "6A3847A3-14F5-4C7E-A5D1-26C7FB0BF6EF",
			expected: "6A3847A3-14F5-4C7E-A5D1-26C7FB0BF6EF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestFolderManager_PathTraversalPrevention(t *testing.T) {
	tempDir := t.TempDir()
	fm := NewFolderManager(tempDir, zap.NewNop())

	for _, malicious := range []string{"../../../etc/passwd", "/etc/passwd", `..\..\windows`} {
		folderPath, err := fm.EnsureKindFolder(malicious)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(folderPath, tempDir+string(filepath.Separator)))
		assert.NotContains(t, strings.TrimPrefix(folderPath, tempDir), "..")
	}
}
