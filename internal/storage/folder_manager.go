package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^\p{L}\p{N}\-_]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// FolderManager keeps one folder per report kind under the output root
type FolderManager struct {
	baseDir string
	logger  *zap.Logger
}

// NewFolderManager creates a new FolderManager
func NewFolderManager(baseDir string, logger *zap.Logger) *FolderManager {
	return &FolderManager{
		baseDir: baseDir,
		logger:  logger,
	}
}

// EnsureKindFolder creates {baseDir}/{kind}/ and returns its path
func (m *FolderManager) EnsureKindFolder(kind string) (string, error) {
	safeName := SanitizeName(kind)
	if safeName == "" {
		return "", fmt.Errorf("cannot create folder for %q: %w", kind, ErrEmptyFolderName)
	}

	folderPath := filepath.Join(m.baseDir, safeName)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		m.logger.Error("Failed to create report folder",
			zap.String("kind", kind),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	m.logger.Debug("Report folder ready",
		zap.String("kind", kind),
		zap.String("folder_path", folderPath))

	return folderPath, nil
}

// KindFolderPath returns the folder for a report kind without creating it
func (m *FolderManager) KindFolderPath(kind string) string {
	return filepath.Join(m.baseDir, SanitizeName(kind))
}

// FolderExists checks if the kind folder already exists
func (m *FolderManager) FolderExists(kind string) bool {
	info, err := os.Stat(m.KindFolderPath(kind))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// SanitizeName returns a filesystem-safe version of name. Whitespace runs
// become a single hyphen; path separators and anything else outside letters,
// digits, '-' and '_' are removed.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-")
	return unsafeNameChars.ReplaceAllString(name, "")
}
