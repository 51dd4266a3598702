package storage

import "errors"

var (
	// ErrPathEscapesBase is returned when a path resolves outside the storage root
	ErrPathEscapesBase = errors.New("path escapes base directory")

	// ErrEmptyFolderName is returned when a folder name sanitizes to nothing
	ErrEmptyFolderName = errors.New("empty folder name")
)
