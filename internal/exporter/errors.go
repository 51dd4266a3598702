package exporter

import "errors"

var (
	// ErrUnknownReport is returned for a report kind with no registered variant
	ErrUnknownReport = errors.New("unknown report kind")

	// ErrExportFailed wraps any failure after the dataset was accepted
	ErrExportFailed = errors.New("export failed")
)
