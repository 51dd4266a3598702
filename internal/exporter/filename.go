package exporter

import (
	"time"

	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"github.com/phanthanhphu/e-procurement-export/internal/storage"
)

const (
	// DefaultTimestampFormat is the Go layout of yyyyMMdd_HHmmss
	DefaultTimestampFormat = "20060102_150405"

	fileExtension     = ".xlsx"
	defaultIdentifier = "all"
)

// FileName builds <kind>_<identifier>[_<timestamp>].xlsx. The timestamp is
// only added for time-stamped variants.
func FileName(v report.Variant, identifier string, at time.Time, layout string) string {
	id := storage.SanitizeName(identifier)
	if id == "" {
		id = defaultIdentifier
	}

	name := string(v.Kind) + "_" + id
	if v.Timestamped {
		if layout == "" {
			layout = DefaultTimestampFormat
		}
		name += "_" + storage.SanitizeName(at.Format(layout))
	}
	return name + fileExtension
}
