package models

import "time"

// ExportRecord is one successfully saved workbook
type ExportRecord struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Identifier     string    `json:"identifier"`
	FileName       string    `json:"file_name"`
	FilePath       string    `json:"-"`
	RowCount       int       `json:"row_count"`
	DynamicColumns int       `json:"dynamic_columns"`
	SizeBytes      int64     `json:"size_bytes"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExportPage is a page of export history, newest first
type ExportPage struct {
	Items  []*ExportRecord `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
