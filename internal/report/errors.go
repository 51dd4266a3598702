package report

import "errors"

var (
	// Input errors
	ErrInvalidDataset = errors.New("dataset is not valid JSON")

	// Layout errors
	ErrInvalidSchema = errors.New("invalid column schema")

	// Serialization errors
	ErrEmptyPlan = errors.New("workbook plan has no rows")
)
