package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phanthanhphu/e-procurement-export/internal/models"
	"go.uber.org/zap"
)

// ExportRepository handles export history database operations
type ExportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExportRepository creates a new export history repository
func NewExportRepository(db *sql.DB, logger *zap.Logger) *ExportRepository {
	return &ExportRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an export record
func (r *ExportRepository) Create(ctx context.Context, rec *models.ExportRecord) error {
	query := `
		INSERT INTO export_history (
			id, kind, identifier, file_name, file_path,
			row_count, dynamic_columns, size_bytes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Kind,
		rec.Identifier,
		rec.FileName,
		rec.FilePath,
		rec.RowCount,
		rec.DynamicColumns,
		rec.SizeBytes,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create export record", zap.String("id", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to create export record: %w", err)
	}

	return nil
}

// GetByID retrieves an export record. Returns nil, nil when none exists.
func (r *ExportRepository) GetByID(ctx context.Context, id string) (*models.ExportRecord, error) {
	query := `
		SELECT id, kind, identifier, file_name, file_path,
			row_count, dynamic_columns, size_bytes, created_at
		FROM export_history
		WHERE id = ?
	`

	rec, err := scanExport(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get export record", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get export record: %w", err)
	}

	return rec, nil
}

// List returns export records newest first
func (r *ExportRepository) List(ctx context.Context, limit, offset int) (*models.ExportPage, error) {
	page := &models.ExportPage{
		Items:  []*models.ExportRecord{},
		Limit:  limit,
		Offset: offset,
	}

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM export_history").Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count export records: %w", err)
	}

	query := `
		SELECT id, kind, identifier, file_name, file_path,
			row_count, dynamic_columns, size_bytes, created_at
		FROM export_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list export records", zap.Error(err))
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		page.Items = append(page.Items, rec)
	}

	return page, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExport(row rowScanner) (*models.ExportRecord, error) {
	var rec models.ExportRecord
	err := row.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.Identifier,
		&rec.FileName,
		&rec.FilePath,
		&rec.RowCount,
		&rec.DynamicColumns,
		&rec.SizeBytes,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
