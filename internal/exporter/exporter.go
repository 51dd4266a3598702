package exporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phanthanhphu/e-procurement-export/internal/models"
	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"github.com/phanthanhphu/e-procurement-export/internal/storage"
	"go.uber.org/zap"
)

// Status is the terminal state of one export call
type Status int

const (
	StatusExported Status = iota
	StatusEmpty
)

func (s Status) String() string {
	if s == StatusEmpty {
		return "empty"
	}
	return "exported"
}

const (
	messageNoData       = "no data to export"
	messageExportFailed = "export failed"
)

// Request is one "Export to spreadsheet" click
type Request struct {
	Kind       report.Kind
	Identifier string
	// Payload is the dataset JSON as fetched from the requisition backend
	Payload []byte
	// Title overrides the variant title, e.g. with the group name
	Title string
	// Signers override signer names by role title; unknown titles are appended
	Signers []report.SignatureRole
}

// Result describes a finished export
type Result struct {
	Status   Status
	FileName string
	Content  []byte
	Record   *models.ExportRecord
}

// Folders resolves the folder for a report kind
type Folders interface {
	EnsureKindFolder(kind string) (string, error)
}

// HistoryRecorder persists finished exports
type HistoryRecorder interface {
	Create(ctx context.Context, rec *models.ExportRecord) error
}

// Config holds exporter settings
type Config struct {
	Roles           []report.SignatureRole
	RoleWidth       int
	TimestampFormat string
}

// Exporter runs the export pipeline: normalize, plan, serialize, save, record
type Exporter struct {
	cfg        Config
	serializer report.Serializer
	files      storage.FileStorage
	folders    Folders
	history    HistoryRecorder
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures an Exporter
type Option func(*Exporter)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithHistory records every saved workbook
func WithHistory(h HistoryRecorder) Option {
	return func(e *Exporter) { e.history = h }
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(gen func() string) Option {
	return func(e *Exporter) { e.newID = gen }
}

// New creates a new Exporter
func New(cfg Config, serializer report.Serializer, files storage.FileStorage, folders Folders, notifier Notifier, logger *zap.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		cfg:        cfg,
		serializer: serializer,
		files:      files,
		folders:    folders,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs one export. An empty dataset is not an error: it yields
// StatusEmpty and a single NoticeNoData without touching the serializer.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	v, ok := report.LookupVariant(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, req.Kind)
	}

	ds, err := report.Normalize(req.Payload)
	if err != nil {
		return nil, err
	}

	if ds.Empty() {
		e.logger.Info("Nothing to export",
			zap.String("kind", string(v.Kind)),
			zap.String("identifier", req.Identifier))
		e.notify(ctx, Notice{Kind: NoticeNoData, Report: v.Kind, Identifier: req.Identifier, Message: messageNoData})
		return &Result{Status: StatusEmpty}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := report.BuildPlan(v, ds, report.PlanOptions{
		Title:     req.Title,
		Roles:     MergeSigners(e.cfg.Roles, req.Signers),
		RoleWidth: e.cfg.RoleWidth,
	})
	if err != nil {
		return nil, e.fail(ctx, v, req, fmt.Errorf("failed to plan workbook: %w", err))
	}

	content, err := e.serializer.Serialize(plan)
	if err != nil {
		return nil, e.fail(ctx, v, req, fmt.Errorf("failed to serialize workbook: %w", err))
	}

	at := e.now()
	fileName := FileName(v, req.Identifier, at, e.cfg.TimestampFormat)

	folder, err := e.folders.EnsureKindFolder(string(v.Kind))
	if err != nil {
		return nil, e.fail(ctx, v, req, err)
	}
	// Each export gets its own directory so a repeated file name never
	// overwrites the workbook an older history record points at.
	id := e.newID()
	fullPath := filepath.Join(folder, storage.SanitizeName(id), fileName)
	if err := e.files.SaveFileWithType(fullPath, content, storage.FileTypeExcel); err != nil {
		return nil, e.fail(ctx, v, req, err)
	}

	rec := &models.ExportRecord{
		ID:             id,
		Kind:           string(v.Kind),
		Identifier:     req.Identifier,
		FileName:       fileName,
		FilePath:       fullPath,
		RowCount:       plan.Bands.DataRows,
		DynamicColumns: plan.Layout.DynamicWidth,
		SizeBytes:      int64(len(content)),
		CreatedAt:      at,
	}
	if e.history != nil {
		// The workbook is already on disk; a missing history row is not worth failing the download.
		if err := e.history.Create(ctx, rec); err != nil {
			e.logger.Error("Failed to record export history",
				zap.String("file_name", fileName),
				zap.Error(err))
		}
	}

	e.logger.Info("Export completed",
		zap.String("kind", string(v.Kind)),
		zap.String("identifier", req.Identifier),
		zap.String("file_name", fileName),
		zap.Int("rows", rec.RowCount),
		zap.Int("dynamic_columns", rec.DynamicColumns))

	return &Result{
		Status:   StatusExported,
		FileName: fileName,
		Content:  content,
		Record:   rec,
	}, nil
}

func (e *Exporter) fail(ctx context.Context, v report.Variant, req Request, err error) error {
	e.logger.Error("Export failed",
		zap.String("kind", string(v.Kind)),
		zap.String("identifier", req.Identifier),
		zap.Error(err))
	e.notify(ctx, Notice{Kind: NoticeExportFailed, Report: v.Kind, Identifier: req.Identifier, Message: messageExportFailed})
	return fmt.Errorf("%w: %w", ErrExportFailed, err)
}

func (e *Exporter) notify(ctx context.Context, n Notice) {
	if e.notifier != nil {
		e.notifier.Notify(ctx, n)
	}
	if extra := notifierFrom(ctx); extra != nil {
		extra.Notify(ctx, n)
	}
}

// MergeSigners applies per-request signer names to the configured roles.
// Matching is by title, case-insensitive; overrides with an unknown title are
// appended in order.
func MergeSigners(base, overrides []report.SignatureRole) []report.SignatureRole {
	if len(overrides) == 0 {
		return base
	}
	if base == nil {
		base = report.DefaultSignatureRoles()
	}

	merged := make([]report.SignatureRole, len(base))
	copy(merged, base)
	for _, o := range overrides {
		found := false
		for i := range merged {
			if strings.EqualFold(merged[i].Title, o.Title) {
				merged[i].Name = o.Name
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, o)
		}
	}
	return merged
}

// IsClientError reports whether err was caused by the request itself
func IsClientError(err error) bool {
	return errors.Is(err, report.ErrInvalidDataset) || errors.Is(err, ErrUnknownReport)
}
