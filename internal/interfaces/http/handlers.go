package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phanthanhphu/e-procurement-export/internal/exporter"
	"github.com/phanthanhphu/e-procurement-export/internal/models"
	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"github.com/phanthanhphu/e-procurement-export/internal/storage"
	"github.com/phanthanhphu/e-procurement-export/pkg/utils"
)

const (
	version          = "1.0.0"
	defaultPageLimit = 20
)

// ExportService runs one export
type ExportService interface {
	Export(ctx context.Context, req exporter.Request) (*exporter.Result, error)
}

// HistoryStore reads export history
type HistoryStore interface {
	List(ctx context.Context, limit, offset int) (*models.ExportPage, error)
	GetByID(ctx context.Context, id string) (*models.ExportRecord, error)
}

// FileReader reads saved workbooks
type FileReader interface {
	ReadFile(fullPath string) ([]byte, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	exports         ExportService
	history         HistoryStore
	files           FileReader
	maxPayloadBytes int64
	logger          *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(exports ExportService, history HistoryStore, files FileReader, maxPayloadBytes int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		exports:         exports,
		history:         history,
		files:           files,
		maxPayloadBytes: maxPayloadBytes,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ReportResponse describes one available report kind
type ReportResponse struct {
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	DynamicGroup string `json:"dynamic_group"`
	Source       string `json:"source"`
	Timestamped  bool   `json:"timestamped"`
}

// ListExportsRequest represents query parameters for listing exports
type ListExportsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   version,
		},
	})
}

// ListReports handles GET /api/reports
func (h *Handlers) ListReports(c *gin.Context) {
	variants := report.Variants()
	reports := make([]ReportResponse, 0, len(variants))
	for _, v := range variants {
		reports = append(reports, ReportResponse{
			Kind:         string(v.Kind),
			Title:        v.Title,
			DynamicGroup: v.Schema.DynamicGroup,
			Source:       v.Source.String(),
			Timestamped:  v.Timestamped,
		})
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    reports,
	})
}

// Export handles POST /api/reports/:kind/export?id=
func (h *Handlers) Export(c *gin.Context) {
	kind := report.Kind(c.Param("kind"))
	if _, ok := report.LookupVariant(kind); !ok {
		h.fail(c, http.StatusNotFound, "unknown report kind")
		return
	}

	identifier := utils.SanitizeString(c.Query("id"))
	if err := utils.ValidateIdentifier(identifier); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	signers, err := parseSigners(c.QueryArray("signers"))
	if err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, "dataset too large")
			return
		}
		h.fail(c, http.StatusBadRequest, "failed to read dataset")
		return
	}

	notices := &exporter.Collector{}
	ctx := exporter.WithNotifier(c.Request.Context(), notices)

	result, err := h.exports.Export(ctx, exporter.Request{
		Kind:       kind,
		Identifier: identifier,
		Payload:    body,
		Title:      utils.SanitizeString(c.Query("title")),
		Signers:    signers,
	})
	switch {
	case errors.Is(err, exporter.ErrUnknownReport):
		h.fail(c, http.StatusNotFound, "unknown report kind")
		return
	case errors.Is(err, report.ErrInvalidDataset):
		h.fail(c, http.StatusBadRequest, "invalid dataset")
		return
	case err != nil:
		h.logger.Error("Export request failed",
			zap.String("kind", string(kind)),
			zap.String("identifier", identifier),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Data:    notices.Notices(),
			Error:   "export failed",
		})
		return
	}

	if result.Status == exporter.StatusEmpty {
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    notices.Notices(),
			Error:   "no data to export",
		})
		return
	}

	if result.Record != nil {
		c.Header("X-Export-ID", result.Record.ID)
	}
	h.sendWorkbook(c, result.FileName, result.Content)
}

// ListExports handles GET /api/exports
func (h *Handlers) ListExports(c *gin.Context) {
	req := ListExportsRequest{Limit: defaultPageLimit}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if err := utils.ValidatePage(req.Limit, req.Offset); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.history.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Failed to list exports", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, "failed to retrieve exports")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    page,
	})
}

// DownloadExport handles GET /api/exports/:id/download
func (h *Handlers) DownloadExport(c *gin.Context) {
	id := c.Param("id")

	rec, err := h.history.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get export", zap.String("id", id), zap.Error(err))
		h.fail(c, http.StatusInternalServerError, "failed to retrieve export")
		return
	}
	if rec == nil {
		h.fail(c, http.StatusNotFound, "export not found")
		return
	}

	content, err := h.files.ReadFile(rec.FilePath)
	if err != nil {
		h.logger.Warn("Export file unavailable",
			zap.String("id", id),
			zap.String("path", rec.FilePath),
			zap.Error(err))
		h.fail(c, http.StatusGone, "export file no longer available")
		return
	}

	h.sendWorkbook(c, rec.FileName, content)
}

func (h *Handlers) sendWorkbook(c *gin.Context, fileName string, content []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	c.Data(http.StatusOK, storage.FileTypeExcel.ContentType(), content)
}

func (h *Handlers) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{
		Success: false,
		Error:   msg,
	})
}

// parseSigners reads "Title=Name" pairs
func parseSigners(values []string) ([]report.SignatureRole, error) {
	var roles []report.SignatureRole
	for _, v := range values {
		title, name, ok := strings.Cut(v, "=")
		title = strings.TrimSpace(utils.SanitizeString(title))
		if !ok || title == "" {
			return nil, fmt.Errorf("invalid signer %q, expected Title=Name", v)
		}
		roles = append(roles, report.SignatureRole{
			Title: title,
			Name:  strings.TrimSpace(utils.SanitizeString(name)),
		})
	}
	return roles, nil
}
