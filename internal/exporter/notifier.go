package exporter

import (
	"context"
	"sync"

	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"go.uber.org/zap"
)

// NoticeKind identifies a user-visible notice
type NoticeKind string

const (
	NoticeNoData       NoticeKind = "no_data"
	NoticeExportFailed NoticeKind = "export_failed"
)

// Notice is a message meant for the person who asked for the export
type Notice struct {
	Kind       NoticeKind  `json:"kind"`
	Report     report.Kind `json:"report"`
	Identifier string      `json:"identifier"`
	Message    string      `json:"message"`
}

// Notifier delivers notices to the user
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// LogNotifier writes notices to the log. It is the notifier of the CLI.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notice
func (n *LogNotifier) Notify(_ context.Context, notice Notice) {
	fields := []zap.Field{
		zap.String("notice", string(notice.Kind)),
		zap.String("report", string(notice.Report)),
		zap.String("identifier", notice.Identifier),
	}
	if notice.Kind == NoticeExportFailed {
		n.logger.Error(notice.Message, fields...)
		return
	}
	n.logger.Warn(notice.Message, fields...)
}

// Collector keeps notices in memory so a request handler can return them
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify records the notice
func (c *Collector) Notify(_ context.Context, n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of what was collected
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type noticeKey struct{}

// WithNotifier attaches a per-call notifier to ctx. Notices go to both the
// exporter's notifier and this one.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, noticeKey{}, n)
}

func notifierFrom(ctx context.Context) Notifier {
	n, _ := ctx.Value(noticeKey{}).(Notifier)
	return n
}
