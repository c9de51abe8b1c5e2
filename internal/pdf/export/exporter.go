// Package export turns a field design into an interactive PDF.
//
// The Exporter lays the design out, flips the plan into PDF space and hands
// it to a Backend. Unsupported fonts never fail an export: they are replaced
// by the default font and reported as warnings on the Document.
package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/layout"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/metrics"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
)

// Request is a snapshot of the design to export
type Request struct {
	Fields form.List
	Config form.TextConfig
	// Page is the blank page geometry; ignored when Base is set
	Page coords.Page
	// Base is an optional PDF whose first page receives the fields
	Base []byte
	// BasePage is the first page geometry of Base
	BasePage coords.Page
}

// Job is what a Backend renders: a plan in the export frame
type Job struct {
	Plan layout.Plan
	Base []byte
}

// Backend creates the PDF for a job
type Backend interface {
	Render(ctx context.Context, job Job) ([]byte, error)
}

// Document is a finished export
type Document struct {
	Data      []byte        `json:"-"`
	Page      coords.Page   `json:"page"`
	Fields    int           `json:"fields"`
	Warnings  []string      `json:"warnings,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Exporter runs the layout and a Backend
type Exporter struct {
	backend Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewExporter creates an Exporter. A nil logger discards output and nil
// metrics record nothing.
func NewExporter(backend Backend, logger *zap.Logger, m *metrics.Metrics) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{backend: backend, logger: logger, metrics: m}
}

// Export renders req. The returned error is an ExportFailed FormError.
func (e *Exporter) Export(ctx context.Context, req Request) (*Document, error) {
	start := time.Now()
	doc, err := e.export(ctx, req)
	e.metrics.RecordExport(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	doc.Duration = time.Since(start)
	return doc, nil
}

func (e *Exporter) export(ctx context.Context, req Request) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeExportFailed, err)
	}

	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeExportFailed, fmt.Errorf("text config: %w", err))
	}

	page := req.Page
	if len(req.Base) > 0 {
		page = req.BasePage
	}
	plan, err := layout.Build(req.Fields, cfg, page).ForExport()
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeExportFailed, err)
	}

	warnings := pdferrors.NewErrorCollection()
	fallbacks := 0
	for _, pl := range plan.Placements {
		for _, font := range pl.Fallbacks {
			fallbacks++
			warnings.Add(pdferrors.New(pdferrors.ErrorTypeResolutionFailure,
				fmt.Sprintf("unsupported font %q, using %s", font, form.DefaultFont)).WithField(pl.FieldID))
			e.logger.Warn("font fallback",
				zap.String("field", pl.FieldID),
				zap.String("font", string(font)),
				zap.String("fallback", string(form.DefaultFont)))
		}
	}
	e.metrics.RecordFontFallbacks(fallbacks)

	data, err := e.backend.Render(ctx, Job{Plan: plan, Base: req.Base})
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeExportFailed, fmt.Errorf("render: %w", err))
	}

	e.logger.Debug("export rendered",
		zap.Int("fields", len(plan.Placements)),
		zap.Int("bytes", len(data)),
		zap.Bool("base", len(req.Base) > 0))

	return &Document{
		Data:      data,
		Page:      page,
		Fields:    len(plan.Placements),
		Warnings:  warnings.Messages(),
		CreatedAt: time.Now(),
	}, nil
}
