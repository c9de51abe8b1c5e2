package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/interaction"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/export"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/reorder"
)

// LoadBase replaces the base document. The page geometry follows the first
// page of the new document. On failure the previous base is kept.
func (s *Session) LoadBase(data []byte) (*pdf.BaseDocument, error) {
	base, err := s.validator.LoadBase(data)
	if err != nil {
		s.logger.Warn("base document rejected", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
	s.page = base.Page
	s.logger.Info("base document loaded",
		zap.Int("pages", base.PageCount),
		zap.Float64("width", base.Page.Width),
		zap.Float64("height", base.Page.Height))
	s.exportInBackground()
	return base, nil
}

// ClearBase drops the base document and returns to a blank page
func (s *Session) ClearBase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = nil
	s.page = s.blank
	s.exportInBackground()
}

// Export renders the current design and waits for the result. A failed
// render is returned as the error.
func (s *Session) Export(ctx context.Context) (export.Result, error) {
	if s.dispatcher == nil {
		return export.Result{}, ErrNoExporter
	}
	s.mu.Lock()
	req := s.request()
	s.mu.Unlock()
	res, err := s.dispatcher.Export(ctx, req)
	if err != nil {
		return res, err
	}
	return res, res.Err
}

// Document returns the most recently adopted export
func (s *Session) Document() (*export.Document, uint64) {
	if s.dispatcher == nil {
		return nil, 0
	}
	return s.dispatcher.Latest()
}

// request snapshots the design, must be called with mu held
func (s *Session) request() export.Request {
	req := export.Request{
		Fields: s.fields.Clone(),
		Config: s.config,
		Page:   s.page,
	}
	if s.base != nil {
		req.Base = s.base.Data
		req.BasePage = s.base.Page
	}
	return req
}

// exportInBackground must be called with mu held
func (s *Session) exportInBackground() {
	if !s.autoExport || s.dispatcher == nil {
		return
	}
	token := s.dispatcher.Submit(s.request())
	s.logger.Debug("export submitted", zap.Uint64("token", token))
}

// Snapshot is a read-only view of the whole session
type Snapshot struct {
	Fields      form.List         `json:"fields"`
	TextConfig  form.TextConfig   `json:"textConfig"`
	Page        coords.Page       `json:"page"`
	Zoom        coords.Zoom       `json:"zoom"`
	Drag        interaction.State `json:"drag"`
	Layout      reorder.Policy    `json:"layout"`
	Base        *pdf.BaseDocument `json:"base,omitempty"`
	ExportToken uint64            `json:"exportToken"`
	ExportedAt  *time.Time        `json:"exportedAt,omitempty"`
}

// State returns a snapshot of the session
func (s *Session) State() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Fields:     s.fields.Clone(),
		TextConfig: s.config,
		Page:       s.page,
		Zoom:       s.zoom,
		Drag:       s.drag,
		Layout:     s.policy,
		Base:       s.base,
	}
	s.mu.Unlock()

	if doc, token := s.Document(); doc != nil {
		snap.ExportToken = token
		at := doc.CreatedAt
		snap.ExportedAt = &at
	}
	return snap
}
