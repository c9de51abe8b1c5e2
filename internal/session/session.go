// Package session owns the design being edited: the field list, the shared
// text config, the page, the zoom and the drag in progress.
//
// Every mutation runs under one mutex, computes the complete next list
// before adopting it, and then persists and re-exports in the background.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/interaction"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/layout"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/metrics"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/overlay"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/export"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/reorder"
)

// defaultMaxBaseSize caps base documents when no Validator is supplied
const defaultMaxBaseSize = 100 * 1024 * 1024

// ErrNoExporter is returned by Export when the session has no dispatcher
var ErrNoExporter = errors.New("session has no exporter")

// Loader restores persisted state
type Loader interface {
	LoadFields(ctx context.Context) form.List
	LoadTextConfig(ctx context.Context) form.TextConfig
}

// Persister saves state without blocking the caller
type Persister interface {
	SaveFields(fields form.List)
	SaveTextConfig(cfg form.TextConfig)
}

// Options wire a Session to its collaborators. Every member is optional.
type Options struct {
	Page       coords.Page
	Policy     reorder.Policy
	Creator    *form.Creator
	Loader     Loader
	Persister  Persister
	Dispatcher *export.Dispatcher
	Validator  *pdf.Validator
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	// AutoExport submits a fresh export after every change
	AutoExport bool
}

// Session is the single owner of a design
type Session struct {
	mu sync.Mutex

	fields form.List
	config form.TextConfig
	page   coords.Page
	blank  coords.Page
	zoom   coords.Zoom
	drag   interaction.State
	policy reorder.Policy
	base   *pdf.BaseDocument

	creator    *form.Creator
	persister  Persister
	dispatcher *export.Dispatcher
	validator  *pdf.Validator
	logger     *zap.Logger
	metrics    *metrics.Metrics
	autoExport bool
}

// New creates a session, restoring the design from opts.Loader when set
func New(ctx context.Context, opts Options) (*Session, error) {
	page := opts.Page
	if page == (coords.Page{}) {
		page = coords.LetterPage()
	}
	if !page.Valid() {
		return nil, fmt.Errorf("invalid page geometry %.2fx%.2f", page.Width, page.Height)
	}
	policy := opts.Policy
	if policy == (reorder.Policy{}) {
		policy = reorder.DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		fields:     form.List{},
		config:     form.DefaultTextConfig(),
		page:       page,
		blank:      page,
		zoom:       coords.DefaultZoom,
		drag:       interaction.Idle(),
		policy:     policy,
		creator:    opts.Creator,
		persister:  opts.Persister,
		dispatcher: opts.Dispatcher,
		validator:  opts.Validator,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		autoExport: opts.AutoExport,
	}
	if s.creator == nil {
		s.creator = form.NewCreator()
	}
	if s.validator == nil {
		s.validator = pdf.NewValidator(defaultMaxBaseSize)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if opts.Loader != nil {
		s.fields = opts.Loader.LoadFields(ctx)
		s.config = opts.Loader.LoadTextConfig(ctx)
		s.logger.Info("restored design",
			zap.Int("fields", len(s.fields)),
			zap.String("font", string(s.config.Font)))
	}
	s.metrics.SetFields(len(s.fields))
	return s, nil
}

// AddField appends a new field of type t at the next stacking slot
func (s *Session) AddField(t form.FieldType) (form.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add("add", t, nil)
}

// AddFieldAt creates a field anchored at a screen point of the canvas. The
// explicit position is kept even in stacked mode.
func (s *Session) AddFieldAt(t form.FieldType, at coords.ScreenPoint) (form.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := coords.ToDocument(at, s.zoom)
	return s.add("add_at", t, &p)
}

func (s *Session) add(op string, t form.FieldType, at *coords.Point) (form.Field, error) {
	y := s.policy.NextY(len(s.fields))
	if at != nil {
		y = at.Y
	}
	f, err := s.creator.Create(t, s.fields, s.config, y)
	if err != nil {
		s.metrics.RecordMutation(op, false, err)
		return form.Field{}, pdferrors.Wrap(pdferrors.ErrorTypeInvalidField, err)
	}
	if at != nil {
		f.XPosition = at.X
	}
	next, err := s.fields.Add(f)
	if err != nil {
		s.metrics.RecordMutation(op, false, err)
		return form.Field{}, pdferrors.Wrap(pdferrors.ErrorTypeInvalidField, err)
	}
	s.commit(op, next)
	return f.Clone(), nil
}

// UpdateField merges p into the field with id. An unknown id is a no-op
// reported as changed false.
func (s *Session) UpdateField(id string, p form.Patch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := s.fields.Update(id, p)
	if err != nil {
		s.metrics.RecordMutation("update", false, err)
		return false, pdferrors.Wrap(pdferrors.ErrorTypeInvalidField, err).WithField(id)
	}
	if !changed {
		s.noop("update", id)
		return false, nil
	}
	s.commit("update", next)
	return true, nil
}

// DeleteField removes the field with id. An unknown id is a no-op.
func (s *Session) DeleteField(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := s.fields.Delete(id)
	if !changed {
		s.noop("delete", id)
		return false
	}
	s.commit("delete", s.policy.Renumber(next))
	return true
}

// MoveField relocates the field at index from to index to
func (s *Session) MoveField(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.policy.Move(s.fields, from, to)
	if err != nil {
		s.metrics.RecordMutation("move", false, err)
		return pdferrors.Wrap(pdferrors.ErrorTypeMissingTarget, err)
	}
	s.commit("move", next)
	return nil
}

// Reset clears the field list
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = interaction.Idle()
	s.commit("reset", form.List{})
}

// SetTextConfig applies p to the shared text config
func (s *Session) SetTextConfig(p form.TextConfigPatch) (form.TextConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := p.Apply(s.config)
	if err != nil {
		s.metrics.RecordMutation("text_config", false, err)
		return s.config, pdferrors.Wrap(pdferrors.ErrorTypeInvalidField, err)
	}
	s.config = next
	s.metrics.RecordMutation("text_config", true, nil)
	if s.persister != nil {
		s.persister.SaveTextConfig(next)
	}
	s.exportInBackground()
	return next, nil
}

// SetLayoutMode switches between stacked and freeform placement. Entering
// stacked mode restacks the list.
func (s *Session) SetLayoutMode(mode reorder.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	policy := s.policy
	policy.Mode = mode
	if err := policy.Validate(); err != nil {
		return err
	}
	s.policy = policy
	s.logger.Info("layout mode changed", zap.String("mode", string(mode)))
	if policy.Stacked() && !policy.Consistent(s.fields) {
		s.commit("restack", policy.Renumber(s.fields))
	}
	return nil
}

// LayoutMode returns the active reorder policy
func (s *Session) LayoutMode() reorder.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// commit adopts next, must be called with mu held
func (s *Session) commit(op string, next form.List) {
	s.fields = next
	s.metrics.RecordMutation(op, true, nil)
	s.metrics.SetFields(len(next))
	s.logger.Debug("design changed", zap.String("operation", op), zap.Int("fields", len(next)))
	if s.persister != nil {
		s.persister.SaveFields(next)
	}
	s.exportInBackground()
}

func (s *Session) noop(op, id string) {
	s.metrics.RecordMutation(op, false, nil)
	s.logger.Debug("mutation target missing", zap.String("operation", op), zap.String("field", id))
}

// Fields returns a copy of the field list
func (s *Session) Fields() form.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.Clone()
}

// TextConfig returns the shared text config
func (s *Session) TextConfig() form.TextConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Plan lays the current design out in editor space
func (s *Session) Plan() layout.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.Build(s.fields, s.config, s.page)
}

// Overlay renders the editor boxes at the current zoom as SVG
func (s *Session) Overlay() ([]byte, error) {
	s.mu.Lock()
	plan := layout.Build(s.fields, s.config, s.page)
	opts := overlay.Options{Zoom: s.zoom}
	if s.drag.Active() {
		opts.Highlight = s.drag.FieldID
	}
	s.mu.Unlock()
	return overlay.RenderSVG(plan, opts)
}
