package session

import (
	"errors"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/interaction"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
)

// Zoom returns the current zoom
func (s *Session) Zoom() coords.Zoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// ZoomIn raises the zoom by one step
func (s *Session) ZoomIn() coords.Zoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = s.zoom.In()
	return s.zoom
}

// ZoomOut lowers the zoom by one step
func (s *Session) ZoomOut() coords.Zoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = s.zoom.Out()
	return s.zoom
}

// SetZoom sets the zoom, clamped to the supported range
func (s *Session) SetZoom(z float64) coords.Zoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = coords.ClampZoom(z)
	return s.zoom
}

// DragStart begins dragging the field with id. A drag already in progress
// is cancelled and its field id returned.
func (s *Session) DragStart(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fields.Contains(id) {
		return "", pdferrors.New(pdferrors.ErrorTypeMissingTarget, "no field to drag").WithField(id)
	}
	next, superseded, err := s.drag.Start(id)
	if err != nil {
		return "", err
	}
	if superseded != "" {
		s.logger.Debug("drag superseded", zap.String("cancelled", superseded), zap.String("field", id))
	}
	s.drag = next
	return superseded, nil
}

// Drop completes the drag at a viewport client point inside container.
// The returned bool is false when the dragged field was deleted mid-drag.
func (s *Session) Drop(clientX, clientY float64, container coords.Container) (interaction.Move, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, move, err := s.drag.Drop(interaction.Drop{
		ClientX:   clientX,
		ClientY:   clientY,
		Container: container,
		Zoom:      s.zoom,
	})
	if err != nil {
		if errors.Is(err, interaction.ErrOutsideContainer) {
			s.logger.Debug("drop outside canvas", zap.Float64("x", clientX), zap.Float64("y", clientY))
		}
		return interaction.Move{}, false, err
	}
	s.drag = next

	fields, changed, err := move.Apply(s.fields)
	if err != nil {
		s.metrics.RecordMutation("drop", false, err)
		return move, false, pdferrors.Wrap(pdferrors.ErrorTypeInvalidField, err).WithField(move.FieldID)
	}
	if !changed {
		s.noop("drop", move.FieldID)
		return move, false, nil
	}
	s.commit("drop", fields)
	return move, true, nil
}

// DragEnd finishes the drag lifecycle. A drag that never dropped is
// cancelled without touching the list.
func (s *Session) DragEnd() interaction.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = s.drag.End()
	ended := s.drag
	if ended.Phase == interaction.PhaseCancelled {
		s.logger.Debug("drag cancelled", zap.String("field", ended.FieldID))
		// cancellation is terminal; the next event starts from idle
		s.drag = interaction.Idle()
	}
	return ended
}

// DragState returns the drag in progress, if any
func (s *Session) DragState() interaction.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag
}
