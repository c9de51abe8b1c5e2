// Package interaction tracks a single drag of a field across the canvas.
//
// The drag state is a plain value: every event takes the current State and
// returns the next one. The only mutation a drag ever produces is the move
// patch returned by Drop.
package interaction

import (
	"errors"
	"fmt"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

// Phase is the position of a drag in its lifecycle
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseDragging  Phase = "dragging"
	PhaseDropped   Phase = "dropped"
	PhaseCancelled Phase = "cancelled"
)

var (
	// ErrNotDragging is returned by Drop when no drag is in progress
	ErrNotDragging = errors.New("no drag in progress")
	// ErrOutsideContainer is returned by Drop for a point outside the canvas
	ErrOutsideContainer = errors.New("drop point is outside the canvas container")
)

// State is the serializable drag state
type State struct {
	Phase   Phase  `json:"phase"`
	FieldID string `json:"fieldId,omitempty"`
}

// Idle returns the resting state
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Active reports whether a field is being dragged
func (s State) Active() bool {
	return s.Phase == PhaseDragging
}

// String implements fmt.Stringer
func (s State) String() string {
	if s.FieldID == "" {
		return string(s.Phase)
	}
	return fmt.Sprintf("%s(%s)", s.Phase, s.FieldID)
}

// Start begins dragging fieldID. A drag already in progress is cancelled
// first; its field id is returned as superseded.
func (s State) Start(fieldID string) (next State, superseded string, err error) {
	if fieldID == "" {
		return s, "", errors.New("drag start requires a field id")
	}
	if s.Active() {
		superseded = s.FieldID
	}
	return State{Phase: PhaseDragging, FieldID: fieldID}, superseded, nil
}

// Drop describes a drop event in viewport client coordinates
type Drop struct {
	ClientX   float64
	ClientY   float64
	Container coords.Container
	Zoom      coords.Zoom
}

// Point converts the drop into document space
func (d Drop) Point() coords.Point {
	return coords.ToDocument(d.Container.Relative(d.ClientX, d.ClientY), d.Zoom)
}

// Move is the mutation issued by a completed drop
type Move struct {
	FieldID string       `json:"fieldId"`
	To      coords.Point `json:"to"`
}

// Patch returns the field update for the move
func (m Move) Patch() form.Patch {
	return form.MovePatch(m.To.X, m.To.Y)
}

// Apply issues the move against l. A field deleted mid-drag makes this a
// no-op.
func (m Move) Apply(l form.List) (form.List, bool, error) {
	return l.Update(m.FieldID, m.Patch())
}

// Drop completes the drag at d. The state is unchanged on error.
func (s State) Drop(d Drop) (State, Move, error) {
	if !s.Active() {
		return s, Move{}, ErrNotDragging
	}
	if !d.Container.Inside(d.ClientX, d.ClientY) {
		return s, Move{}, ErrOutsideContainer
	}
	return State{Phase: PhaseDropped, FieldID: s.FieldID}, Move{FieldID: s.FieldID, To: d.Point()}, nil
}

// End handles drag-end. An active drag without a drop is cancelled; after a
// drop or cancel the controller returns to idle.
func (s State) End() State {
	if s.Active() {
		return State{Phase: PhaseCancelled, FieldID: s.FieldID}
	}
	return Idle()
}
