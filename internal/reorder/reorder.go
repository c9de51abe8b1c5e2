// Package reorder keeps list order and vertical stacking order consistent.
//
// In Stacked mode every field's yPosition is derived from its index as
// Baseline - index*Stride. In Freeform mode positions are owned by the user
// (drag-and-drop) and reordering only changes list order.
package reorder

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

// Mode selects how list order relates to field positions
type Mode string

const (
	// ModeStacked renumbers yPosition from list order after every reorder
	ModeStacked Mode = "stacked"
	// ModeFreeform leaves positions where the user placed them
	ModeFreeform Mode = "freeform"
)

// Stacking defaults, in the editor frame. The first field sits 700pt above
// the bottom of a Letter page and every later field 50pt lower.
const (
	DefaultBaseline = coords.LetterHeight - 700
	DefaultStride   = -50.0
)

// ParseMode accepts a mode name, case-insensitively
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeStacked:
		return ModeStacked, nil
	case ModeFreeform:
		return ModeFreeform, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q (valid: stacked, freeform)", name)
	}
}

// Policy is the active reorder rule
type Policy struct {
	Mode     Mode    `json:"mode"`
	Baseline float64 `json:"baseline"`
	Stride   float64 `json:"stride"`
}

// DefaultPolicy returns a stacked policy with the default baseline and stride
func DefaultPolicy() Policy {
	return Policy{Mode: ModeStacked, Baseline: DefaultBaseline, Stride: DefaultStride}
}

// Validate checks the policy
func (p Policy) Validate() error {
	if p.Mode != ModeStacked && p.Mode != ModeFreeform {
		return fmt.Errorf("unknown layout mode %q", p.Mode)
	}
	return nil
}

// Stacked reports whether positions follow list order
func (p Policy) Stacked() bool {
	return p.Mode == ModeStacked
}

// SlotY is the stacked yPosition of the field at index
func (p Policy) SlotY(index int) float64 {
	return p.Baseline - float64(index)*p.Stride
}

// NextY is the yPosition a newly appended field receives in a list of n
func (p Policy) NextY(n int) float64 {
	return p.SlotY(n)
}

// Renumber reassigns yPosition from index in Stacked mode. In Freeform mode
// the list is returned as an unchanged copy.
func (p Policy) Renumber(l form.List) form.List {
	out := l.Clone()
	if !p.Stacked() {
		return out
	}
	for i := range out {
		out[i].YPosition = p.SlotY(i)
	}
	return out
}

// Move relocates the field at from to index to, shifting the fields in
// between, and then applies the policy.
func (p Policy) Move(l form.List, from, to int) (form.List, error) {
	moved, err := Move(l, from, to)
	if err != nil {
		return l, err
	}
	return p.Renumber(moved), nil
}

// Move relocates exactly one field from index from to index to
func Move(l form.List, from, to int) (form.List, error) {
	if from < 0 || from >= len(l) {
		return l, fmt.Errorf("source index %d out of range [0,%d)", from, len(l))
	}
	if to < 0 || to >= len(l) {
		return l, fmt.Errorf("destination index %d out of range [0,%d)", to, len(l))
	}
	out := l.Clone()
	if from == to {
		return out, nil
	}
	f := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append(form.List{f}, out[to:]...)...)
	return out, nil
}

// Consistent reports whether every field already sits at its stacked slot
func (p Policy) Consistent(l form.List) bool {
	for i, f := range l {
		if f.YPosition != p.SlotY(i) {
			return false
		}
	}
	return true
}
