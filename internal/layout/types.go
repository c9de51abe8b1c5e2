package layout

import (
	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

// Fixed geometry of the layout rules
const (
	// SelectorMargin is the gap between a selector glyph and its option text
	SelectorMargin = 20.0
	// SelectorSize is the edge length of radio and checkbox glyphs
	SelectorSize = 10.0
	// ListBoxOffset is the extra drop of an option list below its anchor
	ListBoxOffset = 100.0
	// ListBoxRows is the number of visible rows of an option list
	ListBoxRows = 5
)

// Frame identifies the coordinate system of a plan
type Frame int

const (
	// FrameEditor measures Y from the page top; rects anchor at their top edge
	FrameEditor Frame = iota
	// FrameExport measures Y from the page bottom; rects anchor at their bottom edge
	FrameExport
)

// String returns a readable frame name
func (f Frame) String() string {
	switch f {
	case FrameEditor:
		return "editor"
	case FrameExport:
		return "export"
	default:
		return "unknown"
	}
}

// WidgetKind is the interactive primitive the export collaborator creates
type WidgetKind string

const (
	WidgetTextInput      WidgetKind = "textInput"
	WidgetMultiLineInput WidgetKind = "multiLineInput"
	WidgetRadioGroup     WidgetKind = "radioGroup"
	WidgetCheckboxGroup  WidgetKind = "checkboxGroup"
	WidgetDropdown       WidgetKind = "dropdown"
	WidgetListBox        WidgetKind = "listBox"
	WidgetDateInput      WidgetKind = "dateInput"
	WidgetImage          WidgetKind = "image"
	WidgetSignature      WidgetKind = "signature"
	WidgetStaticText     WidgetKind = "staticText"
)

// Glyph is the selector drawn beside a stacked option row
type Glyph string

const (
	GlyphCircle Glyph = "circle"
	GlyphSquare Glyph = "square"
)

// TextDraw places one string
type TextDraw struct {
	Text  string         `json:"text"`
	At    coords.Point   `json:"at"`
	Style form.TextStyle `json:"style"`
}

// Widget is the primary body of a field
type Widget struct {
	Kind    WidgetKind     `json:"kind"`
	Name    string         `json:"name"`
	Rect    coords.Rect    `json:"rect"`
	Style   form.TextStyle `json:"style"`
	Lines   int            `json:"lines,omitempty"`
	Options []string       `json:"options,omitempty"`
	Format  string         `json:"format,omitempty"`
	Text    string         `json:"text,omitempty"`
	Image   string         `json:"image,omitempty"`
}

// Selector is the small glyph of an option row
type Selector struct {
	Glyph Glyph       `json:"glyph"`
	Rect  coords.Rect `json:"rect"`
}

// OptionRow is one stacked option of a radio or checkbox group
type OptionRow struct {
	// Key is the sub-widget identity: the option for radio groups,
	// "<field id>.<option>" for checkbox groups
	Key      string   `json:"key"`
	Value    string   `json:"value"`
	Offset   float64  `json:"offset"`
	Label    TextDraw `json:"label"`
	Selector Selector `json:"selector"`
}

// Placement holds every draw instruction of one field
type Placement struct {
	FieldID string         `json:"fieldId"`
	Type    form.FieldType `json:"type"`
	Label   TextDraw       `json:"label"`
	Widget  Widget         `json:"widget"`
	Rows    []OptionRow    `json:"rows,omitempty"`
	// Fallbacks lists requested fonts that were replaced by the default
	Fallbacks []form.Font `json:"fallbacks,omitempty"`
}

// Plan is the placement of a whole field list
type Plan struct {
	Frame      Frame       `json:"frame"`
	Page       coords.Page `json:"page"`
	Placements []Placement `json:"placements"`
}

// Placement returns the placement of the field with the given id
func (p Plan) Placement(id string) (Placement, bool) {
	for _, pl := range p.Placements {
		if pl.FieldID == id {
			return pl, true
		}
	}
	return Placement{}, false
}

// Fallbacks collects every substituted font across the plan, by field id
func (p Plan) Fallbacks() map[string][]form.Font {
	out := map[string][]form.Font{}
	for _, pl := range p.Placements {
		if len(pl.Fallbacks) > 0 {
			out[pl.FieldID] = append([]form.Font(nil), pl.Fallbacks...)
		}
	}
	return out
}
