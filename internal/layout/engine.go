// Package layout turns an ordered field list into absolute draw instructions.
//
// Build works in editor space, where the page top is Y=0 and "below" means a
// larger Y. Plan.ForExport flips the plan once into the export collaborator's
// bottom-up space, where the same rules read as the familiar
// widget = anchor - verticalSpacing and row k = anchor - k*stride.
package layout

import (
	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

// Build places every field of fields on page. It never fails: unknown fonts
// fall back to the default font and are reported on the placement.
func Build(fields form.List, cfg form.TextConfig, page coords.Page) Plan {
	plan := Plan{
		Frame:      FrameEditor,
		Page:       page,
		Placements: make([]Placement, 0, len(fields)),
	}
	for _, f := range fields {
		plan.Placements = append(plan.Placements, placeField(f, cfg))
	}
	return plan
}

// RowOffsets returns the distance of each of n stacked rows from the first
func RowOffsets(n int, stride float64) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * stride
	}
	return out
}

func placeField(f form.Field, cfg form.TextConfig) Placement {
	labelStyle, labelFallback := resolveStyle(f.LabelStyle(cfg))
	inputStyle, inputFallback := resolveStyle(f.InputStyle(cfg))

	pl := Placement{
		FieldID: f.ID,
		Type:    f.Type,
		Label: TextDraw{
			Text:  f.Label,
			At:    coords.Point{X: f.XPosition, Y: f.YPosition},
			Style: labelStyle,
		},
	}
	if labelFallback != "" {
		pl.Fallbacks = append(pl.Fallbacks, labelFallback)
	}
	if inputFallback != "" && inputFallback != labelFallback {
		pl.Fallbacks = append(pl.Fallbacks, inputFallback)
	}

	body := coords.Rect{
		X:      f.XPosition + cfg.LabelSpacing,
		Y:      f.YPosition + cfg.VerticalSpacing,
		Width:  f.Width,
		Height: f.Height,
	}
	pl.Widget = Widget{Name: f.ID, Rect: body, Style: inputStyle}

	switch f.Type {
	case form.FieldTypeText, form.FieldTypeNumber, form.FieldTypeFileInput:
		pl.Widget.Kind = WidgetTextInput
	case form.FieldTypeTime:
		pl.Widget.Kind = WidgetTextInput
		pl.Widget.Format = "HH:MM"
	case form.FieldTypeDate:
		pl.Widget.Kind = WidgetDateInput
		pl.Widget.Format = "yyyy-mm-dd"
	case form.FieldTypeTextarea:
		pl.Widget.Kind = WidgetMultiLineInput
		pl.Widget.Lines = f.LineCount()
		pl.Widget.Rect.Height = f.Height * float64(f.LineCount())
	case form.FieldTypeRichText:
		pl.Widget.Kind = WidgetStaticText
		pl.Widget.Lines = f.LineCount()
		pl.Widget.Rect.Height = f.Height * float64(f.LineCount())
		pl.Widget.Text = f.PlainText()
	case form.FieldTypeFileOutput:
		pl.Widget.Kind = WidgetStaticText
		pl.Widget.Text = f.FileData
	case form.FieldTypeImage:
		pl.Widget.Kind = WidgetImage
		pl.Widget.Image = f.ImagePayload()
	case form.FieldTypeSignature:
		pl.Widget.Kind = WidgetSignature
		pl.Widget.Image = f.ImagePayload()
	case form.FieldTypeRadio:
		pl.Widget.Kind = WidgetRadioGroup
		pl.Widget.Options = copyOptions(f.Options)
		pl.Rows = stackRows(f, body, labelStyle, GlyphCircle)
	case form.FieldTypeCheckbox:
		pl.Widget.Kind = WidgetCheckboxGroup
		pl.Widget.Options = copyOptions(f.Options)
		pl.Rows = stackRows(f, body, labelStyle, GlyphSquare)
	case form.FieldTypeDropdown:
		pl.Widget.Kind = WidgetDropdown
		pl.Widget.Options = copyOptions(f.Options)
	case form.FieldTypeOptionList:
		pl.Widget.Kind = WidgetListBox
		pl.Widget.Options = copyOptions(f.Options)
		pl.Widget.Rect.Y = f.YPosition + ListBoxOffset + cfg.VerticalSpacing
		pl.Widget.Rect.Height = f.Height * ListBoxRows
	default:
		// Unknown types still get their label drawn
		pl.Widget.Kind = WidgetStaticText
	}
	return pl
}

// stackRows lays the options of a group out downward from the widget top
func stackRows(f form.Field, body coords.Rect, style form.TextStyle, glyph Glyph) []OptionRow {
	stride := style.RowStride()
	offsets := RowOffsets(len(f.Options), stride)
	rows := make([]OptionRow, 0, len(offsets))
	for i, option := range f.Options {
		rowY := body.Y + offsets[i]
		key := option
		if glyph == GlyphSquare {
			key = f.ID + "." + option
		}
		// the glyph is centred on the text band above the baseline
		glyphY := rowY - (style.Size+SelectorSize)/2
		_ = glyphY
		rows = append(rows, OptionRow{
			Key:    key,
			Value:  option,
			Offset: offsets[i],
			Label: TextDraw{
				Text:  option,
				At:    coords.Point{X: body.X + SelectorMargin, Y: rowY},
				Style: style,
			},
			Selector: Selector{
				Glyph: glyph,
				Rect: coords.Rect{
					X:      body.X,
					Y:      rowY + (stride-SelectorSize)/2,
					Width:  SelectorSize,
					Height: SelectorSize,
				},
			},
		})
	}
	return rows
}

// resolveStyle substitutes the default font for unknown names and returns
// the rejected name, if any
func resolveStyle(style form.TextStyle) (form.TextStyle, form.Font) {
	resolved, ok := style.Font.OrDefault()
	if ok {
		style.Font = resolved
		return style, ""
	}
	requested := style.Font
	style.Font = resolved
	return style, requested
}

func copyOptions(options []string) []string {
	if options == nil {
		return nil
	}
	return append([]string(nil), options...)
}
