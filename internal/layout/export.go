package layout

import (
	"fmt"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
)

// ForExport flips an editor plan into the export collaborator's bottom-up
// frame. Text anchors map through Page.ExportY; rects keep their size and
// are re-anchored at their bottom edge. Flipping an export plan again is an
// error, so the flip happens exactly once per plan.
func (p Plan) ForExport() (Plan, error) {
	if p.Frame != FrameEditor {
		return p, fmt.Errorf("plan is already in the %s frame", p.Frame)
	}
	if !p.Page.Valid() {
		return p, fmt.Errorf("invalid page geometry %.2fx%.2f", p.Page.Width, p.Page.Height)
	}

	out := Plan{
		Frame:      FrameExport,
		Page:       p.Page,
		Placements: make([]Placement, len(p.Placements)),
	}
	for i, pl := range p.Placements {
		flipped := pl
		flipped.Label = flipText(p.Page, pl.Label)
		flipped.Widget.Rect = flipRect(p.Page, pl.Widget.Rect)
		if pl.Widget.Options != nil {
			flipped.Widget.Options = copyOptions(pl.Widget.Options)
		}
		if pl.Rows != nil {
			flipped.Rows = make([]OptionRow, len(pl.Rows))
			for j, row := range pl.Rows {
				row.Label = flipText(p.Page, row.Label)
				row.Selector.Rect = flipRect(p.Page, row.Selector.Rect)
				flipped.Rows[j] = row
			}
		}
		if pl.Fallbacks != nil {
			flipped.Fallbacks = append(flipped.Fallbacks[:0:0], pl.Fallbacks...)
		}
		out.Placements[i] = flipped
	}
	return out, nil
}

func flipText(page coords.Page, t TextDraw) TextDraw {
	t.At.Y = page.ExportY(t.At.Y)
	return t
}

func flipRect(page coords.Page, r coords.Rect) coords.Rect {
	r.Y = page.ExportY(r.Y + r.Height)
	return r
}
