// Package overlay draws the editor's field boxes as an SVG layer that sits
// on top of the displayed page at the current zoom.
package overlay

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/layout"
)

const (
	strokeWidth = 0.75
	anchorSize  = 4.0
)

var (
	widgetStroke    = canvas.Hex("#1f6feb")
	selectorStroke  = canvas.Hex("#57606a")
	anchorFill      = canvas.Hex("#cf222e")
	highlightStroke = canvas.Hex("#d29922")
	transparent     = color.RGBA{0, 0, 0, 0}
)

// Options control what the overlay emphasises
type Options struct {
	Zoom coords.Zoom
	// Highlight is the id of the field being dragged, if any
	Highlight string
}

// Render writes the overlay of an editor plan to w
func Render(w io.Writer, plan layout.Plan, opts Options) error {
	if plan.Frame != layout.FrameEditor {
		return fmt.Errorf("overlay needs an editor plan, got %s", plan.Frame)
	}
	if !plan.Page.Valid() {
		return fmt.Errorf("invalid page geometry %.2fx%.2f", plan.Page.Width, plan.Page.Height)
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = coords.DefaultZoom
	}
	width, height := plan.Page.Width*zoom.Factor(), plan.Page.Height*zoom.Factor()

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	// screen space: origin top-left, Y down
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetStrokeWidth(strokeWidth)

	for _, pl := range plan.Placements {
		drawPlacement(ctx, pl, zoom, pl.FieldID == opts.Highlight)
	}

	out := svg.New(w, width, height, nil)
	c.RenderTo(out)
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	return nil
}

// RenderSVG returns the overlay as an SVG document
func RenderSVG(plan layout.Plan, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, plan, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawPlacement(ctx *canvas.Context, pl layout.Placement, zoom coords.Zoom, highlight bool) {
	anchor := coords.ToScreen(pl.Label.At, zoom)
	ctx.SetStrokeColor(transparent)
	ctx.SetFillColor(anchorFill)
	ctx.DrawPath(anchor.X-anchorSize/2, anchor.Y-anchorSize/2, canvas.Rectangle(anchorSize, anchorSize))

	stroke := widgetStroke
	if highlight {
		stroke = highlightStroke
	}
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(stroke)
	drawRect(ctx, coords.RectToScreen(pl.Widget.Rect, zoom))

	ctx.SetStrokeColor(selectorStroke)
	for _, row := range pl.Rows {
		r := coords.RectToScreen(row.Selector.Rect, zoom)
		switch row.Selector.Glyph {
		case layout.GlyphCircle:
			radius := r.Width / 2
			ctx.DrawPath(r.X+radius, r.Y+radius, canvas.Circle(radius))
		default:
			drawRect(ctx, r)
		}
	}
}

func drawRect(ctx *canvas.Context, r coords.Rect) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	ctx.DrawPath(r.X, r.Y, canvas.Rectangle(r.Width, r.Height))
}
