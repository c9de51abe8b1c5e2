// Package coords converts between the on-screen viewport and document space.
//
// Document space is unscaled and, inside the editor, measured from the
// top-left corner of the page. Screen space is relative to the top-left of the
// viewport container and scaled by the zoom factor. The export collaborator
// measures Y upward from the page bottom; Page.ExportY performs that flip and
// is only called where instructions leave the editor.
package coords

import "math"

// Zoom bounds and step used by the zoom controls
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
	ZoomStep    = 0.1
)

// Point is a location in document space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScreenPoint is a location relative to the viewport container, in pixels
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box anchored at its top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Zoom is a viewport scale factor in [MinZoom, MaxZoom]
type Zoom float64

// ClampZoom bounds z to the supported range
func ClampZoom(z float64) Zoom {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return Zoom(math.Min(MaxZoom, math.Max(MinZoom, z)))
}

// In returns the next zoom level up
func (z Zoom) In() Zoom {
	return ClampZoom(roundStep(float64(z) + ZoomStep))
}

// Out returns the next zoom level down
func (z Zoom) Out() Zoom {
	return ClampZoom(roundStep(float64(z) - ZoomStep))
}

// roundStep keeps repeated steps on the 0.1 grid
func roundStep(v float64) float64 {
	return math.Round(v*10) / 10
}

// Factor returns z as a usable scale, treating out-of-range values as clamped
func (z Zoom) Factor() float64 {
	return float64(ClampZoom(float64(z)))
}

// ToDocument maps a screen point into document space
func ToDocument(p ScreenPoint, z Zoom) Point {
	f := z.Factor()
	return Point{X: p.X / f, Y: p.Y / f}
}

// ToScreen maps a document point into screen space
func ToScreen(p Point, z Zoom) ScreenPoint {
	f := z.Factor()
	return ScreenPoint{X: p.X * f, Y: p.Y * f}
}

// RectToScreen scales a document rect into screen space
func RectToScreen(r Rect, z Zoom) Rect {
	f := z.Factor()
	return Rect{X: r.X * f, Y: r.Y * f, Width: r.Width * f, Height: r.Height * f}
}

// Container is the on-screen box that hosts the page canvas. A zero Width
// or Height leaves that axis unbounded.
type Container struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Inside reports whether a viewport client coordinate falls in the container
func (c Container) Inside(clientX, clientY float64) bool {
	p := c.Relative(clientX, clientY)
	if p.X < 0 || p.Y < 0 {
		return false
	}
	if c.Width > 0 && p.X > c.Width {
		return false
	}
	if c.Height > 0 && p.Y > c.Height {
		return false
	}
	return true
}

// Relative converts a viewport client coordinate into a container-relative one
func (c Container) Relative(clientX, clientY float64) ScreenPoint {
	return ScreenPoint{X: clientX - c.Left, Y: clientY - c.Top}
}

// Page sizes, in points
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Page is the geometry of the document page
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LetterPage returns a US Letter page
func LetterPage() Page {
	return Page{Width: LetterWidth, Height: LetterHeight}
}

// Valid reports whether both dimensions are positive
func (p Page) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// ExportY flips an editor Y (distance from top) into the export
// collaborator's Y (distance from bottom)
func (p Page) ExportY(editorY float64) float64 {
	return p.Height - editorY
}

// EditorY is the inverse of ExportY
func (p Page) EditorY(exportY float64) float64 {
	return p.Height - exportY
}

// Contains reports whether a document point lies on the page
func (p Page) Contains(pt Point) bool {
	return pt.X >= 0 && pt.Y >= 0 && pt.X <= p.Width && pt.Y <= p.Height
}
