package coords

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestClampZoom(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want Zoom
	}{
		{"inside", 1.3, 1.3},
		{"below", 0.1, MinZoom},
		{"above", 5, MaxZoom},
		{"lower bound", 0.5, 0.5},
		{"nan", math.NaN(), DefaultZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampZoom(tt.in))
		})
	}
}

func TestZoomSteps(t *testing.T) {
	z := Zoom(DefaultZoom)
	for i := 0; i < 15; i++ {
		z = z.In()
	}
	assert.Equal(t, Zoom(MaxZoom), z)

	for i := 0; i < 3; i++ {
		z = z.Out()
	}
	assert.Equal(t, Zoom(1.7), z)

	for i := 0; i < 30; i++ {
		z = z.Out()
	}
	assert.Equal(t, Zoom(MinZoom), z)
}

func TestTransforms(t *testing.T) {
	doc := ToDocument(ScreenPoint{X: 100, Y: 200}, 1.0)
	assert.Equal(t, Point{X: 100, Y: 200}, doc)

	doc = ToDocument(ScreenPoint{X: 100, Y: 200}, 2.0)
	assert.Equal(t, Point{X: 50, Y: 100}, doc)

	screen := ToScreen(Point{X: 50, Y: 100}, 0.5)
	assert.Equal(t, ScreenPoint{X: 25, Y: 50}, screen)

	r := RectToScreen(Rect{X: 10, Y: 20, Width: 100, Height: 30}, 1.5)
	assert.Equal(t, Rect{X: 15, Y: 30, Width: 150, Height: 45}, r)
}

func TestContainerRelative(t *testing.T) {
	c := Container{Left: 40, Top: 120}
	assert.Equal(t, ScreenPoint{X: 60, Y: 80}, c.Relative(100, 200))
	assert.True(t, c.Inside(100, 200))
	assert.False(t, c.Inside(10, 200))

	bounded := Container{Width: 50, Height: 50}
	assert.True(t, bounded.Inside(50, 50))
	assert.False(t, bounded.Inside(51, 10))
}

func TestPageFlip(t *testing.T) {
	p := LetterPage()
	assert.Equal(t, 592.0, p.ExportY(200))
	assert.Equal(t, 200.0, p.EditorY(p.ExportY(200)))
	assert.True(t, p.Contains(Point{X: 10, Y: 10}))
	assert.False(t, p.Contains(Point{X: -1, Y: 10}))
	assert.False(t, Page{}.Valid())
}

func TestProperty_RoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("document -> screen -> document is the identity", prop.ForAll(
		func(x, y, z float64) bool {
			zoom := Zoom(z)
			back := ToDocument(ToScreen(Point{X: x, Y: y}, zoom), zoom)
			return math.Abs(back.X-x) < 1e-9 && math.Abs(back.Y-y) < 1e-9
		},
		gen.Float64Range(-2000, 2000),
		gen.Float64Range(-2000, 2000),
		gen.Float64Range(MinZoom, MaxZoom),
	))

	properties.Property("page flip is an involution", prop.ForAll(
		func(h, y float64) bool {
			p := Page{Width: 1, Height: h}
			return math.Abs(p.EditorY(p.ExportY(y))-y) < 1e-9
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(-5000, 5000),
	))

	properties.TestingRun(t)
}
