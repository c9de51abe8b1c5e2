package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

func testConfig() form.TextConfig {
	return form.TextConfig{
		Font:            form.FontHelvetica,
		FontSize:        12,
		LineHeight:      1.2,
		LabelSpacing:    2,
		VerticalSpacing: 5,
	}
}

func TestBuild_LabelAndWidget(t *testing.T) {
	fields := form.List{{
		ID: "name", Type: form.FieldTypeText, Label: "Name",
		XPosition: 50, YPosition: 100, Width: 120, Height: 30,
	}}

	plan := Build(fields, testConfig(), coords.LetterPage())
	require.Len(t, plan.Placements, 1)
	pl := plan.Placements[0]

	assert.Equal(t, FrameEditor, plan.Frame)
	assert.Equal(t, "Name", pl.Label.Text)
	assert.Equal(t, coords.Point{X: 50, Y: 100}, pl.Label.At)
	assert.Equal(t, form.FontHelvetica, pl.Label.Style.Font)
	assert.Equal(t, WidgetTextInput, pl.Widget.Kind)
	assert.Equal(t, coords.Rect{X: 52, Y: 105, Width: 120, Height: 30}, pl.Widget.Rect)
	assert.Empty(t, pl.Rows)
	assert.Empty(t, pl.Fallbacks)
}

func TestBuild_WidgetKinds(t *testing.T) {
	tests := []struct {
		fieldType form.FieldType
		want      WidgetKind
	}{
		{form.FieldTypeText, WidgetTextInput},
		{form.FieldTypeTextarea, WidgetMultiLineInput},
		{form.FieldTypeRadio, WidgetRadioGroup},
		{form.FieldTypeCheckbox, WidgetCheckboxGroup},
		{form.FieldTypeDropdown, WidgetDropdown},
		{form.FieldTypeOptionList, WidgetListBox},
		{form.FieldTypeDate, WidgetDateInput},
		{form.FieldTypeTime, WidgetTextInput},
		{form.FieldTypeNumber, WidgetTextInput},
		{form.FieldTypeImage, WidgetImage},
		{form.FieldTypeSignature, WidgetSignature},
		{form.FieldTypeFileInput, WidgetTextInput},
		{form.FieldTypeFileOutput, WidgetStaticText},
		{form.FieldTypeRichText, WidgetStaticText},
	}
	require.Len(t, tests, len(form.AllFieldTypes()))

	for _, tt := range tests {
		t.Run(string(tt.fieldType), func(t *testing.T) {
			f := form.Field{ID: "f", Type: tt.fieldType, Width: 100, Height: 30}
			if tt.fieldType.IsChoiceGroup() {
				f.Options = form.DefaultOptions()
			}
			plan := Build(form.List{f}, testConfig(), coords.LetterPage())
			assert.Equal(t, tt.want, plan.Placements[0].Widget.Kind)
		})
	}
}

func TestBuild_MultiLineHeight(t *testing.T) {
	fields := form.List{{ID: "notes", Type: form.FieldTypeTextarea, Height: 20, Width: 200, Lines: 4}}
	pl := Build(fields, testConfig(), coords.LetterPage()).Placements[0]
	assert.Equal(t, 80.0, pl.Widget.Rect.Height)
	assert.Equal(t, 4, pl.Widget.Lines)
}

func TestBuild_CheckboxRows(t *testing.T) {
	fields := form.List{{
		ID: "colors", Type: form.FieldTypeCheckbox, Label: "Colors",
		Options:   []string{"Red", "Green", "Blue"},
		XPosition: 50, YPosition: 292, Width: 100, Height: 30,
	}}
	cfg := testConfig()
	plan := Build(fields, cfg, coords.LetterPage())
	pl := plan.Placements[0]
	require.Len(t, pl.Rows, 3)

	for i, row := range pl.Rows {
		assert.InDelta(t, float64(i)*14.4, row.Offset, 1e-9)
		assert.Equal(t, "colors."+fields[0].Options[i], row.Key)
		assert.Equal(t, GlyphSquare, row.Selector.Glyph)
		// glyph sits SelectorMargin left of the option text
		assert.InDelta(t, SelectorMargin, row.Label.At.X-row.Selector.Rect.X, 1e-9)
		// and is centred on the text band above the baseline
		center := row.Selector.Rect.Y + row.Selector.Rect.Height/2
		assert.InDelta(t, row.Label.At.Y-cfg.FontSize/2, center, 1e-9)
	}

	exported, err := plan.ForExport()
	require.NoError(t, err)
	rows := exported.Placements[0].Rows
	// anchor 500 in export space, rows stacked downward by fontSize*lineHeight
	want := []float64{500, 500 - 14.4, 500 - 28.8}
	for i, row := range rows {
		assert.InDelta(t, want[i], row.Label.At.Y+cfg.VerticalSpacing, 1e-9, "row %d", i)
	}
	assert.InDelta(t, 500.0, exported.Placements[0].Label.At.Y, 1e-9)
}

func TestBuild_SelectorsStayOnTheirRow(t *testing.T) {
	cfg := testConfig()
	fields := form.List{{
		ID: "abc", Type: form.FieldTypeCheckbox, Options: []string{"A", "B", "C"},
		XPosition: 50, YPosition: 100, Width: 100, Height: 20,
	}}
	exported, err := Build(fields, cfg, coords.LetterPage()).ForExport()
	require.NoError(t, err)
	rows := exported.Placements[0].Rows
	require.Len(t, rows, 3)

	for i, row := range rows {
		baseline := row.Label.At.Y
		top := baseline + cfg.FontSize
		sel := row.Selector.Rect
		assert.GreaterOrEqual(t, sel.Y, baseline, "row %d selector below its baseline", i)
		assert.LessOrEqual(t, sel.Y+sel.Height, top, "row %d selector above its text", i)
		assert.InDelta(t, baseline+cfg.FontSize/2, sel.Y+sel.Height/2, 1e-9)
		if i+1 < len(rows) {
			nextTop := rows[i+1].Label.At.Y + cfg.FontSize
			assert.Greater(t, sel.Y, nextTop, "row %d selector reaches the next option", i)
		}
	}
}

func TestBuild_RadioKeysAndEmptyOptions(t *testing.T) {
	fields := form.List{
		{ID: "g", Type: form.FieldTypeRadio, Options: []string{"a", "b"}, Height: 30, Width: 80},
		{ID: "empty", Type: form.FieldTypeRadio, Label: "Nothing", Height: 30, Width: 80},
	}
	plan := Build(fields, testConfig(), coords.LetterPage())

	radio := plan.Placements[0]
	require.Len(t, radio.Rows, 2)
	assert.Equal(t, "a", radio.Rows[0].Key)
	assert.Equal(t, GlyphCircle, radio.Rows[0].Selector.Glyph)

	empty := plan.Placements[1]
	assert.Empty(t, empty.Rows)
	assert.Equal(t, "Nothing", empty.Label.Text)
	assert.Equal(t, WidgetRadioGroup, empty.Widget.Kind)
}

func TestBuild_OptionList(t *testing.T) {
	fields := form.List{{
		ID: "list", Type: form.FieldTypeOptionList, Options: []string{"x", "y"},
		XPosition: 10, YPosition: 200, Width: 100, Height: 20,
	}}
	cfg := testConfig()
	pl := Build(fields, cfg, coords.LetterPage()).Placements[0]
	assert.Equal(t, 200+ListBoxOffset+cfg.VerticalSpacing, pl.Widget.Rect.Y)
	assert.Equal(t, 100.0, pl.Widget.Rect.Height)
	assert.Equal(t, []string{"x", "y"}, pl.Widget.Options)
	assert.Empty(t, pl.Rows)
}

func TestBuild_FontFallback(t *testing.T) {
	fields := form.List{
		{ID: "bad", Type: form.FieldTypeText, Font: "Wingdings", Width: 10, Height: 10},
		{ID: "alias", Type: form.FieldTypeText, Font: "TimesRoman", Width: 10, Height: 10},
		{ID: "good", Type: form.FieldTypeText, Width: 10, Height: 10},
	}
	plan := Build(fields, testConfig(), coords.LetterPage())
	require.Len(t, plan.Placements, 3)

	assert.Equal(t, form.DefaultFont, plan.Placements[0].Label.Style.Font)
	assert.Equal(t, []form.Font{"Wingdings"}, plan.Placements[0].Fallbacks)
	assert.Equal(t, form.FontTimesRoman, plan.Placements[1].Label.Style.Font)
	assert.Empty(t, plan.Placements[2].Fallbacks)
	assert.Equal(t, map[string][]form.Font{"bad": {"Wingdings"}}, plan.Fallbacks())
}

func TestBuild_RichText(t *testing.T) {
	fields := form.List{{
		ID: "terms", Type: form.FieldTypeRichText, Label: "Terms",
		RichTextData: "<p>Hello <em>world</em></p>", Width: 200, Height: 15, Lines: 2,
	}}
	pl := Build(fields, testConfig(), coords.LetterPage()).Placements[0]
	assert.Equal(t, "Hello world", pl.Widget.Text)
	assert.Equal(t, 30.0, pl.Widget.Rect.Height)
}

func TestForExport(t *testing.T) {
	page := coords.Page{Width: 600, Height: 800}
	fields := form.List{{ID: "a", Type: form.FieldTypeText, XPosition: 50, YPosition: 100, Width: 80, Height: 20}}
	plan := Build(fields, testConfig(), page)

	exported, err := plan.ForExport()
	require.NoError(t, err)
	assert.Equal(t, FrameExport, exported.Frame)

	pl := exported.Placements[0]
	assert.Equal(t, 700.0, pl.Label.At.Y)
	// editor widget top 105, height 20 -> bottom edge at 800-125
	assert.Equal(t, coords.Rect{X: 52, Y: 675, Width: 80, Height: 20}, pl.Widget.Rect)

	// the editor plan is untouched
	assert.Equal(t, 100.0, plan.Placements[0].Label.At.Y)

	_, err = exported.ForExport()
	assert.Error(t, err)

	_, err = Build(fields, testConfig(), coords.Page{}).ForExport()
	assert.Error(t, err)
}

func TestRowOffsets(t *testing.T) {
	assert.Nil(t, RowOffsets(0, 10))
	assert.Equal(t, []float64{0, 10, 20}, RowOffsets(3, 10))
}
