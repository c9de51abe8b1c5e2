package export

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/layout"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
)

// fakeBackend records the jobs it receives
type fakeBackend struct {
	mu   sync.Mutex
	jobs []Job
	err  error
}

func (f *fakeBackend) Render(_ context.Context, job Job) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func testRequest() Request {
	return Request{
		Fields: form.List{
			{ID: "name", Type: form.FieldTypeText, Label: "Name", XPosition: 50, YPosition: 100, Width: 100, Height: 30},
			{ID: "fancy", Type: form.FieldTypeText, Label: "Fancy", Font: "Comic Sans", XPosition: 50, YPosition: 150, Width: 100, Height: 30},
		},
		Config: form.DefaultTextConfig(),
		Page:   coords.LetterPage(),
	}
}

func TestExporter_FontFallbackStillExports(t *testing.T) {
	backend := &fakeBackend{}
	doc, err := NewExporter(backend, nil, nil).Export(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), doc.Data)
	assert.Equal(t, 2, doc.Fields)
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "fancy")
	assert.Contains(t, doc.Warnings[0], "Comic Sans")

	require.Len(t, backend.jobs, 1)
	plan := backend.jobs[0].Plan
	assert.Equal(t, layout.FrameExport, plan.Frame)
	fancy, ok := plan.Placement("fancy")
	require.True(t, ok)
	assert.Equal(t, form.DefaultFont, fancy.Label.Style.Font)
	assert.Equal(t, 792.0-150, fancy.Label.At.Y)
}

func TestExporter_Base(t *testing.T) {
	backend := &fakeBackend{}
	req := testRequest()
	req.Base = []byte("%PDF-base")
	req.BasePage = coords.Page{Width: 595, Height: 842}

	doc, err := NewExporter(backend, nil, nil).Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.BasePage, doc.Page)
	assert.Equal(t, req.Base, backend.jobs[0].Base)
	assert.Equal(t, req.BasePage, backend.jobs[0].Plan.Page)
}

func TestExporter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		mutate  func(*Request)
	}{
		{"backend error", &fakeBackend{err: errors.New("disk full")}, func(*Request) {}},
		{"invalid page", &fakeBackend{}, func(r *Request) { r.Page = coords.Page{} }},
		{"invalid config", &fakeBackend{}, func(r *Request) { r.Config.FontSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			_, err := NewExporter(tt.backend, nil, nil).Export(context.Background(), req)
			require.Error(t, err)
			assert.True(t, pdferrors.IsType(err, pdferrors.ErrorTypeExportFailed))
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExporter(&fakeBackend{}, nil, nil).Export(ctx, testRequest())
	assert.True(t, pdferrors.IsType(err, pdferrors.ErrorTypeExportFailed))
}

func exportPlan(t *testing.T, fields form.List) layout.Plan {
	t.Helper()
	plan, err := layout.Build(fields, form.DefaultTextConfig(), coords.LetterPage()).ForExport()
	require.NoError(t, err)
	return plan
}

func contentOf(t *testing.T, spec map[string]any) map[string][]map[string]any {
	t.Helper()
	pages, ok := spec["pages"].(map[string]any)
	require.True(t, ok)
	page, ok := pages["1"].(map[string]any)
	require.True(t, ok)
	content, ok := page["content"].(map[string][]map[string]any)
	require.True(t, ok)
	return content
}

func TestBuildSpec(t *testing.T) {
	fields := form.List{
		{ID: "t", Type: form.FieldTypeText, Label: "T", Width: 100, Height: 20},
		{ID: "notes", Type: form.FieldTypeTextarea, Width: 100, Height: 20, Lines: 3},
		{ID: "c", Type: form.FieldTypeCheckbox, Options: []string{"x", "y"}, YPosition: 292, Width: 100, Height: 20},
		{ID: "r", Type: form.FieldTypeRadio, Options: []string{"a", "b", "c"}, Width: 100, Height: 20},
		{ID: "d", Type: form.FieldTypeDropdown, Options: []string{"one", "two"}, Width: 100, Height: 20},
		{ID: "l", Type: form.FieldTypeOptionList, Options: []string{"p", "q"}, Width: 100, Height: 14},
		{ID: "when", Type: form.FieldTypeDate, Width: 100, Height: 20},
		{ID: "sig", Type: form.FieldTypeSignature, Width: 120, Height: 60},
		{ID: "pic", Type: form.FieldTypeImage, ImageData: "data:image/png;base64,AAAA", Width: 120, Height: 60},
		{ID: "out", Type: form.FieldTypeFileOutput, FileData: "report.csv", Width: 100, Height: 20},
	}
	var staged []string
	spec, err := BuildSpec(exportPlan(t, fields), func(id, payload string) (string, error) {
		staged = append(staged, id)
		return "/tmp/" + id + ".png", nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "LowerLeft", spec["origin"])

	content := contentOf(t, spec)
	require.Len(t, content["textfield"], 2)
	assert.Equal(t, true, content["textfield"][1]["multiline"])
	assert.Equal(t, 60.0, content["textfield"][1]["height"])

	require.Len(t, content["checkbox"], 2)
	assert.Equal(t, "c.x", content["checkbox"][0]["id"])
	assert.Equal(t, "c.y", content["checkbox"][1]["id"])

	for _, item := range content["checkbox"] {
		assert.Equal(t, layout.SelectorSize, item["width"])
	}

	require.Len(t, content["radiobuttongroup"], 1)
	radio := content["radiobuttongroup"][0]
	assert.Equal(t, layout.SelectorSize, radio["width"])
	buttons := radio["buttons"].(map[string]any)
	assert.Equal(t, []string{"a", "b", "c"}, buttons["values"])
	label := buttons["label"].(map[string]any)
	assert.Equal(t, "r", label["value"], "unlabelled groups fall back to the field id")
	assert.Equal(t, 100, label["width"])
	assert.Equal(t, "right", label["pos"])

	require.Len(t, content["combobox"], 1)
	assert.Equal(t, []string{"", "one", "two"}, content["combobox"][0]["options"])

	require.Len(t, content["listbox"], 1)
	assert.Equal(t, 70.0, content["listbox"][0]["height"])
	assert.NotContains(t, content["listbox"][0], "multi", "option lists are single-select")

	require.Len(t, content["datefield"], 1)
	assert.Equal(t, "yyyy-mm-dd", content["datefield"][0]["format"])

	assert.Equal(t, []string{"pic"}, staged)
	require.Len(t, content["image"], 1)
	require.Len(t, content["box"], 1, "signature without data is drawn as a box")

	for kind, items := range content {
		for _, item := range items {
			assert.NotContains(t, item, "position", kind)
			assert.Contains(t, item, "pos", kind)
			if font, ok := item["font"].(map[string]any); ok {
				assert.IsType(t, 0, font["size"], kind)
			}
		}
	}

	var texts []string
	for _, item := range content["text"] {
		texts = append(texts, item["value"].(string))
	}
	assert.Contains(t, texts, "T")
	assert.Contains(t, texts, "report.csv")
	assert.Contains(t, texts, "x")
}

func TestBuildSpec_CheckboxRowPositions(t *testing.T) {
	fields := form.List{{ID: "c", Type: form.FieldTypeCheckbox, Options: []string{"a", "b", "c"}, XPosition: 50, YPosition: 292, Width: 100, Height: 20}}
	spec, err := BuildSpec(exportPlan(t, fields), nil, nil)
	require.NoError(t, err)

	var rowTexts []map[string]any
	for _, item := range contentOf(t, spec)["text"] {
		if v := item["value"].(string); len(v) == 1 {
			rowTexts = append(rowTexts, item)
		}
	}
	require.Len(t, rowTexts, 3)
	vs := form.DefaultVerticalSpacing
	for i, want := range []float64{500, 485.6, 471.2} {
		pos := rowTexts[i]["pos"].([]float64)
		assert.InDelta(t, want, pos[1]+vs, 1e-9)
	}
}

func TestBuildSpec_Positions(t *testing.T) {
	fields := form.List{
		{ID: "name", Type: form.FieldTypeText, XPosition: 200, YPosition: 100, Width: 120, Height: 20},
		{ID: "solo", Type: form.FieldTypeRadio, Label: "Solo", Options: []string{"only"}, XPosition: 50, YPosition: 300, Width: 100, Height: 20},
		{ID: "edge", Type: form.FieldTypeText, XPosition: -30, YPosition: 100, Width: 50, Height: 20},
	}
	spec, err := BuildSpec(exportPlan(t, fields), nil, nil)
	require.NoError(t, err)
	content := contentOf(t, spec)

	require.Len(t, content["textfield"], 2)
	cfg := form.DefaultTextConfig()
	assert.Equal(t, []float64{200 + cfg.LabelSpacing, 792 - 100 - cfg.VerticalSpacing - 20}, content["textfield"][0]["pos"])
	assert.Equal(t, 0.0, content["textfield"][1]["pos"].([]float64)[0], "negative x is clamped")

	assert.Empty(t, content["radiobuttongroup"])
	require.Len(t, content["checkbox"], 1, "a one-option group is drawn as a checkbox")
	assert.Equal(t, "solo", content["checkbox"][0]["id"])
}

func TestBuildSpec_BadImageFallsBackToBox(t *testing.T) {
	fields := form.List{{ID: "pic", Type: form.FieldTypeImage, ImageData: "!!", Width: 10, Height: 10}}
	spec, err := BuildSpec(exportPlan(t, fields), func(string, string) (string, error) {
		return "", errors.New("invalid base64")
	}, nil)
	require.NoError(t, err)
	content := contentOf(t, spec)
	assert.Empty(t, content["image"])
	assert.Len(t, content["box"], 1)
}

func TestBuildSpec_RequiresExportFrame(t *testing.T) {
	_, err := BuildSpec(layout.Build(nil, form.DefaultTextConfig(), coords.LetterPage()), nil, nil)
	assert.Error(t, err)
}

func TestStageImage(t *testing.T) {
	dir := t.TempDir()
	png := append([]byte("\x89PNG\r\n\x1a\n"), 0, 0, 0, 0)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	path, err := stageImage(dir, "../evil", payload)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".png"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, png, data)

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	path, err = stageImage(dir, "photo", base64.StdEncoding.EncodeToString(jpeg))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	_, err = stageImage(dir, "x", "data:image/png;base64")
	assert.Error(t, err)
	_, err = stageImage(dir, "x", "###")
	assert.Error(t, err)
}

func TestBlankPage(t *testing.T) {
	data, err := BlankPage(coords.Page{Width: 400, Height: 300})
	require.NoError(t, err)

	base, err := pdf.NewValidator(1 << 20).LoadBase(data)
	require.NoError(t, err)
	assert.Equal(t, 400.0, base.Page.Width)
	assert.Equal(t, 300.0, base.Page.Height)

	_, err = BlankPage(coords.Page{})
	assert.Error(t, err)
}
