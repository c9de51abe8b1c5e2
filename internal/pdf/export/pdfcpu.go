package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/layout"
)

// PDFCPUBackend renders jobs with pdfcpu's JSON driven form creation
type PDFCPUBackend struct {
	logger *zap.Logger
	tmpDir string
}

// NewPDFCPUBackend creates a backend. Decoded images are staged below
// tmpDir, or the system temp directory when empty.
func NewPDFCPUBackend(logger *zap.Logger, tmpDir string) *PDFCPUBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFCPUBackend{logger: logger, tmpDir: tmpDir}
}

// Render implements Backend
func (b *PDFCPUBackend) Render(ctx context.Context, job Job) ([]byte, error) {
	base := job.Base
	if len(base) == 0 {
		blank, err := BlankPage(job.Plan.Page)
		if err != nil {
			return nil, err
		}
		base = blank
	}

	if b.tmpDir != "" {
		if err := os.MkdirAll(b.tmpDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create staging root: %w", err)
		}
	}
	stage, err := os.MkdirTemp(b.tmpDir, "formdesigner-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stage)

	spec, err := BuildSpec(job.Plan, func(id, payload string) (string, error) {
		return stageImage(stage, id, payload)
	}, b.logger)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form spec: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Create(bytes.NewReader(base), bytes.NewReader(raw), &out, conf); err != nil {
		return nil, fmt.Errorf("pdfcpu create: %w", err)
	}
	return out.Bytes(), nil
}

// ImageStager writes an image payload somewhere pdfcpu can read it and
// returns the path
type ImageStager func(fieldID, payload string) (string, error)

// BuildSpec converts an export-frame plan into pdfcpu's create JSON
func BuildSpec(plan layout.Plan, stage ImageStager, logger *zap.Logger) (map[string]any, error) {
	if plan.Frame != layout.FrameExport {
		return nil, fmt.Errorf("plan must be in the export frame, got %s", plan.Frame)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	content := map[string][]map[string]any{}
	add := func(kind string, item map[string]any) {
		content[kind] = append(content[kind], item)
	}

	for _, pl := range plan.Placements {
		if pl.Label.Text != "" {
			add("text", textItem(pl.Label.Text, pl.Label.At.X, pl.Label.At.Y, pl.Label.Style))
		}

		w := pl.Widget
		at := pos(w.Rect.X, w.Rect.Y)
		switch w.Kind {
		case layout.WidgetTextInput:
			add("textfield", map[string]any{
				"id": w.Name, "value": "", "pos": at,
				"width": w.Rect.Width, "height": w.Rect.Height, "font": fontItem(w.Style),
			})
		case layout.WidgetMultiLineInput:
			add("textfield", map[string]any{
				"id": w.Name, "value": "", "pos": at,
				"width": w.Rect.Width, "height": w.Rect.Height, "font": fontItem(w.Style),
				"multiline": true,
			})
		case layout.WidgetDateInput:
			add("datefield", map[string]any{
				"id": w.Name, "value": "", "pos": at,
				"width": w.Rect.Width, "height": w.Rect.Height, "font": fontItem(w.Style),
				"format": w.Format,
			})
		case layout.WidgetCheckboxGroup:
			for _, row := range pl.Rows {
				add("checkbox", checkboxItem(row.Key, row))
				add("text", textItem(row.Label.Text, row.Label.At.X, row.Label.At.Y, row.Label.Style))
			}
		case layout.WidgetRadioGroup:
			switch len(pl.Rows) {
			case 0:
				continue
			case 1:
				// pdfcpu needs two buttons for a group; a lone option is a checkbox
				row := pl.Rows[0]
				add("checkbox", checkboxItem(w.Name, row))
				add("text", textItem(row.Label.Text, row.Label.At.X, row.Label.At.Y, row.Label.Style))
				continue
			}
			add("radiobuttongroup", radioItem(pl))
		case layout.WidgetDropdown:
			add("combobox", map[string]any{
				"id": w.Name, "value": "", "pos": at,
				"width": w.Rect.Width, "height": w.Rect.Height, "font": fontItem(w.Style),
				"options": append([]string{""}, w.Options...),
			})
		case layout.WidgetListBox:
			if len(w.Options) == 0 {
				add("box", boxItem(at, w.Rect.Width, w.Rect.Height))
				continue
			}
			add("listbox", map[string]any{
				"id": w.Name, "pos": at,
				"width": w.Rect.Width, "height": w.Rect.Height, "font": fontItem(w.Style),
				"options": append([]string(nil), w.Options...),
			})
		case layout.WidgetImage, layout.WidgetSignature:
			if w.Image == "" {
				add("box", boxItem(at, w.Rect.Width, w.Rect.Height))
				continue
			}
			path, err := stage(w.Name, w.Image)
			if err != nil {
				logger.Warn("skipping undecodable image", zap.String("field", w.Name), zap.Error(err))
				add("box", boxItem(at, w.Rect.Width, w.Rect.Height))
				continue
			}
			add("image", map[string]any{
				"src": path, "pos": at, "width": w.Rect.Width, "height": w.Rect.Height,
			})
		case layout.WidgetStaticText:
			if w.Text == "" {
				continue
			}
			// text runs downward from the top edge of the body
			top := w.Rect.Y + w.Rect.Height - w.Style.Size
			add("text", textItem(w.Text, w.Rect.X, top, w.Style))
		}
	}

	return map[string]any{
		"origin": "LowerLeft",
		"pages": map[string]any{
			"1": map[string]any{"content": content},
		},
	}, nil
}

// pos is a pdfcpu position; pdfcpu rejects negative coordinates
func pos(x, y float64) []float64 {
	return []float64{max(x, 0), max(y, 0)}
}

// points rounds a length to the whole points pdfcpu takes for fonts,
// label widths and gaps
func points(v float64) int {
	return max(int(math.Round(v)), 1)
}

func checkboxItem(id string, row layout.OptionRow) map[string]any {
	sel := row.Selector.Rect
	return map[string]any{
		"id": id, "value": false,
		"pos":   pos(sel.X, sel.Y),
		"width": sel.Width,
	}
}

// radioItem stacks one pdfcpu button per row. pdfcpu spaces buttons by
// their size plus the label gap, so the gap carries the rest of the stride.
func radioItem(pl layout.Placement) map[string]any {
	w := pl.Widget
	first := pl.Rows[0]
	size := first.Selector.Rect.Width
	stride := first.Selector.Rect.Y - pl.Rows[1].Selector.Rect.Y

	name := pl.Label.Text
	if name == "" {
		name = w.Name
	}
	values := make([]string, len(pl.Rows))
	for i, row := range pl.Rows {
		values[i] = row.Value
	}
	return map[string]any{
		"id": w.Name, "value": "",
		"pos":         pos(first.Selector.Rect.X, first.Selector.Rect.Y),
		"width":       size,
		"orientation": "vertical",
		"buttons": map[string]any{
			"values": values,
			"gap":    points(first.Label.At.X - first.Selector.Rect.X - size),
			"label": map[string]any{
				"value": name,
				"width": points(w.Rect.Width),
				"gap":   points(stride - size),
				"pos":   "right",
				"font":  fontItem(first.Label.Style),
			},
		},
	}
}

func fontItem(style form.TextStyle) map[string]any {
	return map[string]any{"name": string(style.Font), "size": points(style.Size)}
}

func textItem(value string, x, y float64, style form.TextStyle) map[string]any {
	return map[string]any{
		"value": value,
		"pos":   pos(x, y),
		"font":  fontItem(style),
	}
}

func boxItem(at []float64, w, h float64) map[string]any {
	return map[string]any{
		"pos": at, "width": w, "height": h,
		"border": map[string]any{"width": 1, "col": "#000000"},
	}
}

// stageImage decodes a base64 payload, optionally wrapped in a data URL, and
// writes it below dir
func stageImage(dir, fieldID, payload string) (string, error) {
	mime, data := "", payload
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return "", fmt.Errorf("malformed data URL")
		}
		mime = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		data = rest
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return "", fmt.Errorf("invalid base64 image: %w", err)
	}

	ext := ".png"
	switch {
	case mime == "image/jpeg" || bytes.HasPrefix(raw, []byte{0xFF, 0xD8, 0xFF}):
		ext = ".jpg"
	case mime == "image/png" || bytes.HasPrefix(raw, []byte("\x89PNG")):
		ext = ".png"
	}

	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, fieldID)
	path := filepath.Join(dir, name+ext)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("failed to stage image: %w", err)
	}
	return path, nil
}
