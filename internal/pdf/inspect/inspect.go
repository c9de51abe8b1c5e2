// Package inspect reads back the interactive fields of a generated PDF.
package inspect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
)

// FieldKind is the AcroForm class of a field
type FieldKind string

const (
	FieldKindText      FieldKind = "text"
	FieldKindCheckbox  FieldKind = "checkbox"
	FieldKindRadio     FieldKind = "radio"
	FieldKindChoice    FieldKind = "choice"
	FieldKindButton    FieldKind = "button"
	FieldKindSignature FieldKind = "signature"
	FieldKindUnknown   FieldKind = "unknown"
)

// Field is one terminal AcroForm field
type Field struct {
	Name    string       `json:"name"`
	Kind    FieldKind    `json:"kind"`
	Value   string       `json:"value,omitempty"`
	Options []string     `json:"options,omitempty"`
	Rect    *coords.Rect `json:"rect,omitempty"`
	Widgets int          `json:"widgets"`
}

// Report summarises a PDF
type Report struct {
	PageCount int         `json:"page_count"`
	Page      coords.Page `json:"page"`
	Fields    []Field     `json:"fields"`
}

// Names returns the sorted field names
func (r *Report) Names() []string {
	out := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		out = append(out, f.Name)
	}
	sort.Strings(out)
	return out
}

// Field returns the field with the given name
func (r *Report) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Inspector walks the AcroForm of a document with pdfcpu
type Inspector struct {
	logger *zap.Logger
}

// New creates an Inspector. A nil logger discards output.
func New(logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{logger: logger}
}

// InspectFile reads the PDF at path
func (in *Inspector) InspectFile(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()
	return in.Inspect(file)
}

// InspectBytes reads an in-memory PDF
func (in *Inspector) InspectBytes(data []byte) (*Report, error) {
	return in.Inspect(bytes.NewReader(data))
}

// Inspect reads a PDF and lists its terminal form fields
func (in *Inspector) Inspect(rs io.ReadSeeker) (*Report, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	report := &Report{PageCount: ctx.PageCount, Fields: []Field{}}
	if dims, err := ctx.PageDims(); err == nil && len(dims) > 0 {
		report.Page = coords.Page{Width: dims[0].Width, Height: dims[0].Height}
	}

	fields, err := in.fields(ctx)
	if err != nil {
		return nil, err
	}
	report.Fields = fields
	return report, nil
}

func (in *Inspector) fields(ctx *model.Context) ([]Field, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return []Field{}, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return []Field{}, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return []Field{}, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	out := []Field{}
	for i, ref := range fieldsArray {
		if err := in.walk(ctx, ref, "", "", &out); err != nil {
			in.logger.Debug("skipping unreadable field", zap.Int("index", i), zap.Error(err))
		}
	}
	return out, nil
}

// walk descends the field tree, joining partial names with dots, and
// records every field that carries a widget
func (in *Inspector) walk(ctx *model.Context, obj types.Object, parentName, inheritedFT string, out *[]Field) error {
	dict, err := ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("failed to dereference field: %w", err)
	}
	if dict == nil {
		return nil
	}

	name := parentName
	if nameObj, found := dict.Find("T"); found {
		if partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && partial != "" {
			if name != "" {
				name += "."
			}
			name += partial
		}
	}

	ft := inheritedFT
	if ftObj, found := dict.Find("FT"); found {
		if n, err := ctx.DereferenceName(ftObj, model.V10, nil); err == nil {
			ft = string(n)
		}
	}

	var namedKids []types.Object
	widgets := 0
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				kidDict, err := ctx.DereferenceDict(kid)
				if err != nil || kidDict == nil {
					continue
				}
				if _, named := kidDict.Find("T"); named {
					namedKids = append(namedKids, kid)
				} else {
					widgets++
				}
			}
		}
	}
	if _, hasRect := dict.Find("Rect"); hasRect {
		widgets++
	}

	for _, kid := range namedKids {
		if err := in.walk(ctx, kid, name, ft, out); err != nil {
			in.logger.Debug("skipping unreadable kid", zap.String("parent", name), zap.Error(err))
		}
	}
	if len(namedKids) > 0 && widgets == 0 {
		return nil
	}

	field := Field{
		Name:    name,
		Kind:    kind(ctx, dict, ft),
		Widgets: widgets,
		Rect:    rect(ctx, dict),
	}
	if valueObj, found := dict.Find("V"); found {
		field.Value = value(ctx, valueObj)
	}
	if field.Kind == FieldKindChoice {
		field.Options = options(ctx, dict)
	}
	*out = append(*out, field)
	return nil
}

func kind(ctx *model.Context, dict types.Dict, ft string) FieldKind {
	flags := 0
	if flagsObj, found := dict.Find("Ff"); found {
		if f, err := ctx.DereferenceInteger(flagsObj); err == nil && f != nil {
			flags = int(*f)
		}
	}
	switch ft {
	case "Btn":
		if flags&(1<<15) != 0 {
			return FieldKindRadio
		}
		if flags&(1<<16) != 0 {
			return FieldKindButton
		}
		return FieldKindCheckbox
	case "Tx":
		return FieldKindText
	case "Ch":
		return FieldKindChoice
	case "Sig":
		return FieldKindSignature
	default:
		return FieldKindUnknown
	}
}

func value(ctx *model.Context, obj types.Object) string {
	if s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil {
		return s
	}
	if n, err := ctx.DereferenceName(obj, model.V10, nil); err == nil {
		return string(n)
	}
	return ""
}

func options(ctx *model.Context, dict types.Dict) []string {
	optObj, found := dict.Find("Opt")
	if !found {
		return nil
	}
	optArray, err := ctx.DereferenceArray(optObj)
	if err != nil {
		return nil
	}
	var out []string
	for _, opt := range optArray {
		if s, err := ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			out = append(out, s)
		} else if pair, err := ctx.DereferenceArray(opt); err == nil && len(pair) >= 2 {
			if display, err := ctx.DereferenceStringOrHexLiteral(pair[1], model.V10, nil); err == nil {
				out = append(out, display)
			}
		}
	}
	return out
}

// rect returns the widget rectangle in PDF space (lower-left origin)
func rect(ctx *model.Context, dict types.Dict) *coords.Rect {
	rectObj, found := dict.Find("Rect")
	if !found {
		return nil
	}
	arr, err := ctx.DereferenceArray(rectObj)
	if err != nil || len(arr) != 4 {
		return nil
	}
	v := make([]float64, 4)
	for i, c := range arr {
		if f, err := ctx.DereferenceNumber(c); err == nil {
			v[i] = f
		}
	}
	return &coords.Rect{X: v[0], Y: v[1], Width: v[2] - v[0], Height: v[3] - v[1]}
}
