package form

import (
	"errors"
	"fmt"
	"strings"
)

// Field is one placeable form element.
//
// XPosition and YPosition anchor the label in editor space, measured from
// the top-left corner of the page (Y grows downward). Zero style values
// inherit from the shared TextConfig.
type Field struct {
	ID      string    `json:"id" yaml:"id"`
	Type    FieldType `json:"type" yaml:"type"`
	Label   string    `json:"label" yaml:"label"`
	Options []string  `json:"options,omitempty" yaml:"options,omitempty"`

	XPosition float64 `json:"xPosition" yaml:"xPosition"`
	YPosition float64 `json:"yPosition" yaml:"yPosition"`
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`

	Font          Font    `json:"font,omitempty" yaml:"font,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	Lines         int     `json:"lines,omitempty" yaml:"lines,omitempty"`
	InputFont     Font    `json:"inputFont,omitempty" yaml:"inputFont,omitempty"`
	InputFontSize float64 `json:"inputFontSize,omitempty" yaml:"inputFontSize,omitempty"`

	ImageData     string `json:"imageData,omitempty" yaml:"imageData,omitempty"`
	SignatureData string `json:"signatureData,omitempty" yaml:"signatureData,omitempty"`
	FileData      string `json:"fileData,omitempty" yaml:"fileData,omitempty"`
	RichTextData  string `json:"richTextData,omitempty" yaml:"richTextData,omitempty"`
}

// TextStyle is a fully resolved font selection
type TextStyle struct {
	Font       Font
	Size       float64
	LineHeight float64
}

// RowStride is the vertical distance between two stacked text rows
func (s TextStyle) RowStride() float64 {
	return s.Size * s.LineHeight
}

// Clone returns a copy that shares no slices with f
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = make([]string, len(f.Options))
		copy(out.Options, f.Options)
	}
	return out
}

// LineCount returns the number of text lines of the widget body, at least 1
func (f Field) LineCount() int {
	if !f.Type.IsMultiLine() || f.Lines < 1 {
		return 1
	}
	return f.Lines
}

// LabelStyle resolves the label font against the shared defaults
func (f Field) LabelStyle(cfg TextConfig) TextStyle {
	style := TextStyle{Font: cfg.Font, Size: cfg.FontSize, LineHeight: cfg.LineHeight}
	if f.Font != "" {
		style.Font = f.Font
	}
	if f.FontSize > 0 {
		style.Size = f.FontSize
	}
	if f.LineHeight > 0 {
		style.LineHeight = f.LineHeight
	}
	return style
}

// InputStyle resolves the font used for the widget value text
func (f Field) InputStyle(cfg TextConfig) TextStyle {
	style := f.LabelStyle(cfg)
	if f.InputFont != "" {
		style.Font = f.InputFont
	}
	if f.InputFontSize > 0 {
		style.Size = f.InputFontSize
	}
	return style
}

// ImagePayload returns the embedded image for image and signature fields
func (f Field) ImagePayload() string {
	switch f.Type {
	case FieldTypeImage:
		return f.ImageData
	case FieldTypeSignature:
		if f.SignatureData != "" {
			return f.SignatureData
		}
		return f.ImageData
	default:
		return ""
	}
}

// Normalize drops attributes that are meaningless for the field type
func (f Field) Normalize() Field {
	out := f.Clone()
	if !out.Type.IsChoiceGroup() {
		out.Options = nil
	}
	if !out.Type.IsMultiLine() {
		out.Lines = 0
	}
	if !out.Type.CarriesImage() {
		out.ImageData = ""
		out.SignatureData = ""
	}
	if out.Type != FieldTypeRichText {
		out.RichTextData = ""
	}
	return out
}

// Validate checks the field in isolation
func (f Field) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errors.New("field id cannot be empty")
	}
	if !f.Type.Valid() {
		return fmt.Errorf("field %s: unknown type %q", f.ID, f.Type)
	}
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("field %s: size cannot be negative", f.ID)
	}
	if f.FontSize < 0 || f.LineHeight < 0 || f.InputFontSize < 0 {
		return fmt.Errorf("field %s: font metrics cannot be negative", f.ID)
	}
	if f.Lines < 0 {
		return fmt.Errorf("field %s: line count cannot be negative", f.ID)
	}
	return nil
}

// ParseOptions splits editor text into options, one per line, dropping blanks
func ParseOptions(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
