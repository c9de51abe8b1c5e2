package form

// Patch is a partial field update. Nil members leave the field untouched.
// The id of a field can never be patched.
type Patch struct {
	Type        *FieldType `json:"type,omitempty"`
	Label       *string    `json:"label,omitempty"`
	Options     *[]string  `json:"options,omitempty"`
	OptionsText *string    `json:"optionsText,omitempty"`

	XPosition *float64 `json:"xPosition,omitempty"`
	YPosition *float64 `json:"yPosition,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`

	Font          *Font    `json:"font,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	Lines         *int     `json:"lines,omitempty"`
	InputFont     *Font    `json:"inputFont,omitempty"`
	InputFontSize *float64 `json:"inputFontSize,omitempty"`

	ImageData     *string `json:"imageData,omitempty"`
	SignatureData *string `json:"signatureData,omitempty"`
	FileData      *string `json:"fileData,omitempty"`
	RichTextData  *string `json:"richTextData,omitempty"`
}

// MovePatch builds the patch issued by a completed drag
func MovePatch(x, y float64) Patch {
	return Patch{XPosition: &x, YPosition: &y}
}

// IsEmpty reports whether applying p would change nothing
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply merges p into a copy of f
func (p Patch) Apply(f Field) Field {
	out := f.Clone()

	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Options != nil {
		out.Options = append([]string(nil), (*p.Options)...)
	}
	if p.OptionsText != nil {
		out.Options = ParseOptions(*p.OptionsText)
	}
	if p.XPosition != nil {
		out.XPosition = *p.XPosition
	}
	if p.YPosition != nil {
		out.YPosition = *p.YPosition
	}
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.Font != nil {
		out.Font = *p.Font
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.LineHeight != nil {
		out.LineHeight = *p.LineHeight
	}
	if p.Lines != nil {
		out.Lines = *p.Lines
	}
	if p.InputFont != nil {
		out.InputFont = *p.InputFont
	}
	if p.InputFontSize != nil {
		out.InputFontSize = *p.InputFontSize
	}
	if p.ImageData != nil {
		out.ImageData = *p.ImageData
	}
	if p.SignatureData != nil {
		out.SignatureData = *p.SignatureData
	}
	if p.FileData != nil {
		out.FileData = *p.FileData
	}
	if p.RichTextData != nil {
		out.RichTextData = *p.RichTextData
	}

	// A type switch into a choice group starts from the default options
	if p.Type != nil && out.Type.IsChoiceGroup() && out.Options == nil {
		out.Options = DefaultOptions()
	}
	return out.Normalize()
}
