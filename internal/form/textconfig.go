package form

import (
	"errors"
	"fmt"
)

// Default text settings, matching a 12pt Helvetica form
const (
	DefaultFontSize        = 12.0
	DefaultLineHeight      = 1.2
	DefaultLabelSpacing    = 2.0
	DefaultVerticalSpacing = 5.0
)

// TextConfig holds the styling shared by fields without their own override
type TextConfig struct {
	Font            Font    `json:"font" yaml:"font"`
	FontSize        float64 `json:"fontSize" yaml:"fontSize"`
	LineHeight      float64 `json:"lineHeight" yaml:"lineHeight"`
	LabelSpacing    float64 `json:"labelSpacing" yaml:"labelSpacing"`
	VerticalSpacing float64 `json:"verticalSpacing" yaml:"verticalSpacing"`
}

// DefaultTextConfig returns the shared defaults used by new sessions
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Font:            DefaultFont,
		FontSize:        DefaultFontSize,
		LineHeight:      DefaultLineHeight,
		LabelSpacing:    DefaultLabelSpacing,
		VerticalSpacing: DefaultVerticalSpacing,
	}
}

// Validate checks that the config can drive layout
func (c TextConfig) Validate() error {
	if c.Font == "" {
		return errors.New("text config font cannot be empty")
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("text config font size must be positive, got %v", c.FontSize)
	}
	if c.LineHeight <= 0 {
		return fmt.Errorf("text config line height must be positive, got %v", c.LineHeight)
	}
	return nil
}

// TextConfigPatch carries a partial TextConfig update
type TextConfigPatch struct {
	Font            *Font    `json:"font,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	LineHeight      *float64 `json:"lineHeight,omitempty"`
	LabelSpacing    *float64 `json:"labelSpacing,omitempty"`
	VerticalSpacing *float64 `json:"verticalSpacing,omitempty"`
}

// Apply merges the patch into c and validates the result
func (p TextConfigPatch) Apply(c TextConfig) (TextConfig, error) {
	out := c
	if p.Font != nil {
		out.Font = *p.Font
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.LineHeight != nil {
		out.LineHeight = *p.LineHeight
	}
	if p.LabelSpacing != nil {
		out.LabelSpacing = *p.LabelSpacing
	}
	if p.VerticalSpacing != nil {
		out.VerticalSpacing = *p.VerticalSpacing
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}
