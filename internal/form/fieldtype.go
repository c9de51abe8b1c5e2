package form

import (
	"fmt"
	"strings"
)

// FieldType selects the layout and rendering branch of a field
type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeTextarea   FieldType = "textarea"
	FieldTypeRadio      FieldType = "radio"
	FieldTypeCheckbox   FieldType = "checkbox"
	FieldTypeDropdown   FieldType = "dropdown"
	FieldTypeOptionList FieldType = "optionList"
	FieldTypeDate       FieldType = "date"
	FieldTypeTime       FieldType = "time"
	FieldTypeNumber     FieldType = "number"
	FieldTypeImage      FieldType = "image"
	FieldTypeSignature  FieldType = "signature"
	FieldTypeFileInput  FieldType = "fileInput"
	FieldTypeFileOutput FieldType = "fileOutput"
	FieldTypeRichText   FieldType = "richText"
)

var allFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextarea,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeDropdown,
	FieldTypeOptionList,
	FieldTypeDate,
	FieldTypeTime,
	FieldTypeNumber,
	FieldTypeImage,
	FieldTypeSignature,
	FieldTypeFileInput,
	FieldTypeFileOutput,
	FieldTypeRichText,
}

// AllFieldTypes returns every supported field type in declaration order
func AllFieldTypes() []FieldType {
	out := make([]FieldType, len(allFieldTypes))
	copy(out, allFieldTypes)
	return out
}

// ParseFieldType resolves a field type name, ignoring case
func ParseFieldType(name string) (FieldType, error) {
	trimmed := strings.TrimSpace(name)
	for _, t := range allFieldTypes {
		if strings.EqualFold(string(t), trimmed) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown field type: %q", name)
}

// Valid reports whether t is one of the supported field types
func (t FieldType) Valid() bool {
	for _, known := range allFieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsChoiceGroup reports whether the field value is picked from Options
func (t FieldType) IsChoiceGroup() bool {
	switch t {
	case FieldTypeRadio, FieldTypeCheckbox, FieldTypeDropdown, FieldTypeOptionList:
		return true
	default:
		return false
	}
}

// IsMultiLine reports whether the widget height scales with Lines
func (t FieldType) IsMultiLine() bool {
	return t == FieldTypeTextarea || t == FieldTypeRichText
}

// CarriesImage reports whether the field draws an embedded image payload
func (t FieldType) CarriesImage() bool {
	return t == FieldTypeImage || t == FieldTypeSignature
}

// DisplayName returns a human label such as "Option List"
func (t FieldType) DisplayName() string {
	s := string(t)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range s {
		if i == 0 {
			b.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
