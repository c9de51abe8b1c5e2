package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// PlainText returns the rich-text payload (or the label) stripped of markup,
// ready to be drawn as a static string
func (f Field) PlainText() string {
	raw := f.RichTextData
	if f.Type != FieldTypeRichText || strings.TrimSpace(raw) == "" {
		return f.Label
	}
	return sanitizeRichText(raw)
}

func sanitizeRichText(raw string) string {
	// Block elements become line breaks before the tags are stripped
	replacer := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n", "</div>", "\n", "</li>", "\n")
	cleaned := plainTextPolicy().Sanitize(replacer.Replace(raw))
	cleaned = html.UnescapeString(cleaned)

	lines := strings.Split(cleaned, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func plainTextPolicy() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}
