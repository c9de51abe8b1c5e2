package form

import "strings"

// Font is one of the standard PDF fonts that every viewer ships
type Font string

const (
	FontHelvetica            Font = "Helvetica"
	FontHelveticaBold        Font = "Helvetica-Bold"
	FontHelveticaOblique     Font = "Helvetica-Oblique"
	FontHelveticaBoldOblique Font = "Helvetica-BoldOblique"
	FontTimesRoman           Font = "Times-Roman"
	FontTimesBold            Font = "Times-Bold"
	FontTimesItalic          Font = "Times-Italic"
	FontTimesBoldItalic      Font = "Times-BoldItalic"
	FontCourier              Font = "Courier"
	FontCourierBold          Font = "Courier-Bold"
	FontCourierOblique       Font = "Courier-Oblique"
	FontCourierBoldOblique   Font = "Courier-BoldOblique"

	// DefaultFont is substituted whenever a requested font cannot be resolved
	DefaultFont = FontHelvetica
)

var supportedFonts = []Font{
	FontHelvetica, FontHelveticaBold, FontHelveticaOblique, FontHelveticaBoldOblique,
	FontTimesRoman, FontTimesBold, FontTimesItalic, FontTimesBoldItalic,
	FontCourier, FontCourierBold, FontCourierOblique, FontCourierBoldOblique,
}

// fontAliases maps the camel-case names used by browser PDF toolkits
var fontAliases = map[string]Font{
	"helvetica":            FontHelvetica,
	"helveticabold":        FontHelveticaBold,
	"helveticaoblique":     FontHelveticaOblique,
	"helveticaboldoblique": FontHelveticaBoldOblique,
	"timesroman":           FontTimesRoman,
	"timesbold":            FontTimesBold,
	"timesitalic":          FontTimesItalic,
	"timesbolditalic":      FontTimesBoldItalic,
	"courier":              FontCourier,
	"courierbold":          FontCourierBold,
	"courieroblique":       FontCourierOblique,
	"courierboldoblique":   FontCourierBoldOblique,
}

// SupportedFonts lists the fonts the exporter can embed
func SupportedFonts() []Font {
	out := make([]Font, len(supportedFonts))
	copy(out, supportedFonts)
	return out
}

// ResolveFont maps a font name or alias to a supported font.
// The boolean is false when the name is unknown.
func ResolveFont(name string) (Font, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if f, ok := fontAliases[key]; ok {
		return f, true
	}
	return "", false
}

// Supported reports whether f names an embeddable font
func (f Font) Supported() bool {
	_, ok := ResolveFont(string(f))
	return ok
}

// OrDefault resolves f, substituting DefaultFont when it is unknown
func (f Font) OrDefault() (Font, bool) {
	if resolved, ok := ResolveFont(string(f)); ok {
		return resolved, true
	}
	return DefaultFont, false
}
