package form

import (
	"fmt"

	"github.com/google/uuid"
)

// Default geometry of newly created fields
const (
	DefaultXPosition   = 50.0
	DefaultWidth       = 100.0
	DefaultHeight      = 30.0
	DefaultImageWidth  = 120.0
	DefaultImageHeight = 60.0

	// DefaultOptionCount is the number of options a new choice group starts with
	DefaultOptionCount = 3

	maxIDAttempts = 8
)

// DefaultOptions returns the placeholder options of a new choice group
func DefaultOptions() []string {
	out := make([]string, DefaultOptionCount)
	for i := range out {
		out[i] = fmt.Sprintf("Option %d", i+1)
	}
	return out
}

// IDGenerator returns a fresh opaque identifier
type IDGenerator func() string

// Creator builds new fields with unique ids and default geometry
type Creator struct {
	newID    IDGenerator
	defaultX float64
}

// NewCreator creates a Creator that assigns random UUIDs
func NewCreator() *Creator {
	return NewCreatorWithGenerator(uuid.NewString)
}

// NewCreatorWithGenerator creates a Creator using gen for ids
func NewCreatorWithGenerator(gen IDGenerator) *Creator {
	if gen == nil {
		gen = uuid.NewString
	}
	return &Creator{newID: gen, defaultX: DefaultXPosition}
}

// Create builds a field of type t anchored at (defaultX, y). The id is
// guaranteed not to collide with any id in existing.
func (c *Creator) Create(t FieldType, existing List, cfg TextConfig, y float64) (Field, error) {
	if !t.Valid() {
		return Field{}, fmt.Errorf("unknown field type: %q", t)
	}

	id, err := c.uniqueID(existing)
	if err != nil {
		return Field{}, err
	}

	f := Field{
		ID:        id,
		Type:      t,
		Label:     fmt.Sprintf("%s field", t.DisplayName()),
		XPosition: c.defaultX,
		YPosition: y,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
	}

	stride := cfg.FontSize * cfg.LineHeight
	switch {
	case t.IsChoiceGroup():
		f.Options = DefaultOptions()
		if t == FieldTypeOptionList && stride > 0 {
			f.Height = stride
		}
	case t.IsMultiLine():
		f.Lines = 1
	case t.CarriesImage():
		f.Width = DefaultImageWidth
		f.Height = DefaultImageHeight
	}
	return f, nil
}

func (c *Creator) uniqueID(existing List) (string, error) {
	ids := existing.IDs()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := c.newID()
		if id == "" {
			continue
		}
		if _, taken := ids[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique field id after %d attempts", maxIDAttempts)
}
