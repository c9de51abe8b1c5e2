package form

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceIDs(ids ...string) IDGenerator {
	i := 0
	return func() string {
		if i >= len(ids) {
			return ""
		}
		id := ids[i]
		i++
		return id
	}
}

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FieldType
		wantErr bool
	}{
		{name: "exact", input: "text", want: FieldTypeText},
		{name: "camel case", input: "optionList", want: FieldTypeOptionList},
		{name: "case insensitive", input: "OPTIONLIST", want: FieldTypeOptionList},
		{name: "padded", input: "  radio ", want: FieldTypeRadio},
		{name: "unknown", input: "slider", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFieldType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldType_Classification(t *testing.T) {
	choice := map[FieldType]bool{
		FieldTypeRadio: true, FieldTypeCheckbox: true,
		FieldTypeDropdown: true, FieldTypeOptionList: true,
	}
	for _, ft := range AllFieldTypes() {
		assert.True(t, ft.Valid(), ft)
		assert.Equal(t, choice[ft], ft.IsChoiceGroup(), ft)
	}
	assert.False(t, FieldType("slider").Valid())
	assert.True(t, FieldTypeTextarea.IsMultiLine())
	assert.False(t, FieldTypeText.IsMultiLine())
	assert.Equal(t, "Option List", FieldTypeOptionList.DisplayName())
	assert.Equal(t, "File Input", FieldTypeFileInput.DisplayName())
}

func TestResolveFont(t *testing.T) {
	tests := []struct {
		input string
		want  Font
		ok    bool
	}{
		{"Helvetica", FontHelvetica, true},
		{"Times-Roman", FontTimesRoman, true},
		{"TimesRoman", FontTimesRoman, true},
		{"HelveticaBold", FontHelveticaBold, true},
		{"courier_bold_oblique", FontCourierBoldOblique, true},
		{"Comic Sans", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ResolveFont(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	resolved, ok := Font("Papyrus").OrDefault()
	assert.False(t, ok)
	assert.Equal(t, DefaultFont, resolved)
}

func TestCreator_Create(t *testing.T) {
	cfg := DefaultTextConfig()
	c := NewCreator()

	text, err := c.Create(FieldTypeText, nil, cfg, 700)
	require.NoError(t, err)
	assert.NotEmpty(t, text.ID)
	assert.Equal(t, FieldTypeText, text.Type)
	assert.Nil(t, text.Options)
	assert.Equal(t, 700.0, text.YPosition)
	assert.Equal(t, DefaultWidth, text.Width)
	assert.Equal(t, DefaultHeight, text.Height)
	assert.Equal(t, "Text field", text.Label)

	radio, err := c.Create(FieldTypeRadio, List{text}, cfg, 650)
	require.NoError(t, err)
	assert.Equal(t, []string{"Option 1", "Option 2", "Option 3"}, radio.Options)
	assert.NotEqual(t, text.ID, radio.ID)

	list, err := c.Create(FieldTypeOptionList, nil, cfg, 0)
	require.NoError(t, err)
	assert.InDelta(t, 14.4, list.Height, 1e-9)

	_, err = c.Create(FieldType("slider"), nil, cfg, 0)
	assert.Error(t, err)
}

func TestCreator_AvoidsCollisions(t *testing.T) {
	c := NewCreatorWithGenerator(sequenceIDs("a", "a", "b"))
	existing := List{{ID: "a", Type: FieldTypeText}}

	f, err := c.Create(FieldTypeText, existing, DefaultTextConfig(), 0)
	require.NoError(t, err)
	assert.Equal(t, "b", f.ID)

	exhausted := NewCreatorWithGenerator(func() string { return "a" })
	_, err = exhausted.Create(FieldTypeText, existing, DefaultTextConfig(), 0)
	assert.Error(t, err)
}

func TestList_AddUpdateDelete(t *testing.T) {
	base := List{
		{ID: "one", Type: FieldTypeText, Label: "Name"},
		{ID: "two", Type: FieldTypeRadio, Label: "Gender", Options: []string{"a", "b"}},
	}

	t.Run("add rejects duplicates", func(t *testing.T) {
		_, err := base.Add(Field{ID: "one", Type: FieldTypeText})
		assert.Error(t, err)
	})

	t.Run("add does not alias", func(t *testing.T) {
		out, err := base.Add(Field{ID: "three", Type: FieldTypeDate})
		require.NoError(t, err)
		assert.Len(t, out, 3)
		out[0].Label = "changed"
		assert.Equal(t, "Name", base[0].Label)
	})

	t.Run("update missing id is a no-op", func(t *testing.T) {
		label := "x"
		out, changed, err := base.Update("missing", Patch{Label: &label})
		require.NoError(t, err)
		assert.False(t, changed)
		if diff := cmp.Diff(base, out); diff != "" {
			t.Errorf("list changed (-want +got):\n%s", diff)
		}
	})

	t.Run("update touches only the target", func(t *testing.T) {
		label := "Sex"
		out, changed, err := base.Update("two", Patch{Label: &label})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "Sex", out[1].Label)
		assert.Equal(t, "Gender", base[1].Label)
		if diff := cmp.Diff(base[0], out[0]); diff != "" {
			t.Errorf("untouched field changed (-want +got):\n%s", diff)
		}
	})

	t.Run("update rejects invalid merge", func(t *testing.T) {
		width := -1.0
		out, changed, err := base.Update("one", Patch{Width: &width})
		assert.Error(t, err)
		assert.False(t, changed)
		assert.Equal(t, base, out)
	})

	t.Run("delete", func(t *testing.T) {
		out, removed := base.Delete("one")
		assert.True(t, removed)
		require.Len(t, out, 1)
		assert.Equal(t, "two", out[0].ID)

		same, removed := base.Delete("missing")
		assert.False(t, removed)
		assert.Equal(t, base, same)
	})
}

func TestPatch_Apply(t *testing.T) {
	f := Field{ID: "f", Type: FieldTypeText, Label: "Name"}

	radio := FieldTypeRadio
	asRadio := Patch{Type: &radio}.Apply(f)
	assert.Equal(t, DefaultOptions(), asRadio.Options)

	text := "Red\n\n  Green \r\nBlue\n"
	withOptions := Patch{OptionsText: &text}.Apply(asRadio)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, withOptions.Options)

	plain := FieldTypeText
	back := Patch{Type: &plain}.Apply(withOptions)
	assert.Nil(t, back.Options)

	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, MovePatch(1, 2).IsEmpty())
}

func TestField_Styles(t *testing.T) {
	cfg := DefaultTextConfig()
	f := Field{ID: "f", Type: FieldTypeTextarea, Lines: 4, FontSize: 10, InputFont: FontCourier}

	label := f.LabelStyle(cfg)
	assert.Equal(t, FontHelvetica, label.Font)
	assert.Equal(t, 10.0, label.Size)
	assert.Equal(t, 1.2, label.LineHeight)

	input := f.InputStyle(cfg)
	assert.Equal(t, FontCourier, input.Font)
	assert.Equal(t, 4, f.LineCount())

	f.Type = FieldTypeText
	assert.Equal(t, 1, f.LineCount())
}

func TestField_PlainText(t *testing.T) {
	f := Field{
		ID:           "r",
		Type:         FieldTypeRichText,
		Label:        "Terms",
		RichTextData: `<p>Read <b>carefully</b> &amp; sign</p><script>alert(1)</script><p>Thanks</p>`,
	}
	assert.Equal(t, "Read carefully & sign\nThanks", f.PlainText())

	f.RichTextData = ""
	assert.Equal(t, "Terms", f.PlainText())
}

func TestProperty_AddYieldsUniqueField(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	types := AllFieldTypes()
	creator := NewCreator()

	properties.Property("add grows the list by one with a fresh id", prop.ForAll(
		func(existing int, typeIndex int) bool {
			list := List{}
			for i := 0; i < existing; i++ {
				list = append(list, Field{ID: fmt.Sprintf("field-%d", i), Type: FieldTypeText})
			}
			ft := types[typeIndex]

			f, err := creator.Create(ft, list, DefaultTextConfig(), 0)
			if err != nil {
				return false
			}
			if _, taken := list.IDs()[f.ID]; taken {
				return false
			}
			out, err := list.Add(f)
			if err != nil || len(out) != len(list)+1 {
				return false
			}
			if ft.IsChoiceGroup() {
				return len(out[len(out)-1].Options) == DefaultOptionCount
			}
			return out[len(out)-1].Options == nil
		},
		gen.IntRange(0, 30),
		gen.IntRange(0, len(types)-1),
	))

	properties.Property("delete after update removes the field", prop.ForAll(
		func(size int, label string) bool {
			list := List{}
			for i := 0; i < size; i++ {
				list = append(list, Field{ID: fmt.Sprintf("f%d", i), Type: FieldTypeText})
			}
			target := fmt.Sprintf("f%d", size/2)
			updated, _, err := list.Update(target, Patch{Label: &label})
			if err != nil {
				return false
			}
			out, _ := updated.Delete(target)
			return !out.Contains(target) && len(out) == size-1
		},
		gen.IntRange(1, 20),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
