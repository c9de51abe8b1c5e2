package reorder

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

func makeList(n int) form.List {
	l := make(form.List, n)
	for i := range l {
		l[i] = form.Field{ID: fmt.Sprintf("f%d", i), Type: form.FieldTypeText, YPosition: float64(i * 3)}
	}
	return l
}

func ids(l form.List) []string {
	out := make([]string, len(l))
	for i, f := range l {
		out[i] = f.ID
	}
	return out
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Stacked")
	require.NoError(t, err)
	assert.Equal(t, ModeStacked, m)

	m, err = ParseMode(" freeform ")
	require.NoError(t, err)
	assert.Equal(t, ModeFreeform, m)

	_, err = ParseMode("grid")
	assert.Error(t, err)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"down", 0, 2, []string{"f1", "f2", "f0", "f3"}},
		{"up", 3, 1, []string{"f0", "f3", "f1", "f2"}},
		{"same", 2, 2, []string{"f0", "f1", "f2", "f3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := makeList(4)
			got, err := Move(src, tt.from, tt.to)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, []string{"f0", "f1", "f2", "f3"}, ids(src), "source list must not be mutated")
		})
	}

	_, err := Move(makeList(2), -1, 0)
	assert.Error(t, err)
	_, err = Move(makeList(2), 0, 2)
	assert.Error(t, err)
}

func TestPolicy_Renumber(t *testing.T) {
	p := DefaultPolicy()
	got, err := p.Move(makeList(3), 2, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"f2", "f0", "f1"}, ids(got))
	for i, f := range got {
		assert.Equal(t, 92+float64(i)*50, f.YPosition)
	}
	assert.True(t, p.Consistent(got))
	assert.Equal(t, 242.0, p.NextY(3))
}

func TestDefaultPolicy_StacksDownThePage(t *testing.T) {
	p := DefaultPolicy()
	page := coords.LetterPage()
	stacked := p.Renumber(makeList(15))

	assert.Equal(t, 700.0, page.ExportY(stacked[0].YPosition), "first field 700pt above the page bottom")
	for i := 1; i < len(stacked); i++ {
		assert.Greater(t, stacked[i].YPosition, stacked[i-1].YPosition, "field %d sits below field %d", i, i-1)
		assert.Equal(t, 700-float64(i)*50, page.ExportY(stacked[i].YPosition))
	}
	for i, f := range stacked {
		assert.GreaterOrEqual(t, f.YPosition, 0.0, "field %d is above the page top", i)
		assert.LessOrEqual(t, f.YPosition, page.Height, "field %d is below the page bottom", i)
	}
}

func TestPolicy_Freeform(t *testing.T) {
	p := Policy{Mode: ModeFreeform, Baseline: 700, Stride: 50}
	got, err := p.Move(makeList(3), 0, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"f1", "f2", "f0"}, ids(got))
	assert.Equal(t, []float64{3, 6, 0}, []float64{got[0].YPosition, got[1].YPosition, got[2].YPosition})
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{Mode: "grid"}.Validate())
}

func TestProperty_RenumberIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("stacked reorder yields baseline - i*stride and is idempotent", prop.ForAll(
		func(n, from, to int, baseline, stride float64) bool {
			p := Policy{Mode: ModeStacked, Baseline: baseline, Stride: stride}
			from %= n
			to %= n

			once, err := p.Move(makeList(n), from, to)
			if err != nil {
				return false
			}
			for i, f := range once {
				if f.YPosition != baseline-float64(i)*stride {
					return false
				}
			}
			twice := p.Renumber(once)
			return cmp.Diff(once, twice) == ""
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.Float64Range(0, 1000),
		gen.Float64Range(1, 100),
	))

	properties.TestingRun(t)
}
