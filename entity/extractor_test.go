package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogkit/core"
)

func entityPairs(entities []core.Entity) [][2]string {
	pairs := make([][2]string, 0, len(entities))
	for _, ent := range entities {
		pairs = append(pairs, [2]string{ent.Type, ent.Value})
	}
	return pairs
}

func TestExtractDefaults(t *testing.T) {
	x := New()

	entities := x.Extract("Contact test@example.com or call 555-123-4567", "")

	// The digit groups inside the phone number also match the number
	// pattern; nothing deduplicates across types.
	assert.Equal(t, [][2]string{
		{TypeEmail, "test@example.com"},
		{TypePhone, "555-123-4567"},
		{TypeNumber, "555"},
		{TypeNumber, "123"},
		{TypeNumber, "4567"},
	}, entityPairs(entities))

	for _, ent := range entities {
		require.NotNil(t, ent.Start)
		require.NotNil(t, ent.End)
		assert.Less(t, *ent.Start, *ent.End)
		assert.Equal(t, ent.Value, "Contact test@example.com or call 555-123-4567"[*ent.Start:*ent.End])
	}

	for i := 1; i < len(entities); i++ {
		assert.LessOrEqual(t, *entities[i-1].Start, *entities[i].Start, "entities must be sorted by start offset")
	}
}

func TestExtractIdempotent(t *testing.T) {
	x := New()
	text := "Email a@b.co, visit https://example.com/x on 12/25/2024"

	first := x.Extract(text, "")
	second := x.Extract(text, "")

	assert.Equal(t, first, second)
}

func TestExtractSameStartKeepsRegistrationOrder(t *testing.T) {
	x := New()

	entities := x.Extract("12/25/2024", "")

	// "12" (number) and "12/25/2024" (date) both start at offset zero;
	// number was registered first, so it stays first.
	assert.Equal(t, [][2]string{
		{TypeNumber, "12"},
		{TypeDate, "12/25/2024"},
		{TypeNumber, "25"},
		{TypeNumber, "2024"},
	}, entityPairs(entities))
}

func TestExtractPhoneFormats(t *testing.T) {
	x := New()

	tests := []struct {
		text  string
		found bool
	}{
		{text: "Call me at 555-123-4567", found: true},
		{text: "Call me at 555.123.4567", found: true},
		{text: "Call me at 5551234567", found: true},
		{text: "Call me at +1 (555) 123-4567", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.found, x.HasType(tt.text, TypePhone))
		})
	}
}

func TestExtractURLCaseInsensitive(t *testing.T) {
	x := New()

	values := x.ExtractByType("see HTTPS://Example.COM/Path?q=1", TypeURL)

	require.Len(t, values, 1)
	assert.Equal(t, "HTTPS://Example.COM/Path?q=1", values[0])
}

func TestExtractEmptyText(t *testing.T) {
	x := New()

	assert.Empty(t, x.Extract("", ""))
	assert.Empty(t, x.Extract("no entities here", ""))
}

func TestAddPattern(t *testing.T) {
	x := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, x.AddPattern("ticket", `\bTKT-\d+\b`))

	values := x.ExtractByType("please look at tkt-42 and TKT-77", "ticket")

	// Patterns compile case-insensitively.
	assert.Equal(t, []string{"tkt-42", "TKT-77"}, values)
}

func TestAddPatternMultiplePerType(t *testing.T) {
	x := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, x.AddPattern("id", `\buser-\d+\b`))
	require.NoError(t, x.AddPattern("id", `\border-\d+\b`))

	values := x.ExtractByType("order-9 belongs to user-3", "id")

	assert.ElementsMatch(t, []string{"user-3", "order-9"}, values)
	assert.True(t, x.HasType("user-1", "id"))
}

func TestAddPatternInvalid(t *testing.T) {
	x := New()

	err := x.AddPattern("broken", `(`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile pattern")
	assert.False(t, x.HasType("anything", "broken"))
}

func TestCustomExtractor(t *testing.T) {
	x := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, x.AddPattern("word", `\bpill\b`))

	x.AddCustomExtractor("color", func(text string) []core.Entity {
		return []core.Entity{{Type: "overwritten-anyway", Value: "red", Confidence: 0.8}}
	})

	entities := x.Extract("red pill", "")

	// The offset-less custom entity sorts as start zero, ahead of the
	// positioned match at offset four.
	require.Len(t, entities, 2)
	assert.Equal(t, "color", entities[0].Type)
	assert.Equal(t, "red", entities[0].Value)
	assert.Nil(t, entities[0].Start)
	assert.InDelta(t, 0.8, entities[0].Confidence, 1e-9)
	assert.Equal(t, "word", entities[1].Type)
	assert.Equal(t, "pill", entities[1].Value)
}

func TestCustomExtractorReplaced(t *testing.T) {
	x := New(func(o *Options) { o.Defaults = false })

	x.AddCustomExtractor("color", func(string) []core.Entity {
		return []core.Entity{{Value: "red"}}
	})
	x.AddCustomExtractor("color", func(string) []core.Entity {
		return []core.Entity{{Value: "blue"}}
	})

	values := x.ExtractByType("whatever", "color")

	assert.Equal(t, []string{"blue"}, values)
}
