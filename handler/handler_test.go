package handler

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogkit/internal/testutil"
)

func TestStatic(t *testing.T) {
	h := Static("We're open 9 to 5.", "Opening hours", "Contact us")

	turn := testutil.NewTurnBuilder().Text("when are you open").Intent("question").Build()

	reply, err := h.Handle(context.Background(), turn)
	require.NoError(t, err)

	assert.Equal(t, "We're open 9 to 5.", reply.Text)
	assert.Equal(t, []string{"Opening hours", "Contact us"}, reply.Suggestions)
}

func TestDefaults(t *testing.T) {
	handlers := Defaults()

	for _, intentName := range []string{"greeting", "farewell", "question", "help", "complaint", "request", "feedback", "small_talk", "unknown"} {
		require.Contains(t, handlers, intentName)
	}

	turn := testutil.NewTurnBuilder().Text("Hello!").Intent("greeting").Build()

	reply, err := handlers["greeting"].Handle(context.Background(), turn)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Text)
}

func TestTemplateReply(t *testing.T) {
	tmpl := NewTemplate(func(o *TemplateOptions) {
		o.Rand = rand.New(rand.NewSource(1))
	})

	turn := testutil.NewTurnBuilder().Text("Hello!").Intent("greeting").Build()

	reply, err := tmpl.Handle(context.Background(), turn)
	require.NoError(t, err)

	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, []string{
		"I can help you with questions",
		"Tell me what you need",
		"Ask me anything",
	}, reply.Suggestions)
	assert.Equal(t, "greeting", reply.Metadata["intent"])
	assert.Equal(t, 0, reply.Metadata["entity_count"])
}

func TestTemplateDeterministicWithSeed(t *testing.T) {
	a := NewTemplate(func(o *TemplateOptions) { o.Rand = rand.New(rand.NewSource(42)) })
	b := NewTemplate(func(o *TemplateOptions) { o.Rand = rand.New(rand.NewSource(42)) })

	for i := 0; i < 5; i++ {
		turn := testutil.NewTurnBuilder().Text("Hello!").Intent("greeting").Build()
		replyA, err := a.Handle(context.Background(), turn)
		require.NoError(t, err)
		replyB, err := b.Handle(context.Background(), turn)
		require.NoError(t, err)

		assert.Equal(t, replyA.Text, replyB.Text)
	}
}

func TestTemplateUnknownFallback(t *testing.T) {
	tmpl := NewTemplate(func(o *TemplateOptions) {
		o.Rand = rand.New(rand.NewSource(1))
	})

	turn := testutil.NewTurnBuilder().Text("blorp").Intent("no_such_intent").Build()

	reply, err := tmpl.Handle(context.Background(), turn)
	require.NoError(t, err)

	// The reply comes from the unknown pool but the metadata keeps the
	// classified intent.
	assert.Equal(t, "no_such_intent", reply.Metadata["intent"])
	assert.Empty(t, reply.Suggestions)
}

func TestTemplateEntityMention(t *testing.T) {
	tmpl := NewTemplate(func(o *TemplateOptions) {
		o.Rand = rand.New(rand.NewSource(1))
	})

	turn := testutil.NewTurnBuilder().Text("...").Intent("request").
		EntityAt("email", "a@example.com", 0, 13).
		EntityAt("number", "12", 20, 22).
		EntityAt("email", "b@example.com", 30, 43).
		Build()

	reply, err := tmpl.Handle(context.Background(), turn)
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "I noticed you mentioned a@example.com, b@example.com (email).")
	assert.Contains(t, reply.Text, "I noticed you mentioned 12 (number).")
	assert.Equal(t, 3, reply.Metadata["entity_count"])
}

func TestTemplateRendersContext(t *testing.T) {
	tmpl := NewTemplate(func(o *TemplateOptions) {
		o.Defaults = false
		o.Rand = rand.New(rand.NewSource(1))
	})
	tmpl.AddReplies("greeting", "Back again after {{.last_intent}}?")

	turn := testutil.NewTurnBuilder().Text("Hello!").Intent("greeting").
		Context("last_intent", "farewell").
		Build()

	reply, err := tmpl.Handle(context.Background(), turn)
	require.NoError(t, err)
	assert.Equal(t, "Back again after farewell?", reply.Text)
}

func TestTemplateNoPool(t *testing.T) {
	tmpl := NewTemplate(func(o *TemplateOptions) { o.Defaults = false })

	turn := testutil.NewTurnBuilder().Text("Hello!").Intent("greeting").Build()

	_, err := tmpl.Handle(context.Background(), turn)
	assert.Error(t, err)
}

func TestTemplateIntentsOrder(t *testing.T) {
	tmpl := NewTemplate()

	intents := tmpl.Intents()
	require.NotEmpty(t, intents)
	assert.Equal(t, "greeting", intents[0])
	assert.Equal(t, "unknown", intents[len(intents)-1])
}
