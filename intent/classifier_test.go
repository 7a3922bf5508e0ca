package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogkit/core"
)

func TestClassifyDefaults(t *testing.T) {
	c := New()

	tests := []struct {
		text    string
		intent  string
		minConf float64
	}{
		{text: "Hello!", intent: "greeting", minConf: 0.7},
		{text: "How are you?", intent: "small_talk", minConf: 0.6},
		{text: "Goodbye", intent: "farewell", minConf: 0.7},
		{text: "I need help with something", intent: "help", minConf: 0.7},
		{text: "Can you assist me?", intent: "request", minConf: 0.6},
		{text: "What is the weather like?", intent: "question", minConf: 0.7},
		{text: "Where can I find more information?", intent: "question", minConf: 0.7},
		{text: "I have a complaint about the service", intent: "complaint", minConf: 0.7},
		{text: "This is not working properly", intent: "complaint", minConf: 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := c.Classify(tt.text, nil)

			assert.Equal(t, tt.intent, result.Name)
			assert.GreaterOrEqual(t, result.Confidence, tt.minConf)
		})
	}
}

func TestClassifyNoEvidence(t *testing.T) {
	c := New()

	for _, text := range []string{"", "zzz qqq xyzzy"} {
		result := c.Classify(text, nil)

		assert.Equal(t, Unknown, result.Name)
		assert.Zero(t, result.Confidence)
	}
}

func TestClassifyKeywordCaseInsensitive(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("order", []string{"REFUND"}, nil))

	result := c.Classify("I would like a refund please", nil)

	assert.Equal(t, "order", result.Name)
	assert.InDelta(t, 1.0/3.0, result.Confidence, 1e-9)
}

func TestClassifyPatternScoresOncePerPattern(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("echo", nil, []string{`\bfoo\b`}))

	// Three occurrences of the same pattern still count once.
	result := c.Classify("foo foo foo", nil)

	assert.Equal(t, "echo", result.Name)
	assert.InDelta(t, 2.0/3.0, result.Confidence, 1e-9)
}

func TestClassifyDuplicatePatternsStack(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("echo", nil, []string{`\bfoo\b`, `\bfoo\b`}))

	result := c.Classify("foo", nil)

	assert.Equal(t, "echo", result.Name)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9, "two matching patterns hit the confidence cap")
}

func TestClassifyConfidenceCapped(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("big", []string{"alpha", "beta", "gamma"}, []string{`alpha`, `beta`}))

	result := c.Classify("alpha beta gamma", nil)

	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestClassifyTieBreakRegistrationOrder(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("first", []string{"shared"}, nil))
	require.NoError(t, c.AddIntent("second", []string{"shared"}, nil))

	result := c.Classify("shared", nil)

	assert.Equal(t, "first", result.Name)
}

func TestClassifyContinuityBonus(t *testing.T) {
	newClassifier := func(t *testing.T) *Classifier {
		t.Helper()
		c := New(func(o *Options) { o.Defaults = false })
		require.NoError(t, c.AddIntent("greeting", []string{"hello"}, nil))
		require.NoError(t, c.AddIntent("farewell", []string{"bye"}, nil))
		return c
	}

	t.Run("bonus breaks a tie toward the previous intent", func(t *testing.T) {
		c := newClassifier(t)

		convContext := map[string]any{core.KeyLastIntent: "farewell"}
		result := c.Classify("hello and bye", convContext)

		assert.Equal(t, "farewell", result.Name)
		assert.InDelta(t, 1.3/3.0, result.Confidence, 1e-9)
	})

	t.Run("no bonus without fresh evidence", func(t *testing.T) {
		c := newClassifier(t)

		convContext := map[string]any{core.KeyLastIntent: "greeting"}
		result := c.Classify("bye", convContext)

		assert.Equal(t, "farewell", result.Name)
		assert.InDelta(t, 1.0/3.0, result.Confidence, 1e-9)
	})

	t.Run("bonus for unregistered previous intent is ignored", func(t *testing.T) {
		c := newClassifier(t)

		convContext := map[string]any{core.KeyLastIntent: "no_such_intent"}
		result := c.Classify("hello", convContext)

		assert.Equal(t, "greeting", result.Name)
		assert.InDelta(t, 1.0/3.0, result.Confidence, 1e-9)
	})
}

func TestAddIntentExtendsExisting(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("alpha", []string{"aardvark"}, nil))
	require.NoError(t, c.AddIntent("beta", []string{"badger"}, nil))
	require.NoError(t, c.AddIntent("alpha", []string{"anteater"}, nil))

	assert.Equal(t, []string{"alpha", "beta"}, c.Intents(), "re-registering keeps the original order slot")

	// Both intents score 1.0; alpha wins because it kept first place.
	result := c.Classify("anteater badger", nil)
	assert.Equal(t, "alpha", result.Name)
}

func TestAddIntentInvalidPattern(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })

	err := c.AddIntent("broken", nil, []string{`(`})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile pattern")
	assert.NotContains(t, c.Intents(), "broken", "failed registration must not leave a partial intent")
}

func TestTrain(t *testing.T) {
	c := New(func(o *Options) { o.Defaults = false })
	require.NoError(t, c.AddIntent("greeting", []string{"hello"}, nil))

	c.Train([]Sample{
		{Text: "The shipping order arrived broken this week", Intent: "shipping"},
		{Text: "Track my shipping order from yesterday", Intent: "shipping"},
	})

	assert.Equal(t, []string{"greeting", "shipping"}, c.Intents(), "trained intents register after existing ones")

	// "shipping" and "order" each score once even though both samples
	// contained them; short tokens and stopwords contribute nothing.
	result := c.Classify("shipping order", nil)
	assert.Equal(t, "shipping", result.Name)
	assert.InDelta(t, 2.0/3.0, result.Confidence, 1e-9)

	// "this" was filtered as a stopword, "my" as too short.
	result = c.Classify("this is my text", nil)
	assert.Equal(t, Unknown, result.Name)
}

func TestCustomPolicy(t *testing.T) {
	c := New(func(o *Options) {
		o.Defaults = false
		o.Policy = ScoringPolicy{KeywordWeight: 1, PatternWeight: 2, ContinuityBonus: 0.3, ConfidenceNorm: 10}
	})
	require.NoError(t, c.AddIntent("echo", []string{"foo"}, []string{`foo`}))

	result := c.Classify("foo", nil)

	assert.InDelta(t, 0.3, result.Confidence, 1e-9)
}
