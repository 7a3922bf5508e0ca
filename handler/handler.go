package handler

import (
	"context"

	"github.com/hupe1980/dialogkit/core"
)

// Func adapts an ordinary function to core.Handler. It is an alias of
// core.HandlerFunc for call sites that already import this package.
type Func = core.HandlerFunc

// Static returns a handler that always answers with the given text and
// suggestions, regardless of the turn.
func Static(text string, suggestions ...string) core.Handler {
	return Func(func(_ context.Context, _ *core.Turn) (*core.Reply, error) {
		return &core.Reply{Text: text, Suggestions: suggestions}, nil
	})
}

// Defaults returns the stock template handler mapped to every intent
// it carries replies for, the unknown fallback included. Register the
// result with the pipeline for out-of-the-box conversation behavior.
func Defaults() map[string]core.Handler {
	tmpl := NewTemplate()

	handlers := make(map[string]core.Handler)
	for _, intent := range tmpl.Intents() {
		handlers[intent] = tmpl
	}

	return handlers
}
