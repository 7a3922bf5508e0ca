package handler

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/intent"
	"github.com/hupe1980/dialogkit/internal/util"
	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that Template satisfies core.Handler.
var _ core.Handler = (*Template)(nil)

// TemplateOptions configures a Template handler.
type TemplateOptions struct {
	// Defaults controls whether the built-in reply and suggestion
	// catalogs are registered.
	Defaults bool

	// Rand picks replies from each intent's pool. Defaults to a
	// time-seeded source; inject a fixed seed for deterministic
	// output.
	Rand *rand.Rand

	// Logger receives render warnings.
	Logger logging.Logger
}

// Template answers turns from per-intent reply pools. A reply is
// picked at random from the intent's pool, rendered as a Go template
// against the turn's context snapshot ({{.last_intent}} and friends),
// and decorated with entity mentions and per-intent follow-up
// suggestions. Intents without a pool fall back to the unknown pool.
// Safe for concurrent use.
type Template struct {
	mu          sync.RWMutex
	replies     map[string][]string
	suggestions map[string][]string
	intents     []string
	rngMu       sync.Mutex
	rng         *rand.Rand
	logger      logging.Logger
}

// NewTemplate creates a Template with the built-in catalogs.
func NewTemplate(optFns ...func(o *TemplateOptions)) *Template {
	opts := TemplateOptions{
		Defaults: true,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	t := &Template{
		replies:     make(map[string][]string),
		suggestions: make(map[string][]string),
		rng:         opts.Rand,
		logger:      opts.Logger,
	}

	if opts.Defaults {
		for _, d := range defaultReplies() {
			t.AddReplies(d.Intent, d.Replies...)
		}
		for _, d := range defaultSuggestions() {
			t.AddSuggestions(d.Intent, d.Suggestions...)
		}
	}

	return t
}

// AddReplies appends reply templates to the intent's pool, registering
// the intent if it is new.
func (t *Template) AddReplies(intentName string, replies ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.replies[intentName]; !ok {
		t.intents = append(t.intents, intentName)
	}

	t.replies[intentName] = append(t.replies[intentName], replies...)
}

// AddSuggestions appends follow-up suggestions offered with replies
// for the intent.
func (t *Template) AddSuggestions(intentName string, suggestions ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.suggestions[intentName] = append(t.suggestions[intentName], suggestions...)
}

// Intents returns the intents with a reply pool, in registration
// order.
func (t *Template) Intents() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.intents)
}

// Handle picks, renders and decorates a reply for the turn's intent.
func (t *Template) Handle(_ context.Context, turn *core.Turn) (*core.Reply, error) {
	t.mu.RLock()
	pool, ok := t.replies[turn.Intent.Name]
	if !ok {
		pool = t.replies[intent.Unknown]
	}
	suggestions := slices.Clone(t.suggestions[turn.Intent.Name])
	t.mu.RUnlock()

	if len(pool) == 0 {
		return nil, fmt.Errorf("no reply templates for intent %q", turn.Intent.Name)
	}

	t.rngMu.Lock()
	text := pool[t.rng.Intn(len(pool))]
	t.rngMu.Unlock()

	rendered, err := util.RenderTemplate(text, turn.Context)
	if err != nil {
		t.logger.Warn("reply template render failed", "intent", turn.Intent.Name, "error", err)
		rendered = text
	}

	if mention := formatEntities(turn.Entities); mention != "" {
		rendered += " " + mention
	}

	return &core.Reply{
		Text:        rendered,
		Suggestions: suggestions,
		Metadata: map[string]any{
			"intent":       turn.Intent.Name,
			"entity_count": len(turn.Entities),
		},
	}, nil
}

// formatEntities turns extracted entities into a short acknowledgement,
// grouped by type in first-seen order.
func formatEntities(entities []core.Entity) string {
	if len(entities) == 0 {
		return ""
	}

	var order []string
	groups := make(map[string][]string)

	for _, ent := range entities {
		if _, ok := groups[ent.Type]; !ok {
			order = append(order, ent.Type)
		}
		groups[ent.Type] = append(groups[ent.Type], ent.Value)
	}

	parts := make([]string, 0, len(order))
	for _, typ := range order {
		parts = append(parts, fmt.Sprintf("I noticed you mentioned %s (%s).", strings.Join(groups[typ], ", "), typ))
	}

	return strings.Join(parts, " ")
}
