package intent

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Unknown is the intent name returned when no registered intent
// collects any evidence.
const Unknown = "unknown"

// Compile-time check that Classifier satisfies core.Classifier.
var _ core.Classifier = (*Classifier)(nil)

// Options configures the classifier.
type Options struct {
	// Policy sets the scoring weights.
	Policy ScoringPolicy

	// Defaults controls whether the built-in intent catalog is
	// registered at construction.
	Defaults bool

	// Logger receives classification debug output.
	Logger logging.Logger
}

// Classifier scores utterances against registered intents using
// weighted keyword and pattern evidence. It is safe for concurrent
// use.
type Classifier struct {
	mu      sync.RWMutex
	policy  ScoringPolicy
	names   []string // registration order, used for tie-breaking
	intents map[string]*definition
	logger  logging.Logger
}

type definition struct {
	keywords []string
	patterns []*regexp.Regexp
}

// New creates a Classifier with the default scoring policy and the
// built-in intent catalog.
func New(optFns ...func(o *Options)) *Classifier {
	opts := Options{
		Policy:   DefaultScoringPolicy(),
		Defaults: true,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Classifier{
		policy:  opts.Policy,
		intents: make(map[string]*definition),
		logger:  opts.Logger,
	}

	if opts.Defaults {
		for _, def := range DefaultDefinitions() {
			if err := c.AddIntent(def.Name, def.Keywords, def.Patterns); err != nil {
				panic(fmt.Sprintf("intent: invalid default definition %q: %v", def.Name, err))
			}
		}
	}

	return c
}

// AddIntent registers an intent or extends an existing one. Keywords
// match case-insensitively as substrings; patterns are regular
// expressions compiled case-insensitively. Registering an existing
// name appends to its keyword and pattern lists and keeps its
// original position in the tie-breaking order.
func (c *Classifier) AddIntent(name string, keywords, patterns []string) error {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return fmt.Errorf("intent %q: compile pattern %q: %w", name, p, err)
		}
		compiled = append(compiled, re)
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if def, ok := c.intents[name]; ok {
		def.keywords = append(def.keywords, lowered...)
		def.patterns = append(def.patterns, compiled...)
		return nil
	}

	c.intents[name] = &definition{keywords: lowered, patterns: compiled}
	c.names = append(c.names, name)

	return nil
}

// Sample is one labeled training example.
type Sample struct {
	// Text is the example utterance.
	Text string

	// Intent is the label the utterance should classify as.
	Intent string
}

// Words too common to carry intent signal; skipped during training.
var trainStopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {},
}

// Train derives keywords from labeled examples. Each example's text is
// lowercased and split on whitespace; tokens longer than three
// characters that are not stopwords become keywords of the labeled
// intent, skipping ones it already has. Unseen intents are registered
// at the end of the tie-breaking order.
func (c *Classifier) Train(samples []Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range samples {
		def, ok := c.intents[s.Intent]
		if !ok {
			def = &definition{}
			c.intents[s.Intent] = def
			c.names = append(c.names, s.Intent)
		}

		for _, w := range strings.Fields(strings.ToLower(s.Text)) {
			if len(w) <= 3 {
				continue
			}
			if _, stop := trainStopwords[w]; stop {
				continue
			}
			if !slices.Contains(def.keywords, w) {
				def.keywords = append(def.keywords, w)
			}
		}
	}
}

// Classify scores text against every registered intent and returns the
// winner. Ties resolve to the earliest-registered intent. convContext
// may carry the previous turn's intent under core.KeyLastIntent; that
// intent receives the continuity bonus when it scored on its own.
func (c *Classifier) Classify(text string, convContext map[string]any) core.IntentResult {
	lowered := strings.ToLower(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	scores := make(map[string]float64, len(c.names))
	for _, name := range c.names {
		def := c.intents[name]

		score := 0.0
		for _, kw := range def.keywords {
			if strings.Contains(lowered, kw) {
				score += c.policy.KeywordWeight
			}
		}
		for _, re := range def.patterns {
			if re.MatchString(text) {
				score += c.policy.PatternWeight
			}
		}

		// Intents without evidence stay out of the running, so the
		// continuity bonus can never resurrect one on its own.
		if score > 0 {
			scores[name] = score
		}
	}

	if last, ok := convContext[core.KeyLastIntent].(string); ok {
		if _, scored := scores[last]; scored {
			scores[last] += c.policy.ContinuityBonus
		}
	}

	if len(scores) == 0 {
		return core.IntentResult{Name: Unknown, Confidence: 0}
	}

	var (
		winner string
		best   float64
	)
	for _, name := range c.names {
		score, ok := scores[name]
		if !ok {
			continue
		}
		if winner == "" || score > best {
			winner = name
			best = score
		}
	}

	confidence := best / c.policy.ConfidenceNorm
	if confidence > 1 {
		confidence = 1
	}

	c.logger.Debug("classified intent", "intent", winner, "score", best, "confidence", confidence)

	return core.IntentResult{Name: winner, Confidence: confidence}
}

// Intents returns the registered intent names in registration order.
func (c *Classifier) Intents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.names)
}
