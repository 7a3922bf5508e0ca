// Package dialogkit provides a high-level façade over the turn pipeline
// and its NLP components (intent classification, entity extraction,
// conversation context, gating & logging) enabling rapid construction
// of conversational services. Most applications interact with this
// package by:
//  1. Creating a DialogKit via New() (optionally overriding default in-memory services)
//  2. Registering intents, entity patterns and reply handlers
//  3. Processing inbound messages (Process / ProcessUtterance)
//
// The façade delegates orchestration to pipeline.Pipeline while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply
// durable memory implementations and a structured logger.
package dialogkit

import (
	"context"

	"github.com/hupe1980/dialogkit/contextstore"
	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/entity"
	"github.com/hupe1980/dialogkit/intent"
	"github.com/hupe1980/dialogkit/logging"
	"github.com/hupe1980/dialogkit/pipeline"
)

// Options configures the DialogKit instance.
type Options struct {
	// Classifier decides intents. Defaults to a classifier seeded with
	// the built-in catalog; replace it to start from an empty one.
	Classifier *intent.Classifier

	// Extractor pulls entities. Defaults to an extractor with the
	// built-in patterns.
	Extractor *entity.Extractor

	// ContextStore tracks per-user conversation state (defaults to an
	// in-memory store with a one hour TTL).
	ContextStore core.ContextStore

	// RateLimiter gates turns per user. Nil disables rate limiting.
	RateLimiter core.RateLimiter

	// SafetyFilter screens utterance text. Nil disables screening.
	SafetyFilter core.SafetyFilter

	// Memory receives the session transcript after each turn. Nil
	// disables session memory.
	Memory core.ConversationMemory

	// Recorder receives one record per turn for long-term storage.
	// Nil disables recording.
	Recorder core.ConversationStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DialogKit is the high-level façade aggregating the NLP components and
// the underlying pipeline.
type DialogKit struct {
	classifier *intent.Classifier
	extractor  *entity.Extractor
	pipeline   *pipeline.Pipeline
}

// New creates a new DialogKit instance with optional overrides. Any
// unset service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *DialogKit {
	opts := Options{
		Classifier:   intent.New(),
		Extractor:    entity.New(),
		ContextStore: contextstore.New(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	p := pipeline.New(func(o *pipeline.Options) {
		o.Classifier = opts.Classifier
		o.Extractor = opts.Extractor
		o.ContextStore = opts.ContextStore
		o.RateLimiter = opts.RateLimiter
		o.SafetyFilter = opts.SafetyFilter
		o.Memory = opts.Memory
		o.Recorder = opts.Recorder
		o.Logger = opts.Logger
	})

	return &DialogKit{
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		pipeline:   p,
	}
}

// RegisterIntent adds an intent to the classifier, or extends an
// existing one. Keywords match as substrings; patterns are regular
// expressions.
func (d *DialogKit) RegisterIntent(name string, keywords, patterns []string) error {
	return d.classifier.AddIntent(name, keywords, patterns)
}

// RegisterHandler sets the reply handler for an intent. A handler
// already registered under the same name is replaced.
func (d *DialogKit) RegisterHandler(intentName string, h core.Handler) {
	d.pipeline.RegisterHandler(intentName, h)
}

// AddEntityPattern registers a regular expression entity type with the
// extractor.
func (d *DialogKit) AddEntityPattern(entityType, pattern string) error {
	return d.extractor.AddPattern(entityType, pattern)
}

// AddCustomExtractor registers a function-backed entity type with the
// extractor.
func (d *DialogKit) AddCustomExtractor(entityType string, fn entity.CustomFunc) {
	d.extractor.AddCustomExtractor(entityType, fn)
}

// Train derives classifier keywords from labeled examples.
func (d *DialogKit) Train(samples []intent.Sample) {
	d.classifier.Train(samples)
}

// Process runs one turn of text for userID through the pipeline.
func (d *DialogKit) Process(ctx context.Context, text, userID string) (*core.TurnResult, error) {
	return d.pipeline.Process(ctx, text, userID)
}

// ProcessUtterance runs one turn carrying a session, channel or
// metadata through.
func (d *DialogKit) ProcessUtterance(ctx context.Context, utt core.Utterance) (*core.TurnResult, error) {
	return d.pipeline.ProcessUtterance(ctx, utt)
}

// Pipeline exposes the underlying pipeline, for callers that mount it
// behind a server or need its lifecycle directly.
func (d *DialogKit) Pipeline() *pipeline.Pipeline {
	return d.pipeline
}

// Wait blocks until all in-flight history writes have finished. Call it
// during shutdown so queued writes are not lost.
func (d *DialogKit) Wait() {
	d.pipeline.Wait()
}
