package pipeline

import (
	"context"
	"sync"

	"github.com/hupe1980/dialogkit/contextstore"
	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/entity"
	"github.com/hupe1980/dialogkit/intent"
	"github.com/hupe1980/dialogkit/logging"
)

// Options configures a Pipeline instance.
type Options struct {
	// Classifier decides the intent of each utterance.
	// Defaults to a classifier seeded with the built-in catalog.
	Classifier core.Classifier

	// Extractor pulls typed entities out of each utterance.
	// Defaults to an extractor with the built-in patterns.
	Extractor core.Extractor

	// ContextStore tracks per-user conversation state.
	// Defaults to an in-memory store with a one hour TTL.
	ContextStore core.ContextStore

	// RateLimiter gates turns per user before any processing happens.
	// Nil disables rate limiting.
	RateLimiter core.RateLimiter

	// SafetyFilter screens utterance text before any processing
	// happens. Nil disables screening.
	SafetyFilter core.SafetyFilter

	// Memory receives the session transcript (user message and reply)
	// after each turn. Nil disables session memory.
	Memory core.ConversationMemory

	// Recorder receives one record per processed turn for long-term
	// storage. Nil disables recording.
	Recorder core.ConversationStore

	// Logger provides structured logging for turn processing.
	// Defaults to a no-op logger.
	Logger logging.Logger
}

// Pipeline runs the full lifecycle of a conversational turn: gate,
// classify, extract, track context, dispatch, sink.
//
// Handler registration is safe for concurrent use. Processing guards
// its own internals, but callers that need read-modify-write atomicity
// of one user's context across turns must serialize that user's turns
// themselves.
type Pipeline struct {
	classifier   core.Classifier
	extractor    core.Extractor
	contextStore core.ContextStore
	rateLimiter  core.RateLimiter
	safetyFilter core.SafetyFilter
	memory       core.ConversationMemory
	recorder     core.ConversationStore
	logger       logging.Logger

	handlers map[string]core.Handler
	mu       sync.RWMutex

	sinks sync.WaitGroup
}

// New creates a Pipeline. With no options it classifies against the
// built-in intent catalog, extracts the built-in entity types and keeps
// context in memory; rate limiting, safety screening, session memory
// and long-term recording stay off until configured.
func New(optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		Classifier:   intent.New(),
		Extractor:    entity.New(),
		ContextStore: contextstore.New(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Pipeline{
		classifier:   opts.Classifier,
		extractor:    opts.Extractor,
		contextStore: opts.ContextStore,
		rateLimiter:  opts.RateLimiter,
		safetyFilter: opts.SafetyFilter,
		memory:       opts.Memory,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		handlers:     make(map[string]core.Handler),
	}
}

// RegisterHandler registers h as the handler for intentName. A handler
// already registered under the same name is replaced.
func (p *Pipeline) RegisterHandler(intentName string, h core.Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlers[intentName] = h
}

// Handler returns the handler registered for intentName. The boolean
// reports whether one exists.
func (p *Pipeline) Handler(intentName string) (core.Handler, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	h, ok := p.handlers[intentName]
	return h, ok
}

// Process runs one turn for userID. It wraps text in a fresh utterance;
// use ProcessUtterance to carry a session, channel or metadata through.
func (p *Pipeline) Process(ctx context.Context, text, userID string) (*core.TurnResult, error) {
	return p.ProcessUtterance(ctx, core.NewUtterance(text, userID))
}

// ProcessUtterance runs one turn.
//
// Gates run first: a rate-limited user gets core.ErrRateLimited, text
// that fails the safety check gets a *core.SafetyError, and neither is
// classified or extracted. Past the gates the turn is classified, its
// entities extracted and the user's context updated, then the handler
// registered for the winning intent produces the reply. A handler error
// is soft: it is logged and the result is returned without a reply.
//
// The returned TurnResult carries the context snapshot the turn was
// processed against, before its own updates were merged in.
func (p *Pipeline) ProcessUtterance(ctx context.Context, utt core.Utterance) (*core.TurnResult, error) {
	if p.rateLimiter != nil && !p.rateLimiter.Allow(ctx, utt.UserID) {
		p.logger.Warn("turn rejected: rate limited", "user_id", utt.UserID)
		return nil, core.ErrRateLimited
	}

	if p.safetyFilter != nil {
		if verdict := p.safetyFilter.Check(utt.Text); !verdict.Safe {
			p.logger.Warn("turn rejected: failed safety check", "user_id", utt.UserID, "flags", verdict.Flags)
			return nil, &core.SafetyError{Flags: verdict.Flags}
		}
	}

	snapshot := p.contextStore.Get(utt.UserID)

	intentRes := p.classifier.Classify(utt.Text, snapshot)

	entities := p.extractor.Extract(utt.Text, intentRes.Name)

	p.contextStore.Update(utt.UserID, map[string]any{
		core.KeyLastMessage: utt.Text,
		core.KeyLastIntent:  intentRes.Name,
		core.KeyEntities:    entities,
	}, true)

	p.logger.Debug(
		"turn processed",
		"user_id", utt.UserID,
		"intent", intentRes.Name,
		"confidence", intentRes.Confidence,
		"entity_count", len(entities),
	)

	var reply *core.Reply

	if h, ok := p.Handler(intentRes.Name); ok {
		turn := core.NewTurn(utt, intentRes, entities, snapshot, p.logger)

		r, err := h.Handle(ctx, turn)
		if err != nil {
			p.logger.Warn("handler failed", "intent", intentRes.Name, "user_id", utt.UserID, "error", err)
		} else {
			reply = r
		}
	}

	p.dispatchSinks(ctx, utt, intentRes, reply)

	return &core.TurnResult{
		Message:    utt.Text,
		Intent:     intentRes.Name,
		Confidence: intentRes.Confidence,
		Entities:   entities,
		Context:    snapshot,
		Reply:      reply,
	}, nil
}

// Wait blocks until all in-flight sink writes have finished. Call it
// during shutdown so queued history writes are not lost.
func (p *Pipeline) Wait() {
	p.sinks.Wait()
}

// dispatchSinks hands the finished turn to the configured memory and
// recorder sinks. Each sink runs on its own goroutine with a context
// detached from the caller's, so a cancelled request cannot abort a
// write that is already on its way, and a sink failure or panic never
// surfaces to the turn.
func (p *Pipeline) dispatchSinks(ctx context.Context, utt core.Utterance, intentRes core.IntentResult, reply *core.Reply) {
	if p.memory == nil && p.recorder == nil {
		return
	}

	// Turns without an explicit session still accumulate history,
	// keyed by the user.
	sessionID := utt.SessionID
	if sessionID == "" {
		sessionID = utt.UserID
	}

	sinkCtx := context.WithoutCancel(ctx)

	if p.memory != nil {
		p.sinks.Add(1)

		go func() {
			defer p.sinks.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("memory sink panic", "session_id", sessionID, "recover", r)
				}
			}()

			userMsg := core.Message{
				Role:      core.RoleUser,
				Content:   utt.Text,
				Timestamp: utt.Timestamp,
				UserID:    utt.UserID,
				Intent:    intentRes.Name,
			}
			if err := p.memory.StoreMessage(sinkCtx, sessionID, userMsg); err != nil {
				p.logger.Warn("memory sink: store user message failed", "session_id", sessionID, "error", err)
			}

			if reply == nil {
				return
			}

			assistantMsg := core.Message{
				Role:    core.RoleAssistant,
				Content: reply.Text,
			}
			if err := p.memory.StoreMessage(sinkCtx, sessionID, assistantMsg); err != nil {
				p.logger.Warn("memory sink: store reply failed", "session_id", sessionID, "error", err)
			}
		}()
	}

	if p.recorder != nil {
		p.sinks.Add(1)

		rec := core.Record{
			SessionID:  sessionID,
			UserID:     utt.UserID,
			Message:    utt.Text,
			Intent:     intentRes.Name,
			Confidence: intentRes.Confidence,
			Timestamp:  utt.Timestamp,
		}
		if reply != nil {
			rec.Response = reply.Text
		}

		go func() {
			defer p.sinks.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("recorder sink panic", "session_id", sessionID, "recover", r)
				}
			}()

			if err := p.recorder.Save(sinkCtx, rec); err != nil {
				p.logger.Warn("recorder sink: save failed", "session_id", sessionID, "error", err)
			}
		}()
	}
}
