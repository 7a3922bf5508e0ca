package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that Window satisfies core.RateLimiter.
var _ core.RateLimiter = (*Window)(nil)

// WindowOptions configures Window.
type WindowOptions struct {
	// Logger receives limit-exceeded warnings.
	Logger logging.Logger

	// Now supplies the current time. Overridable for tests.
	Now func() time.Time
}

// Window is an in-memory sliding-window core.RateLimiter. Each
// identifier keeps the timestamps of its requests inside the window;
// a denied request is not recorded, so hammering a limited identifier
// does not extend its lockout. Safe for concurrent use.
type Window struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time
	logger logging.Logger
	now    func() time.Time
}

// NewWindow creates a Window allowing maxRequests per window per
// identifier.
func NewWindow(maxRequests int, window time.Duration, optFns ...func(o *WindowOptions)) *Window {
	opts := WindowOptions{
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Window{
		max:    maxRequests,
		window: window,
		hits:   make(map[string][]time.Time),
		logger: opts.Logger,
		now:    opts.Now,
	}
}

// Allow reports whether the identifier may make a request now, and
// records the request if so.
func (w *Window) Allow(_ context.Context, identifier string) bool {
	now := w.now()
	cutoff := now.Add(-w.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	kept := w.hits[identifier][:0]
	for _, t := range w.hits[identifier] {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= w.max {
		w.hits[identifier] = kept
		w.logger.Warn("rate limit exceeded", "identifier", identifier)
		return false
	}

	w.hits[identifier] = append(kept, now)

	return true
}

// Remaining returns how many requests the identifier has left in the
// current window. It neither records a request nor prunes state.
func (w *Window) Remaining(_ context.Context, identifier string) int {
	cutoff := w.now().Add(-w.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	inWindow := 0
	for _, t := range w.hits[identifier] {
		if t.After(cutoff) {
			inWindow++
		}
	}

	return max(0, w.max-inWindow)
}
