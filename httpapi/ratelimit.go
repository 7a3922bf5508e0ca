package httpapi

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter enforces a per-client token bucket in front of the
// pipeline's own per-user limiter. Clients are keyed by user and remote
// address; buckets that go quiet are evicted in the background.
type clientLimiter struct {
	buckets sync.Map   // key -> *bucketEntry
	r       rate.Limit // refill rate in requests per second
	burst   int
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// newClientLimiter sizes each bucket from a request quota per window: a
// full window's quota as burst, refilled at quota/window. A
// non-positive quota or window disables the limiter.
func newClientLimiter(maxRequests int, window time.Duration) *clientLimiter {
	r := rate.Limit(0)
	if maxRequests > 0 && window > 0 {
		r = rate.Limit(float64(maxRequests) / window.Seconds())
	}

	burst := maxRequests
	if burst <= 0 {
		burst = 1
	}

	cl := &clientLimiter{r: r, burst: burst}

	if cl.enabled() {
		go cl.cleanupLoop()
	}

	return cl
}

func (cl *clientLimiter) enabled() bool {
	return cl.r > 0
}

// allow reports whether the client behind key may take another request.
func (cl *clientLimiter) allow(key string) bool {
	if !cl.enabled() {
		return true
	}

	entry := cl.getOrCreate(key)
	if !entry.limiter.Allow() {
		return false
	}
	entry.lastSeen.Store(time.Now().UnixNano())

	return true
}

func (cl *clientLimiter) getOrCreate(key string) *bucketEntry {
	if v, ok := cl.buckets.Load(key); ok {
		return v.(*bucketEntry)
	}

	entry := &bucketEntry{limiter: rate.NewLimiter(cl.r, cl.burst)}
	entry.lastSeen.Store(time.Now().UnixNano())

	actual, _ := cl.buckets.LoadOrStore(key, entry)
	return actual.(*bucketEntry)
}

func (cl *clientLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cl.cleanup()
	}
}

func (cl *clientLimiter) cleanup() {
	cutoff := time.Now().Add(-10 * time.Minute).UnixNano()

	cl.buckets.Range(func(key, value any) bool {
		if value.(*bucketEntry).lastSeen.Load() < cutoff {
			cl.buckets.Delete(key)
		}
		return true
	})
}
