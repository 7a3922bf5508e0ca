package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/dialogkit/core"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryStoreHistory(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := core.Message{Role: core.RoleUser, Content: fmt.Sprintf("message %d", i)}
		if err := store.StoreMessage(ctx, "s1", msg); err != nil {
			t.Fatalf("store failed: %v", err)
		}
	}

	all, err := store.History(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(all) != 3 || all[0].Content != "message 0" || all[2].Content != "message 2" {
		t.Fatalf("unexpected full history: %#v", all)
	}

	last, _ := store.History(ctx, "s1", 2)
	if len(last) != 2 || last[0].Content != "message 1" || last[1].Content != "message 2" {
		t.Fatalf("expected the two most recent messages oldest-first, got %#v", last)
	}
}

func TestInMemoryStoreHistoryUnknownSession(t *testing.T) {
	store := NewInMemoryStore()

	msgs, err := store.History(context.Background(), "nope", 5)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", msgs)
	}
}

func TestInMemoryStoreHistoryCopyIsolation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if err := store.StoreMessage(ctx, "s1", core.Message{Role: core.RoleUser, Content: "original"}); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	out, _ := store.History(ctx, "s1", 0)
	out[0].Content = "changed"

	again, _ := store.History(ctx, "s1", 0)
	if again[0].Content != "original" {
		t.Fatalf("expected copy isolation, got %q", again[0].Content)
	}
}

func TestInMemoryStoreExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewInMemoryStore(func(o *InMemoryOptions) {
		o.TTL = time.Minute
		o.Now = clock.Now
	})
	ctx := context.Background()

	if err := store.StoreMessage(ctx, "s1", core.Message{Role: core.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	clock.Advance(time.Minute)
	fresh, _ := store.History(ctx, "s1", 0)
	if len(fresh) != 1 {
		t.Fatalf("expected history at exactly TTL age, got %#v", fresh)
	}

	clock.Advance(time.Second)
	stale, _ := store.History(ctx, "s1", 0)
	if len(stale) != 0 {
		t.Fatalf("expected empty history past TTL, got %#v", stale)
	}

	// A write after expiry starts a fresh history.
	if err := store.StoreMessage(ctx, "s1", core.Message{Role: core.RoleUser, Content: "again"}); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	restarted, _ := store.History(ctx, "s1", 0)
	if len(restarted) != 1 || restarted[0].Content != "again" {
		t.Fatalf("expected restarted history, got %#v", restarted)
	}
}

func TestInMemoryStoreClear(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.StoreMessage(ctx, "s1", core.Message{Role: core.RoleUser, Content: "hello"})
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	msgs, _ := store.History(ctx, "s1", 0)
	if len(msgs) != 0 {
		t.Fatalf("expected cleared session, got %#v", msgs)
	}
}

func TestInMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	wg := sync.WaitGroup{}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := core.Message{Role: core.RoleUser, Content: fmt.Sprintf("m%d", i)}
			if err := store.StoreMessage(ctx, "shared", msg); err != nil {
				t.Errorf("store error: %v", err)
			}
			if _, err := store.History(ctx, "shared", 10); err != nil {
				t.Errorf("history error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	msgs, _ := store.History(ctx, "shared", 0)
	if len(msgs) != 25 {
		t.Fatalf("expected 25 messages after concurrent writes, got %d", len(msgs))
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey("abc-123"); got != "session:abc-123:messages" {
		t.Fatalf("unexpected session key: %q", got)
	}
}
