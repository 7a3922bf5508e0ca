package contextstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := New(func(o *Options) {
		o.TTL = ttl
		o.Now = clock.Now
	})
	return store, clock
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(time.Minute)

	store.Update("alice", map[string]any{"topic": "billing"}, true)

	got := store.Get("alice")
	assert.Equal(t, map[string]any{"topic": "billing"}, got)
	assert.True(t, store.Has("alice"))
}

func TestGetReturnsCopy(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"topic": "billing"}, true)

	got := store.Get("alice")
	got["topic"] = "tampered"
	got["extra"] = true

	assert.Equal(t, map[string]any{"topic": "billing"}, store.Get("alice"))
}

func TestUpdateCopiesInput(t *testing.T) {
	store, _ := newTestStore(time.Minute)

	updates := map[string]any{"topic": "billing"}
	store.Update("alice", updates, true)
	updates["topic"] = "tampered"

	assert.Equal(t, map[string]any{"topic": "billing"}, store.Get("alice"))
}

func TestGetUnknownUser(t *testing.T) {
	store, _ := newTestStore(time.Minute)

	got := store.Get("nobody")

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, store.ListUsers(), "reads must not create entries")
	assert.False(t, store.Has("nobody"))
}

func TestExpiry(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"topic": "billing"}, true)

	clock.Advance(time.Minute)
	assert.Equal(t, map[string]any{"topic": "billing"}, store.Get("alice"), "age equal to the TTL is still fresh")

	clock.Advance(time.Minute + time.Second)
	assert.False(t, store.Has("alice"))
	assert.Empty(t, store.Get("alice"))
	assert.Empty(t, store.ListUsers(), "the expired entry is swept by the read")
}

func TestGetRefreshesWindow(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"topic": "billing"}, true)

	clock.Advance(45 * time.Second)
	require.NotEmpty(t, store.Get("alice"))

	// Another 45s would have crossed the original deadline, but the
	// read above reset it.
	clock.Advance(45 * time.Second)
	assert.Equal(t, map[string]any{"topic": "billing"}, store.Get("alice"))
}

func TestTTLDisabled(t *testing.T) {
	store, clock := newTestStore(0)
	store.Update("alice", map[string]any{"topic": "billing"}, true)

	clock.Advance(1000 * time.Hour)

	assert.True(t, store.Has("alice"))
	assert.NotEmpty(t, store.Get("alice"))
}

func TestUpdateMerge(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"a": 1, "b": 2}, true)

	store.Update("alice", map[string]any{"b": 3, "c": 4}, true)

	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, store.Get("alice"))
}

func TestUpdateReplace(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"a": 1, "b": 2}, true)

	store.Update("alice", map[string]any{"c": 3}, false)

	assert.Equal(t, map[string]any{"c": 3}, store.Get("alice"))
}

func TestUpdateMergeIntoExpired(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"stale": true}, true)

	clock.Advance(2 * time.Minute)
	store.Update("alice", map[string]any{"fresh": true}, true)

	assert.Equal(t, map[string]any{"fresh": true}, store.Get("alice"), "expired keys must not leak into the merged context")
}

func TestSetValueDropsExpired(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	store.SetValue("alice", "stale", true)

	clock.Advance(2 * time.Minute)
	store.SetValue("alice", "fresh", true)

	assert.Equal(t, map[string]any{"fresh": true}, store.Get("alice"))
}

func TestGetValue(t *testing.T) {
	store, clock := newTestStore(time.Minute)
	store.SetValue("alice", "topic", "billing")

	value, ok := store.GetValue("alice", "topic")
	require.True(t, ok)
	assert.Equal(t, "billing", value)

	_, ok = store.GetValue("alice", "missing")
	assert.False(t, ok)

	_, ok = store.GetValue("nobody", "topic")
	assert.False(t, ok)

	// GetValue neither refreshes the window nor sweeps: the value
	// stays readable past the deadline until Get notices.
	clock.Advance(2 * time.Minute)
	value, ok = store.GetValue("alice", "topic")
	require.True(t, ok)
	assert.Equal(t, "billing", value)

	assert.Empty(t, store.Get("alice"))
	_, ok = store.GetValue("alice", "topic")
	assert.False(t, ok)
}

func TestDeleteKey(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	store.Update("alice", map[string]any{"a": 1, "b": 2}, true)

	store.DeleteKey("alice", "a")
	store.DeleteKey("alice", "missing")
	store.DeleteKey("nobody", "a")

	assert.Equal(t, map[string]any{"b": 2}, store.Get("alice"))
}

func TestHasRequiresNonEmpty(t *testing.T) {
	store, _ := newTestStore(time.Minute)

	store.Update("alice", map[string]any{}, true)
	assert.False(t, store.Has("alice"), "an empty mapping does not count as context")

	store.SetValue("alice", "k", "v")
	assert.True(t, store.Has("alice"))

	store.DeleteKey("alice", "k")
	assert.False(t, store.Has("alice"))
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	store.SetValue("alice", "k", "v")
	store.SetValue("bob", "k", "v")

	store.Clear("alice")

	assert.False(t, store.Has("alice"))
	assert.ElementsMatch(t, []string{"bob"}, store.ListUsers())

	store.ClearAll()
	assert.Empty(t, store.ListUsers())
}

func TestListUsers(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	store.SetValue("alice", "k", "v")
	store.SetValue("bob", "k", "v")

	assert.ElementsMatch(t, []string{"alice", "bob"}, store.ListUsers())
}
