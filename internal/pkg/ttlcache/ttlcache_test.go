package ttlcache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](time.Hour)

	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get returned miss for freshly set key")
	}
	if got != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c := New[int](time.Hour)

	if _, ok := c.Get("nope"); ok {
		t.Error("Get returned hit for absent key")
	}
}

func TestCache_ExpiryEvictsLazily(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock[string](time.Hour, func() time.Time { return clock })

	c.Set("k", "v")

	// Just inside the TTL: still valid.
	clock = clock.Add(time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired before TTL elapsed")
	}

	// Past the TTL: miss, and the entry is evicted as a side effect.
	clock = clock.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry still valid after TTL elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry read, want 0", c.Len())
	}

	// A fresh Set after expiry works normally.
	c.Set("k", "v2")
	got, ok := c.Get("k")
	if !ok || got != "v2" {
		t.Errorf("Get after re-set = %q, %v, want %q, true", got, ok, "v2")
	}
}

func TestCache_SetReplacesEntry(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock[string](time.Hour, func() time.Time { return clock })

	c.Set("k", "old")
	clock = clock.Add(50 * time.Minute)
	c.Set("k", "new")

	// The replacement restarts the TTL from the second Set.
	clock = clock.Add(55 * time.Minute)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("replaced entry expired on the original entry's clock")
	}
	if got != "new" {
		t.Errorf("Get = %q, want %q", got, "new")
	}
}

func TestCache_DeleteAbsentKeyIsNoop(t *testing.T) {
	c := New[string](time.Hour)
	c.Delete("missing") // must not panic

	c.Set("k", "v")
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Get returned hit after Delete")
	}
}

func TestCache_GetWithTimestamp(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	inserted := clock
	c := NewWithClock[int](time.Hour, func() time.Time { return clock })

	c.Set("k", 42)
	clock = clock.Add(10 * time.Minute)

	v, ts, ok := c.GetWithTimestamp("k")
	if !ok {
		t.Fatal("GetWithTimestamp returned miss")
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
	if !ts.Equal(inserted) {
		t.Errorf("timestamp = %v, want %v", ts, inserted)
	}
}
