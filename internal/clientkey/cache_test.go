package clientkey

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCache_GetWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(10*time.Minute, clock.Now)

	if _, ok := cache.Get(); ok {
		t.Fatal("expected empty cache to report absent")
	}

	cache.Set("X")
	clock.Advance(9*time.Minute + 59*time.Second)

	got, ok := cache.Get()
	if !ok || got != "X" {
		t.Fatalf("Get() = %q, %v; want X, true", got, ok)
	}
}

func TestCache_ExpiresAtTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(10*time.Minute, clock.Now)

	cache.Set("X")
	clock.Advance(10 * time.Minute)

	if got, ok := cache.Get(); ok {
		t.Fatalf("Get() = %q after TTL, want absent", got)
	}
}

func TestCache_SetOverwritesAndRestamps(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(10*time.Minute, clock.Now)

	cache.Set("old")
	clock.Advance(8 * time.Minute)
	cache.Set("new")
	clock.Advance(8 * time.Minute)

	got, ok := cache.Get()
	if !ok || got != "new" {
		t.Fatalf("Get() = %q, %v; want new, true", got, ok)
	}
}

func TestNewCache_Defaults(t *testing.T) {
	cache := NewCache(0, nil)
	if cache.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, DefaultTTL)
	}
	cache.Set("k")
	if got, ok := cache.Get(); !ok || got != "k" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
}
