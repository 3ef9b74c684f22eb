package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute, 10)

	c.Set("key", "value")

	got, ok := c.Get("key")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.(string) != "value" {
		t.Errorf("expected value, got %v", got)
	}
}

func TestGet_Miss(t *testing.T) {
	c := New(time.Minute, 10)
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute, 10)
	c.SetWithTTL("short", 1, 10*time.Millisecond)

	if _, ok := c.Get("short"); !ok {
		t.Fatal("entry should be present before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("entry should have expired")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	c := New(time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("entry b should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("entry c should survive")
	}
}

func TestUpdateDoesNotEvict(t *testing.T) {
	c := New(time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // update in place

	if _, ok := c.Get("b"); !ok {
		t.Error("updating an existing key must not evict")
	}
	got, _ := c.Get("a")
	if got.(int) != 10 {
		t.Errorf("expected updated value 10, got %v", got)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute, 10)
	c.Set(MakeKey("watchlist"), 1)
	c.Set(MakeKey("watchlist", "page2"), 2)
	c.Set(MakeKey("news", "us"), 3)

	c.InvalidatePrefix("watchlist")

	if _, ok := c.Get("watchlist"); ok {
		t.Error("watchlist entry should be invalidated")
	}
	if _, ok := c.Get("watchlist:page2"); ok {
		t.Error("prefixed entry should be invalidated")
	}
	if _, ok := c.Get("news:us"); !ok {
		t.Error("unrelated entry must survive")
	}
}

func TestMakeKey(t *testing.T) {
	if got := MakeKey("history", "BTC", "1d"); got != "history:BTC:1d" {
		t.Errorf("unexpected key %s", got)
	}
}
