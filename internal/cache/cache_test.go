package cache

import (
	"testing"
	"time"
)

func TestStoreGetPut(t *testing.T) {
	s := NewStore[string]()

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss on empty store")
	}

	s.Put("a", "alpha", time.Minute)
	v, ok := s.Get("a")
	if !ok || v != "alpha" {
		t.Errorf("Get(a) = %q, %v; want alpha, true", v, ok)
	}

	s.Put("a", "beta", time.Minute)
	if v, _ := s.Get("a"); v != "beta" {
		t.Errorf("Get(a) after overwrite = %q, want beta", v)
	}
}

func TestStoreExpiry(t *testing.T) {
	now := time.Now()
	s := NewStore[int]()
	s.now = func() time.Time { return now }

	s.Put("k", 42, 5*time.Minute)

	// Just inside the TTL
	now = now.Add(5*time.Minute - time.Second)
	if v, ok := s.Get("k"); !ok || v != 42 {
		t.Errorf("Get inside TTL = %d, %v; want 42, true", v, ok)
	}

	// At the boundary the entry is expired
	now = now.Add(time.Second)
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss at TTL boundary")
	}

	// Expired entries remain countable but invisible
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStoreRefreshResetsExpiry(t *testing.T) {
	now := time.Now()
	s := NewStore[int]()
	s.now = func() time.Time { return now }

	s.Put("k", 1, time.Minute)
	now = now.Add(50 * time.Second)
	s.Put("k", 2, time.Minute)
	now = now.Add(50 * time.Second)

	if v, ok := s.Get("k"); !ok || v != 2 {
		t.Errorf("Get after refresh = %d, %v; want 2, true", v, ok)
	}
}

func TestSnapshot(t *testing.T) {
	now := time.Now()
	s := NewSnapshot[[]string]()
	s.now = func() time.Time { return now }

	if _, ok := s.Get(); ok {
		t.Error("expected miss on empty snapshot")
	}

	s.Put([]string{"a", "b"}, time.Hour)
	v, ok := s.Get()
	if !ok || len(v) != 2 {
		t.Fatalf("Get = %v, %v; want 2 entries, true", v, ok)
	}

	now = now.Add(time.Hour)
	if _, ok := s.Get(); ok {
		t.Error("expected miss after expiry")
	}

	// A fresh Put revives the snapshot
	s.Put([]string{"c"}, time.Hour)
	if v, ok := s.Get(); !ok || len(v) != 1 || v[0] != "c" {
		t.Errorf("Get after revive = %v, %v", v, ok)
	}
}
