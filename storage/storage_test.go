package storage

import (
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()
	s.Set(KeyRadius, "5", 0)

	v, ok := s.Get(KeyRadius)
	if !ok || v != "5" {
		t.Errorf("expected (5, true), got (%q, %v)", v, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing key to report ok=false")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	s.now = func() time.Time { return now }

	s.Set(KeyFavourites, `{"Bus":["145"]}`, time.Hour)

	if _, ok := s.Get(KeyFavourites); !ok {
		t.Fatal("value should be readable before expiry")
	}

	now = base.Add(2 * time.Hour)
	if _, ok := s.Get(KeyFavourites); ok {
		t.Error("value should be gone after expiry")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	s.Set(KeySelectedSources, `["buses"]`, 0)
	s.Delete(KeySelectedSources)
	if _, ok := s.Get(KeySelectedSources); ok {
		t.Error("deleted key should be absent")
	}
}
