package memory

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, found, err := s.Get(ctx, "nope"); found || err != nil {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}

	buf := []byte("abc")
	if err := s.Set(ctx, "k", buf); err != nil {
		t.Fatalf("set: %v", err)
	}
	buf[0] = 'X' // caller mutation must not leak in
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || string(v) != "abc" {
		t.Fatalf("unexpected get: %q found=%v err=%v", v, found, err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
}

func TestMemoryStoreKeysSorted(t *testing.T) {
	ctx := context.Background()
	s := NewFromEntries(map[string][]byte{
		"categories:b": nil,
		"categories:a": nil,
		"folders":      nil,
	})
	keys, err := s.Keys(ctx, "categories:")
	if err != nil || len(keys) != 2 || keys[0] != "categories:a" || keys[1] != "categories:b" {
		t.Fatalf("unexpected keys: %v err=%v", keys, err)
	}
}

func TestMemoryStoreFailWith(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("disk full")
	s.FailWith(boom)

	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if _, _, err := s.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	s.FailWith(nil)
	if s.Len() != 0 {
		t.Fatalf("failed set must not store anything")
	}
}
