// Package memory provides an ephemeral Store used by tests and by the
// memory backend.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"shoplist/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu      sync.Mutex
	entries map[string][]byte
	failErr error
}

func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

// NewFromEntries seeds the store. Values are copied.
func NewFromEntries(entries map[string][]byte) *Store {
	s := New()
	for k, v := range entries {
		s.entries[k] = bytes.Clone(v)
	}
	return s
}

// FailWith makes every subsequent operation return err until called with nil.
// It simulates a full disk or a locked database.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, false, s.failErr
	}
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if value == nil {
		value = []byte{}
	}
	s.entries[key] = bytes.Clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	delete(s.entries, key)
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	var out []string
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
