package mem

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// CodeStore is an in-process keyed TTL store. Values do not survive a restart
// and are not shared between instances; use the table-backed store for that.
type CodeStore struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewCodeStore() *CodeStore {
	return &CodeStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *CodeStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// GetAndConsume is single-use: the entry is removed whether or not it expired.
func (s *CodeStore) GetAndConsume(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	delete(s.data, key)
	if s.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

// DeleteExpired drops stale entries.
func (s *CodeStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}
