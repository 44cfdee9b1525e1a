package usage

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.Mutex
	counts map[string]int // userID+day -> used
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: make(map[string]int)}
}

func (s *memoryStore) key(userID, day string) string {
	return userID + "|" + day
}

func (s *memoryStore) Get(ctx context.Context, userID, day string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[s.key(userID, day)], nil
}

func (s *memoryStore) Increment(ctx context.Context, userID, day string, limit int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(userID, day)
	if s.counts[key] >= limit {
		return s.counts[key], ErrLimitReached
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *memoryStore) Reset(ctx context.Context, userID, day string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, s.key(userID, day))
	return nil
}
