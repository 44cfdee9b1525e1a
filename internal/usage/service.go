package usage

import (
	"context"
	"time"
)

type store interface {
	Get(ctx context.Context, userID string, day string) (int, error)
	Increment(ctx context.Context, userID string, day string, limit int) (int, error)
	Reset(ctx context.Context, userID string, day string) error
}

// Service tracks per-user daily document creation against a fixed
// allowance. The counter is keyed by UTC day, so it resets at midnight
// without a background job.
type Service struct {
	store store
	limit int

	now func() time.Time
}

// NewService constructs a Service with an in-memory store.
func NewService(limit int) *Service {
	return newService(newMemoryStore(), limit)
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store, limit int) *Service {
	return newService(pgStore, limit)
}

func newService(s store, limit int) *Service {
	if limit <= 0 {
		limit = 20
	}
	return &Service{store: s, limit: limit, now: time.Now}
}

// Get returns the current usage for a user.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	now := s.now()
	used, err := s.store.Get(ctx, userID, dayOf(now))
	if err != nil {
		return Usage{}, err
	}
	return Usage{Limit: s.limit, Used: used, Day: dayOf(now), ResetsAt: resetTime(now)}, nil
}

// Consume claims one unit of today's allowance, or fails with
// ErrLimitReached.
func (s *Service) Consume(ctx context.Context, userID string) error {
	_, err := s.store.Increment(ctx, userID, dayOf(s.now()), s.limit)
	return err
}

// Reset zeroes today's counter. Dev-only endpoint.
func (s *Service) Reset(ctx context.Context, userID string) error {
	return s.store.Reset(ctx, userID, dayOf(s.now()))
}
