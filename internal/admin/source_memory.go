package admin

import (
	"context"
	"time"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
	"study-backend/internal/reviews"
	"study-backend/internal/users"
)

// MemorySource aggregates stats from the in-memory repos used in dev
// mode.
type MemorySource struct {
	Users     *users.MemoryRepo
	Documents *documents.MemoryRepo
	Artifacts *artifacts.MemoryRepo
	Reviews   *reviews.MemoryRepo
}

func (s *MemorySource) Collect(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.Users, err = s.Users.CountUsers(ctx); err != nil {
		return Stats{}, err
	}
	if stats.DocumentsByStatus, stats.DocumentsByKind, err = s.Documents.CountByStatusAndKind(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Artifacts, err = s.Artifacts.CountAll(ctx); err != nil {
		return Stats{}, err
	}
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if stats.ReviewsLast7Days, err = s.Reviews.CountActivitySince(ctx, cutoff); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

var _ Source = (*MemorySource)(nil)
