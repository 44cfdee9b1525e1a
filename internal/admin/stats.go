package admin

import (
	"context"
	"time"
)

// Stats is the platform snapshot served to admins.
type Stats struct {
	Users             int            `json:"users"`
	DocumentsByStatus map[string]int `json:"documentsByStatus"`
	DocumentsByKind   map[string]int `json:"documentsByKind"`
	Artifacts         int            `json:"artifacts"`
	ReviewsLast7Days  int            `json:"reviewsLast7Days"`
	GeneratedAt       time.Time      `json:"generatedAt"`
}

// Source produces the raw counters. There is a SQL implementation and
// an in-memory one for dev mode.
type Source interface {
	Collect(ctx context.Context) (Stats, error)
}

// Service wraps a Source.
type Service struct {
	Source Source
}

func NewService(source Source) *Service {
	return &Service{Source: source}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.Source.Collect(ctx)
	if err != nil {
		return Stats{}, err
	}
	if stats.DocumentsByStatus == nil {
		stats.DocumentsByStatus = map[string]int{}
	}
	if stats.DocumentsByKind == nil {
		stats.DocumentsByKind = map[string]int{}
	}
	stats.GeneratedAt = time.Now().UTC()
	return stats, nil
}
