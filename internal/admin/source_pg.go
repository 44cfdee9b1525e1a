package admin

import (
	"context"
	"database/sql"
)

// PGSource collects admin stats with SQL aggregates.
type PGSource struct {
	DB *sql.DB
}

func (s *PGSource) Collect(ctx context.Context) (Stats, error) {
	stats := Stats{
		DocumentsByStatus: map[string]int{},
		DocumentsByKind:   map[string]int{},
	}

	if err := s.DB.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&stats.Users); err != nil {
		return Stats{}, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT status, kind, count(*) FROM documents GROUP BY status, kind`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status, kind string
		var count int
		if err := rows.Scan(&status, &kind, &count); err != nil {
			return Stats{}, err
		}
		stats.DocumentsByStatus[status] += count
		stats.DocumentsByKind[kind] += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	const artifactsQuery = `
SELECT
  (SELECT count(*) FROM summaries) +
  (SELECT count(*) FROM notes) +
  (SELECT count(*) FROM flashcards) +
  (SELECT count(*) FROM quiz_questions)`
	if err := s.DB.QueryRowContext(ctx, artifactsQuery).Scan(&stats.Artifacts); err != nil {
		return Stats{}, err
	}

	const reviewsQuery = `
SELECT
  (SELECT count(*) FROM flashcard_performance WHERE updated_at > now() - interval '7 days') +
  (SELECT count(*) FROM quiz_performance WHERE updated_at > now() - interval '7 days') +
  (SELECT count(*) FROM study_sessions WHERE created_at > now() - interval '7 days')`
	if err := s.DB.QueryRowContext(ctx, reviewsQuery).Scan(&stats.ReviewsLast7Days); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

var _ Source = (*PGSource)(nil)
