package usage

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, userID, day string) (int, error) {
	var used int
	err := s.DB.QueryRowContext(ctx, `
SELECT used FROM usage_counters WHERE user_id = $1 AND day = $2`, userID, day).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return used, err
}

// Increment claims a unit atomically: the guarded UPDATE only succeeds
// while under the limit, so concurrent uploads cannot overshoot.
func (s *pgStore) Increment(ctx context.Context, userID, day string, limit int) (int, error) {
	const query = `
INSERT INTO usage_counters (user_id, day, used, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (user_id, day) DO UPDATE SET
  used = usage_counters.used + 1,
  updated_at = now()
WHERE usage_counters.used < $3
RETURNING used`
	var used int
	err := s.DB.QueryRowContext(ctx, query, userID, day, limit).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return limit, ErrLimitReached
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

func (s *pgStore) Reset(ctx context.Context, userID, day string) error {
	_, err := s.DB.ExecContext(ctx, `
DELETE FROM usage_counters WHERE user_id = $1 AND day = $2`, userID, day)
	return err
}
