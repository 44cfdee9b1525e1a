package usage

import (
	"errors"
	"time"
)

// ErrLimitReached indicates the user exhausted today's allowance.
var ErrLimitReached = errors.New("limit reached")

// Usage is a user's consumption snapshot for the current day (UTC).
type Usage struct {
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	Day      string    `json:"day"`
	ResetsAt time.Time `json:"resetsAt"`
}

func dayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func resetTime(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}
