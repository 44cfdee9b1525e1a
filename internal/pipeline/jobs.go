package pipeline

import (
	"context"
	"time"
)

// Job statuses.
const (
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job records one pipeline run for a document. Documents keep only the
// latest outcome; jobs keep the history.
type Job struct {
	ID           string
	DocumentID   string
	Status       string
	Attempts     int
	ErrorCode    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobsRepo persists pipeline runs.
type JobsRepo interface {
	Create(ctx context.Context, job Job) error
	Finish(ctx context.Context, jobID, status, errorCode, errorMessage string) error
	CountByDocument(ctx context.Context, documentID string) (int, error)
	ListByDocument(ctx context.Context, documentID string) ([]Job, error)
}
