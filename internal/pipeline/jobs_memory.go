package pipeline

import (
	"context"
	"sync"
	"time"
)

// MemoryJobsRepo is the in-memory JobsRepo for dev mode and tests.
type MemoryJobsRepo struct {
	mu   sync.RWMutex
	jobs []Job
}

func NewMemoryJobsRepo() *MemoryJobsRepo {
	return &MemoryJobsRepo{}
}

func (r *MemoryJobsRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *MemoryJobsRepo) Finish(ctx context.Context, jobID, status, errorCode, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == jobID {
			r.jobs[i].Status = status
			r.jobs[i].ErrorCode = errorCode
			r.jobs[i].ErrorMessage = errorMessage
			r.jobs[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

func (r *MemoryJobsRepo) CountByDocument(ctx context.Context, documentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, job := range r.jobs {
		if job.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryJobsRepo) ListByDocument(ctx context.Context, documentID string) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Job
	for _, job := range r.jobs {
		if job.DocumentID == documentID {
			out = append(out, job)
		}
	}
	return out, nil
}

var _ JobsRepo = (*MemoryJobsRepo)(nil)
