package pipeline

import (
	"context"
	"database/sql"
)

// PGJobsRepo implements JobsRepo using Postgres.
type PGJobsRepo struct {
	DB *sql.DB
}

func (r *PGJobsRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO pipeline_jobs (id, document_id, status, attempts, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`
	_, err := r.DB.ExecContext(ctx, query, job.ID, job.DocumentID, job.Status, job.Attempts, job.CreatedAt)
	return err
}

func (r *PGJobsRepo) Finish(ctx context.Context, jobID, status, errorCode, errorMessage string) error {
	const query = `
UPDATE pipeline_jobs
SET status = $1, error_code = $2, error_message = $3, updated_at = now()
WHERE id = $4`
	_, err := r.DB.ExecContext(ctx, query, status, nullable(errorCode), nullable(errorMessage), jobID)
	return err
}

func (r *PGJobsRepo) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
SELECT count(*) FROM pipeline_jobs WHERE document_id = $1`, documentID).Scan(&count)
	return count, err
}

func (r *PGJobsRepo) ListByDocument(ctx context.Context, documentID string) ([]Job, error) {
	const query = `
SELECT id, document_id, status, attempts, error_code, error_message, created_at, updated_at
FROM pipeline_jobs
WHERE document_id = $1
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var job Job
		var errorCode, errorMessage sql.NullString
		if err := rows.Scan(&job.ID, &job.DocumentID, &job.Status, &job.Attempts, &errorCode, &errorMessage, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		job.ErrorCode = errorCode.String
		job.ErrorMessage = errorMessage.String
		out = append(out, job)
	}
	return out, rows.Err()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ JobsRepo = (*PGJobsRepo)(nil)
