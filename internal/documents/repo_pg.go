package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, name, kind, size_bytes, storage_provider, storage_key, video_url, folder_id, status, error_code, error_message, created_at, processed_at`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, name, kind, size_bytes, storage_provider, storage_key, video_url, folder_id, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Name,
		doc.Kind,
		doc.SizeBytes,
		nullable(doc.StorageProvider),
		nullable(doc.StorageKey),
		nullable(doc.VideoURL),
		nullable(doc.FolderID),
		doc.Status,
		doc.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

func (r *PGRepo) GetAnyByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, documentID, status, errorCode, errorMessage string, processedAt time.Time) (bool, error) {
	const query = `
UPDATE documents
SET status = $1, error_code = $2, error_message = $3, processed_at = $4
WHERE id = $5 AND status = 'processing'`
	res, err := r.DB.ExecContext(ctx, query,
		status,
		nullable(errorCode),
		nullable(errorMessage),
		processedAt,
		documentID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
DELETE FROM documents
WHERE user_id = $1 AND id = $2
RETURNING ` + documentColumns
	return scanDocument(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `
DELETE FROM documents
WHERE user_id = $1
RETURNING ` + documentColumns
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListProcessing(ctx context.Context) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE status = 'processing'
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateFolder(ctx context.Context, folder Folder) error {
	const query = `INSERT INTO folders (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, folder.ID, folder.UserID, folder.Name, folder.CreatedAt)
	return err
}

func (r *PGRepo) ListFolders(ctx context.Context, userID string) ([]Folder, error) {
	const query = `SELECT id, user_id, name, created_at FROM folders WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetFolder(ctx context.Context, userID, folderID string) (Folder, error) {
	const query = `SELECT id, user_id, name, created_at FROM folders WHERE user_id = $1 AND id = $2 LIMIT 1`
	var f Folder
	err := r.DB.QueryRowContext(ctx, query, userID, folderID).Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, ErrNotFound
		}
		return Folder{}, err
	}
	return f, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var storageProvider, storageKey, videoURL, folderID, errorCode, errorMessage sql.NullString
	var processedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Name,
		&doc.Kind,
		&doc.SizeBytes,
		&storageProvider,
		&storageKey,
		&videoURL,
		&folderID,
		&doc.Status,
		&errorCode,
		&errorMessage,
		&doc.CreatedAt,
		&processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.StorageProvider = storageProvider.String
	doc.StorageKey = storageKey.String
	doc.VideoURL = videoURL.String
	doc.FolderID = folderID.String
	doc.ErrorCode = errorCode.String
	doc.ErrorMessage = errorMessage.String
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	return doc, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
