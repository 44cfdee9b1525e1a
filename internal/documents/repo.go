package documents

import (
	"context"
	"time"
)

// Repo defines persistence for documents and folders.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	// GetAnyByID ignores ownership; the pipeline worker uses it.
	GetAnyByID(ctx context.Context, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	// UpdateStatus transitions a document out of processing. It only
	// touches rows still in processing so the first writer wins.
	UpdateStatus(ctx context.Context, documentID, status, errorCode, errorMessage string, processedAt time.Time) (bool, error)
	Delete(ctx context.Context, userID, documentID string) (Document, error)
	DeleteByUser(ctx context.Context, userID string) ([]Document, error)
	ListProcessing(ctx context.Context) ([]Document, error)

	CreateFolder(ctx context.Context, folder Folder) error
	ListFolders(ctx context.Context, userID string) ([]Folder, error)
	GetFolder(ctx context.Context, userID, folderID string) (Folder, error)
}
