package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"study-backend/internal/shared/storage/object"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/youtube"
)

const maxUploadSize = 25 << 20 // 25MB

// Queue hands a freshly created document to the processing pipeline.
type Queue interface {
	Enqueue(ctx context.Context, documentID string) error
}

// Quota is consulted once per created document.
type Quota interface {
	Consume(ctx context.Context, userID string) error
}

// Purger removes generated artifacts when a document goes away. With
// Postgres the ON DELETE CASCADE constraints already cover this; the
// in-memory repos need the explicit call.
type Purger interface {
	DeleteByDocument(ctx context.Context, documentID string) error
}

// VideoResolver looks up video metadata; *youtube.Client implements it.
type VideoResolver interface {
	Lookup(ctx context.Context, videoURL string) (youtube.Video, error)
}

// Service contains business logic for documents and folders.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Queue    Queue
	Quota    Quota
	Purger   Purger
	Videos   VideoResolver
	MaxVideo time.Duration
}

// Upload stores the file, records the document in processing state and
// enqueues a pipeline run. The response does not wait for processing.
func (s *Service) Upload(ctx context.Context, userID, fileName, folderID string, size int64, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if size > maxUploadSize {
		return Document{}, fmt.Errorf("%w: file exceeds the %dMB limit", ErrInvalidInput, maxUploadSize>>20)
	}
	kind, err := kindFromName(fileName)
	if err != nil {
		return Document{}, err
	}
	if err := s.checkFolder(ctx, userID, folderID); err != nil {
		return Document{}, err
	}
	if err := s.Quota.Consume(ctx, userID); err != nil {
		return Document{}, err
	}

	storageKey, storedSize, _, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       fileName,
		Kind:       kind,
		SizeBytes:  storedSize,
		StorageKey: storageKey,
		FolderID:   folderID,
		Status:     StatusProcessing,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	if err := s.Queue.Enqueue(ctx, doc.ID); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// CreateFromYouTube validates the video and records a youtube document.
// There is nothing to extract; the pipeline works from the metadata.
func (s *Service) CreateFromYouTube(ctx context.Context, userID, videoURL, folderID string) (Document, bool, error) {
	if s.Videos == nil {
		return Document{}, false, fmt.Errorf("%w: video lookups are not configured", ErrInvalidInput)
	}
	if err := s.checkFolder(ctx, userID, folderID); err != nil {
		return Document{}, false, err
	}

	video, err := s.Videos.Lookup(ctx, videoURL)
	if err != nil {
		return Document{}, false, err
	}
	if s.MaxVideo > 0 && video.Duration > s.MaxVideo {
		return Document{}, false, &VideoTooLongError{Measured: video.Duration, Max: s.MaxVideo}
	}
	educational := youtube.LooksEducational(video)
	if !educational {
		telemetry.Warn("documents.video_not_educational", map[string]any{
			"videoId": video.ID,
			"title":   video.Title,
		})
	}

	if err := s.Quota.Consume(ctx, userID); err != nil {
		return Document{}, false, err
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      video.Title,
		Kind:      KindYouTube,
		VideoURL:  videoURL,
		FolderID:  folderID,
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, false, err
	}
	if err := s.Queue.Enqueue(ctx, doc.ID); err != nil {
		return Document{}, false, err
	}
	return doc, educational, nil
}

func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, userID, documentID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes the document row (artifacts cascade) and then the
// stored object. A storage failure is logged, not returned: the row is
// already gone and the orphaned object is harmless.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.Delete(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if s.Purger != nil {
		if err := s.Purger.DeleteByDocument(ctx, doc.ID); err != nil {
			telemetry.Warn("documents.artifact_purge_failed", map[string]any{
				"documentId": doc.ID,
				"error":      err.Error(),
			})
		}
	}
	s.deleteStored(ctx, doc)
	return nil
}

// DeleteAllForUser backs account deletion.
func (s *Service) DeleteAllForUser(ctx context.Context, userID string) error {
	docs, err := s.Repo.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if s.Purger != nil {
			if err := s.Purger.DeleteByDocument(ctx, doc.ID); err != nil {
				telemetry.Warn("documents.artifact_purge_failed", map[string]any{
					"documentId": doc.ID,
					"error":      err.Error(),
				})
			}
		}
		s.deleteStored(ctx, doc)
	}
	return nil
}

func (s *Service) CreateFolder(ctx context.Context, userID, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, fmt.Errorf("%w: folder name is required", ErrInvalidInput)
	}
	folder := Folder{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateFolder(ctx, folder); err != nil {
		return Folder{}, err
	}
	return folder, nil
}

func (s *Service) ListFolders(ctx context.Context, userID string) ([]Folder, error) {
	return s.Repo.ListFolders(ctx, userID)
}

func (s *Service) checkFolder(ctx context.Context, userID, folderID string) error {
	if folderID == "" {
		return nil
	}
	if _, err := s.Repo.GetFolder(ctx, userID, folderID); err != nil {
		return fmt.Errorf("%w: unknown folder", ErrInvalidInput)
	}
	return nil
}

func (s *Service) deleteStored(ctx context.Context, doc Document) {
	if doc.StorageKey == "" {
		return
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("documents.storage_delete_failed", map[string]any{
			"documentId": doc.ID,
			"storageKey": doc.StorageKey,
			"error":      err.Error(),
		})
	}
}

func kindFromName(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	default:
		return "", fmt.Errorf("%w: only .pdf and .docx uploads are accepted", ErrUnsupportedType)
	}
}
