package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"study-backend/internal/shared/storage/object/local"
	"study-backend/internal/youtube"
)

type fakeQueue struct {
	enqueued []string
}

func (q *fakeQueue) Enqueue(ctx context.Context, documentID string) error {
	q.enqueued = append(q.enqueued, documentID)
	return nil
}

type fakeQuota struct {
	err   error
	calls int
}

func (q *fakeQuota) Consume(ctx context.Context, userID string) error {
	q.calls++
	return q.err
}

type fakeResolver struct {
	video youtube.Video
	err   error
}

func (r *fakeResolver) Lookup(ctx context.Context, videoURL string) (youtube.Video, error) {
	return r.video, r.err
}

func newTestService(t *testing.T) (*Service, *fakeQueue) {
	t.Helper()
	queue := &fakeQueue{}
	svc := &Service{
		Store:    local.New(t.TempDir()),
		Repo:     NewMemoryRepo(),
		Queue:    queue,
		Quota:    &fakeQuota{},
		MaxVideo: 45 * time.Minute,
	}
	return svc, queue
}

func TestUploadCreatesProcessingDocument(t *testing.T) {
	svc, queue := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "biology-notes.pdf", "", 11, strings.NewReader("pdf content"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.Status != StatusProcessing {
		t.Fatalf("expected status processing, got %q", doc.Status)
	}
	if doc.Kind != KindPDF {
		t.Fatalf("expected kind pdf, got %q", doc.Kind)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != doc.ID {
		t.Fatalf("expected one pipeline enqueue for %s, got %v", doc.ID, queue.enqueued)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), "user-1", "song.mp3", "", 4, strings.NewReader("data"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestUploadStopsWhenQuotaExhausted(t *testing.T) {
	svc, queue := newTestService(t)
	quotaErr := errors.New("limit reached")
	svc.Quota = &fakeQuota{err: quotaErr}

	_, err := svc.Upload(context.Background(), "user-1", "a.pdf", "", 4, strings.NewReader("data"))
	if !errors.Is(err, quotaErr) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if len(queue.enqueued) != 0 {
		t.Fatalf("expected no enqueue when quota blocks")
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-a", "a.pdf", "", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.Get(ctx, "user-b", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's document, got %v", err)
	}
	if err := svc.Delete(ctx, "user-b", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting another user's document, got %v", err)
	}
	if _, err := svc.Get(ctx, "user-a", doc.ID); err != nil {
		t.Fatalf("owner fetch should still work: %v", err)
	}

	docs, err := svc.List(ctx, "user-b", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty list for other user, got %d", len(docs))
	}
}

func TestCreateFromYouTubeTooLong(t *testing.T) {
	svc, queue := newTestService(t)
	svc.Videos = &fakeResolver{video: youtube.Video{
		ID:       "vid",
		Title:    "Full semester recording",
		Duration: 80 * time.Minute,
	}}

	_, _, err := svc.CreateFromYouTube(context.Background(), "user-1", "https://youtu.be/vid12345678", "")
	var tooLong *VideoTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("expected VideoTooLongError, got %v", err)
	}
	if tooLong.Measured != 80*time.Minute || tooLong.Max != 45*time.Minute {
		t.Fatalf("unexpected durations: %+v", tooLong)
	}
	if len(queue.enqueued) != 0 {
		t.Fatalf("expected no document for an over-long video")
	}
}

func TestCreateFromYouTubeFlagsNonEducational(t *testing.T) {
	svc, queue := newTestService(t)
	svc.Videos = &fakeResolver{video: youtube.Video{
		ID:         "vid",
		Title:      "Epic gaming moments",
		CategoryID: "20",
		Duration:   10 * time.Minute,
	}}

	doc, educational, err := svc.CreateFromYouTube(context.Background(), "user-1", "https://youtu.be/vid12345678", "")
	if err != nil {
		t.Fatalf("CreateFromYouTube: %v", err)
	}
	if educational {
		t.Fatalf("expected non-educational flag")
	}
	if doc.Kind != KindYouTube || doc.Status != StatusProcessing {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(queue.enqueued) != 1 {
		t.Fatalf("expected the video to be accepted and enqueued")
	}
}

func TestDeleteRemovesStoredObject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "a.pdf", "", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Store.Open(ctx, doc.StorageKey); err == nil {
		t.Fatalf("expected stored object to be gone")
	}
	if _, err := svc.Get(ctx, "user-1", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected document row to be gone, got %v", err)
	}
}

func TestFolderScoping(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, "user-a", "Biology")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	// Another user cannot attach documents to it.
	_, err = svc.Upload(ctx, "user-b", "a.pdf", folder.ID, 4, strings.NewReader("data"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for foreign folder, got %v", err)
	}

	doc, err := svc.Upload(ctx, "user-a", "a.pdf", folder.ID, 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Upload into folder: %v", err)
	}
	if doc.FolderID != folder.ID {
		t.Fatalf("expected folder id on document")
	}
}
