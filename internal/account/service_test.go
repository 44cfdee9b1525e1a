package account

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
	"study-backend/internal/reviews"
	"study-backend/internal/users"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Save(_ context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userID + "/" + fileName
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return key, int64(len(data)), "application/octet-stream", nil
}

func (s *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type fixture struct {
	svc     *Service
	store   *fakeStore
	users   *users.MemoryRepo
	docs    *documents.MemoryRepo
	arts    *artifacts.MemoryRepo
	reviews *reviews.MemoryRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	docRepo := documents.NewMemoryRepo()
	artRepo := artifacts.NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	revRepo := reviews.NewMemoryRepo()
	docSvc := &documents.Service{Store: store, Repo: docRepo, Purger: artRepo}
	return &fixture{
		svc:     NewService(docSvc, revRepo, userRepo),
		store:   store,
		users:   userRepo,
		docs:    docRepo,
		arts:    artRepo,
		reviews: revRepo,
	}
}

func (f *fixture) seed(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := f.users.Create(ctx, users.User{ID: userID, Email: userID + "@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	key, _, _, err := f.store.Save(ctx, userID, "notes.pdf", bytes.NewReader([]byte("pdf bytes")))
	if err != nil {
		t.Fatalf("seed object: %v", err)
	}
	doc := documents.Document{
		ID: "doc-" + userID, UserID: userID, Name: "notes.pdf",
		Kind: documents.KindPDF, StorageKey: key,
		Status: documents.StatusCompleted, CreatedAt: now,
	}
	if err := f.docs.Create(ctx, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	if err := f.arts.SaveSummary(ctx, artifacts.Summary{ID: "sum-" + userID, DocumentID: doc.ID, UserID: userID, CreatedAt: now}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}
	if err := f.reviews.AppendSession(ctx, reviews.StudySession{ID: "sess-" + userID, UserID: userID, Kind: "flashcards", CreatedAt: now}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "user-1")
	f.seed(t, "user-2")

	if err := f.svc.DeleteAccount(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := f.users.GetByID(ctx, "user-1"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
	if docs, _ := f.docs.ListByUser(ctx, "user-1", 10, 0); len(docs) != 0 {
		t.Fatalf("expected documents gone, got %d", len(docs))
	}
	if _, err := f.arts.GetSummary(ctx, "user-1", "doc-user-1"); !errors.Is(err, artifacts.ErrNotFound) {
		t.Fatalf("expected summary gone, got %v", err)
	}
	if stats, _ := f.reviews.Stats(ctx, "user-1"); stats.Sessions != 0 {
		t.Fatalf("expected sessions gone, got %d", stats.Sessions)
	}
	if _, err := f.store.Open(ctx, "user-1/notes.pdf"); err == nil {
		t.Fatal("expected stored object gone")
	}

	// Other accounts stay untouched.
	if _, err := f.users.GetByID(ctx, "user-2"); err != nil {
		t.Fatalf("other user affected: %v", err)
	}
	if _, err := f.store.Open(ctx, "user-2/notes.pdf"); err != nil {
		t.Fatalf("other user's object affected: %v", err)
	}
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.DeleteAccount(context.Background(), "ghost"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	f.seed(t, "user-1")

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-Test-User"))
	})
	NewHandler(f.svc).RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/account", nil)
	req.Header.Set("X-Test-User", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := f.users.GetByID(context.Background(), "user-1"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
}
