package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
	"study-backend/internal/reviews"
	"study-backend/internal/users"
)

func seededSource(t *testing.T) *MemorySource {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	userRepo := users.NewMemoryRepo()
	for _, email := range []string{"a@example.com", "b@example.com"} {
		if err := userRepo.Create(ctx, users.User{ID: "user-" + email, Email: email}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	docRepo := documents.NewMemoryRepo()
	seed := []documents.Document{
		{ID: "d1", UserID: "u1", Kind: documents.KindPDF, Status: documents.StatusCompleted, CreatedAt: now},
		{ID: "d2", UserID: "u1", Kind: documents.KindPDF, Status: documents.StatusFailed, CreatedAt: now},
		{ID: "d3", UserID: "u2", Kind: documents.KindYouTube, Status: documents.StatusCompleted, CreatedAt: now},
	}
	for _, doc := range seed {
		if err := docRepo.Create(ctx, doc); err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}

	artRepo := artifacts.NewMemoryRepo()
	if err := artRepo.SaveSummary(ctx, artifacts.Summary{ID: "s1", DocumentID: "d1", UserID: "u1", CreatedAt: now}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}
	if err := artRepo.ReplaceFlashcards(ctx, "d1", []artifacts.Flashcard{
		{ID: "c1", DocumentID: "d1", UserID: "u1"},
		{ID: "c2", DocumentID: "d1", UserID: "u1"},
	}); err != nil {
		t.Fatalf("seed flashcards: %v", err)
	}

	revRepo := reviews.NewMemoryRepo()
	if err := revRepo.UpsertFlashcardPerformance(ctx, reviews.FlashcardPerformance{
		UserID: "u1", FlashcardID: "c1", DocumentID: "d1", Verdict: reviews.VerdictGood,
	}); err != nil {
		t.Fatalf("seed performance: %v", err)
	}

	return &MemorySource{Users: userRepo, Documents: docRepo, Artifacts: artRepo, Reviews: revRepo}
}

func TestServiceAggregatesCounters(t *testing.T) {
	svc := NewService(seededSource(t))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Users != 2 {
		t.Fatalf("users = %d, want 2", stats.Users)
	}
	if stats.DocumentsByStatus[documents.StatusCompleted] != 2 || stats.DocumentsByStatus[documents.StatusFailed] != 1 {
		t.Fatalf("unexpected status counts: %+v", stats.DocumentsByStatus)
	}
	if stats.DocumentsByKind[documents.KindPDF] != 2 || stats.DocumentsByKind[documents.KindYouTube] != 1 {
		t.Fatalf("unexpected kind counts: %+v", stats.DocumentsByKind)
	}
	if stats.Artifacts != 3 {
		t.Fatalf("artifacts = %d, want 3", stats.Artifacts)
	}
	if stats.ReviewsLast7Days != 1 {
		t.Fatalf("reviews = %d, want 1", stats.ReviewsLast7Days)
	}
	if stats.GeneratedAt.IsZero() {
		t.Fatal("generatedAt not set")
	}
}

func newAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-Test-User"))
		c.Set("userAdmin", c.GetHeader("X-Test-Admin") == "true")
	})
	NewHandler(NewService(seededSource(t))).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestStatsEndpointRequiresAdmin(t *testing.T) {
	router := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("X-Test-User", "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestStatsEndpointReturnsSnapshot(t *testing.T) {
	router := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set("X-Test-Admin", "true")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Users != 2 || body.DocumentsByKind[documents.KindPDF] != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}
