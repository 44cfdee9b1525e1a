package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	svc := NewService(repo, &captureMailer{}, 15*time.Minute)
	handler := NewHandler(svc)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpointDuplicateConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"email": "a@example.com", "password": "hunter2secret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, router, "/api/v1/auth/register", gin.H{
		"email": "a@example.com", "password": "hunter2secret",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}
}

func TestLoginEndpointStatuses(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"email": "b@example.com", "password": "hunter2secret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email": "b@example.com", "password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email": "b@example.com", "password": "hunter2secret",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before verification, got %d", rec.Code)
	}

	v, err := repo.GetVerification(context.Background(), "b@example.com")
	if err != nil {
		t.Fatalf("GetVerification: %v", err)
	}
	rec = postJSON(t, router, "/api/v1/auth/verify", gin.H{
		"email": "b@example.com", "code": v.Code,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email": "b@example.com", "password": "hunter2secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after verification, got %d", rec.Code)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a session token")
	}
}

func TestVerifyEndpointBadCode(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := postJSON(t, router, "/api/v1/auth/verify", gin.H{
		"email": "nobody@example.com", "code": "123456",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown email, got %d", rec.Code)
	}
}
