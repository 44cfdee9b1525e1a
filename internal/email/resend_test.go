package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResendSenderPostsPayload(t *testing.T) {
	var got resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer rk-test" {
			t.Fatalf("unexpected auth header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	t.Setenv("RESEND_API_URL", server.URL)

	sender, err := NewResendSender("rk-test", "noreply@example.com")
	if err != nil {
		t.Fatalf("NewResendSender: %v", err)
	}
	if err := sender.Send(context.Background(), "user@example.com", "Verify your email", "code: 123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(got.To) != 1 || got.To[0] != "user@example.com" {
		t.Fatalf("unexpected recipients: %v", got.To)
	}
	if got.Subject != "Verify your email" {
		t.Fatalf("unexpected subject: %q", got.Subject)
	}
}

func TestResendSenderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()
	t.Setenv("RESEND_API_URL", server.URL)

	sender, err := NewResendSender("rk-test", "noreply@example.com")
	if err != nil {
		t.Fatalf("NewResendSender: %v", err)
	}
	if err := sender.Send(context.Background(), "user@example.com", "s", "b"); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}
