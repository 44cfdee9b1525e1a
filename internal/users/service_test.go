package users

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureMailer struct {
	to      []string
	subject string
	body    string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = subject
	m.body = body
	return nil
}

func TestRegisterVerifyLogin(t *testing.T) {
	repo := NewMemoryRepo()
	mailer := &captureMailer{}
	svc := NewService(repo, mailer, 15*time.Minute)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Student@Example.com", "hunter2secret", "Study Student")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "student@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if len(mailer.to) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(mailer.to))
	}

	// Login before verification is rejected.
	if _, _, err := svc.Login(ctx, "student@example.com", "hunter2secret"); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	v, err := repo.GetVerification(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("GetVerification: %v", err)
	}
	if err := svc.Verify(ctx, "student@example.com", v.Code); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	token, got, err := svc.Login(ctx, "student@example.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || got.ID != user.ID {
		t.Fatalf("unexpected login result: token=%q user=%+v", token, got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &captureMailer{}, 15*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "hunter2secret", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "dup@example.com", "hunter2secret", ""); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestVerifyWrongAndExpiredCode(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &captureMailer{}, 15*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "late@example.com", "hunter2secret", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Verify(ctx, "late@example.com", "000000"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode for wrong code, got %v", err)
	}

	v, err := repo.GetVerification(ctx, "late@example.com")
	if err != nil {
		t.Fatalf("GetVerification: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := svc.Verify(ctx, "late@example.com", v.Code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode for expired code, got %v", err)
	}
}

func TestResendCodeOverwritesPrior(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &captureMailer{}, 15*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "re@example.com", "hunter2secret", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	first, _ := repo.GetVerification(ctx, "re@example.com")

	if err := svc.ResendCode(ctx, "re@example.com"); err != nil {
		t.Fatalf("ResendCode: %v", err)
	}
	second, _ := repo.GetVerification(ctx, "re@example.com")

	// Old code no longer works once a new one is issued (unless equal by chance).
	if first.Code != second.Code {
		if err := svc.Verify(ctx, "re@example.com", first.Code); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected old code rejected, got %v", err)
		}
	}
	if err := svc.Verify(ctx, "re@example.com", second.Code); err != nil {
		t.Fatalf("Verify with new code: %v", err)
	}
}

func TestUpsertFromAuthAttachesToLocalAccount(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &captureMailer{}, 15*time.Minute)
	ctx := context.Background()

	user, err := svc.Register(ctx, "mix@example.com", "hunter2secret", "Mix")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	err = svc.UpsertFromAuth(ctx, User{
		ID:         "google-sub-1",
		Email:      "mix@example.com",
		FullName:   "Mix Person",
		PictureURL: "https://example.com/p.png",
		Provider:   ProviderGoogle,
	})
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}

	got, err := svc.GetByEmail(ctx, "mix@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected OAuth login to attach to existing account, got id %q", got.ID)
	}
	if !got.EmailVerified {
		t.Fatalf("expected OAuth upsert to mark email verified")
	}
}
