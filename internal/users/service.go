package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"study-backend/internal/email"
	"study-backend/internal/shared/auth"
	"study-backend/internal/shared/telemetry"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid or expired code")
)

type Service struct {
	Repo    Repo
	Mailer  email.Sender
	CodeTTL time.Duration

	now func() time.Time
}

func NewService(repo Repo, mailer email.Sender, codeTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	return &Service{Repo: repo, Mailer: mailer, CodeTTL: codeTTL, now: time.Now}
}

// Register creates a local account and issues a verification code. The
// account cannot log in until the code is confirmed.
func (s *Service) Register(ctx context.Context, emailAddr, password, name string) (User, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return User{}, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return User{}, fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		FullName:     strings.TrimSpace(name),
		Provider:     ProviderLocal,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	if err := s.issueCode(ctx, emailAddr); err != nil {
		// The account exists; the user can ask for a new code.
		telemetry.Warn("users.verification_send_failed", map[string]any{
			"email": emailAddr,
			"error": err.Error(),
		})
	}
	return user, nil
}

// Login checks credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (string, User, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	user, err := s.Repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if user.PasswordHash == "" {
		// OAuth-only account.
		return "", User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", User{}, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return "", User{}, ErrEmailNotVerified
	}
	token, err := auth.SignJWT(auth.Claims{
		Sub:     user.ID,
		Email:   user.Email,
		Name:    user.FullName,
		Picture: user.PictureURL,
		Admin:   user.IsAdmin,
	})
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// Verify confirms the code for an email and marks the account verified.
func (s *Service) Verify(ctx context.Context, emailAddr, code string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	v, err := s.Repo.GetVerification(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if s.now().After(v.ExpiresAt) || v.Code != strings.TrimSpace(code) {
		return ErrInvalidCode
	}
	if err := s.Repo.MarkVerified(ctx, emailAddr); err != nil {
		return err
	}
	return s.Repo.DeleteVerification(ctx, emailAddr)
}

// ResendCode reissues the verification code, replacing any prior one.
func (s *Service) ResendCode(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	user, err := s.Repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.issueCode(ctx, emailAddr)
}

// UpsertFromAuth persists the identity from an OAuth login. OAuth
// providers vouch for the email, so the account arrives verified.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	user.Email = strings.ToLower(user.Email)
	user.EmailVerified = true
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) GetByEmail(ctx context.Context, emailAddr string) (User, error) {
	return s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
}

func (s *Service) issueCode(ctx context.Context, emailAddr string) error {
	code, err := randomCode()
	if err != nil {
		return err
	}
	v := Verification{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: s.now().Add(s.CodeTTL),
	}
	if err := s.Repo.UpsertVerification(ctx, v); err != nil {
		return err
	}
	if s.Mailer == nil {
		return errors.New("mailer not configured")
	}
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.CodeTTL.Minutes()))
	return s.Mailer.Send(ctx, emailAddr, "Verify your email", body)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
