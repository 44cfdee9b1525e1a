package account

import (
	"context"
	"fmt"

	"study-backend/internal/documents"
	"study-backend/internal/reviews"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/users"
)

// Service deletes an account and everything hanging off it. Document
// deletion removes stored files and artifacts; review history goes
// next, the user row last so a failed cascade leaves the account
// intact and retryable.
type Service struct {
	Docs    *documents.Service
	Reviews reviews.Repo
	Users   users.Repo
}

func NewService(docs *documents.Service, reviewsRepo reviews.Repo, usersRepo users.Repo) *Service {
	return &Service{Docs: docs, Reviews: reviewsRepo, Users: usersRepo}
}

func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Docs.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	if err := s.Reviews.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete review history: %w", err)
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	telemetry.Info("account.deleted", map[string]any{"userId": userID})
	return nil
}
