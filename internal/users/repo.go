package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

var ErrDuplicateEmail = errDuplicateEmail{}

type errDuplicateEmail struct{}

func (errDuplicateEmail) Error() string { return "email already registered" }

type Repo interface {
	Create(ctx context.Context, user User) error
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	MarkVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, userID string) error

	UpsertVerification(ctx context.Context, v Verification) error
	GetVerification(ctx context.Context, email string) (Verification, error)
	DeleteVerification(ctx context.Context, email string) error
}
