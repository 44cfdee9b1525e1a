package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu            sync.RWMutex
	users         map[string]User
	verifications map[string]Verification
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:         make(map[string]User),
		verifications: make(map[string]Verification),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for id, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			if user.FullName != "" {
				existing.FullName = user.FullName
			}
			if user.PictureURL != "" {
				existing.PictureURL = user.PictureURL
			}
			existing.EmailVerified = existing.EmailVerified || user.EmailVerified
			existing.UpdatedAt = now
			r.users[id] = existing
			return nil
		}
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) MarkVerified(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			user.EmailVerified = true
			user.UpdatedAt = time.Now().UTC()
			r.users[id] = user
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) UpsertVerification(ctx context.Context, v Verification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifications[strings.ToLower(v.Email)] = v
	return nil
}

func (r *MemoryRepo) GetVerification(ctx context.Context, email string) (Verification, error) {
	if err := ctx.Err(); err != nil {
		return Verification{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verifications[strings.ToLower(email)]
	if !ok {
		return Verification{}, ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	delete(r.users, userID)
	delete(r.verifications, strings.ToLower(user.Email))
	return nil
}

func (r *MemoryRepo) CountUsers(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *MemoryRepo) DeleteVerification(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.verifications, strings.ToLower(email))
	return nil
}
