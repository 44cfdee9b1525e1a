package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, password_hash, full_name, picture_url, provider, email_verified, is_admin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.PasswordHash),
		nullableString(user.FullName),
		nullableString(user.PictureURL),
		user.Provider,
		user.EmailVerified,
		user.IsAdmin,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// Upsert keys on email so an OAuth login re-attaches to an existing
// local account instead of duplicating it.
func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, password_hash, full_name, picture_url, provider, email_verified, is_admin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (email) DO UPDATE SET
  full_name = COALESCE(EXCLUDED.full_name, users.full_name),
  picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
  email_verified = users.email_verified OR EXCLUDED.email_verified,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.PasswordHash),
		nullableString(user.FullName),
		nullableString(user.PictureURL),
		user.Provider,
		user.EmailVerified,
		user.IsAdmin,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getBy(ctx, "id", userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PGRepo) getBy(ctx context.Context, column, value string) (User, error) {
	query := `
SELECT id, email, password_hash, full_name, picture_url, provider, email_verified, is_admin, created_at, updated_at
FROM users
WHERE ` + column + ` = $1
LIMIT 1`
	var user User
	var passwordHash, fullName, pictureURL sql.NullString
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&fullName,
		&pictureURL,
		&user.Provider,
		&user.EmailVerified,
		&user.IsAdmin,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.PasswordHash = passwordHash.String
	user.FullName = fullName.String
	user.PictureURL = pictureURL.String
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func (r *PGRepo) MarkVerified(ctx context.Context, email string) error {
	const query = `UPDATE users SET email_verified = TRUE, updated_at = now() WHERE email = $1`
	res, err := r.DB.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpsertVerification(ctx context.Context, v Verification) error {
	const query = `
INSERT INTO email_verifications (email, code, expires_at, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (email) DO UPDATE SET
  code = EXCLUDED.code,
  expires_at = EXCLUDED.expires_at,
  created_at = now()`
	_, err := r.DB.ExecContext(ctx, query, v.Email, v.Code, v.ExpiresAt)
	return err
}

func (r *PGRepo) GetVerification(ctx context.Context, email string) (Verification, error) {
	const query = `SELECT email, code, expires_at FROM email_verifications WHERE email = $1 LIMIT 1`
	var v Verification
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&v.Email, &v.Code, &v.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Verification{}, ErrNotFound
		}
		return Verification{}, err
	}
	return v, nil
}

func (r *PGRepo) DeleteVerification(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM email_verifications WHERE email = $1`, email)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
