package users

import "time"

// Providers a user account can originate from.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	PictureURL    string    `json:"pictureUrl"`
	Provider      string    `json:"provider"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"emailVerified"`
	IsAdmin       bool      `json:"isAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Verification is the single active email-verification code for an
// address. Reissuing overwrites it.
type Verification struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}
