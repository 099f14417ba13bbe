package domain

import (
	"context"
	"time"
)

// User is the local mirror of an identity. This service only reads it.
type User struct {
	ID        string    `json:"id"` // Supabase UUID
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Timezone  *string   `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName falls back to the email when no name is stored.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// PreferredTimezone returns the stored zone or fallback.
func (u *User) PreferredTimezone(fallback string) string {
	if u != nil && u.Timezone != nil && *u.Timezone != "" {
		return *u.Timezone
	}
	return fallback
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type AuthUsecase interface {
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
