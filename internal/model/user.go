package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	List(ctx context.Context) ([]User, error)
}

// User represents a registered account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash []byte
	ImageKey     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignupParams contains parameters to register a user.
type SignupParams struct {
	Name     string
	Email    string
	Password string
	ImageKey string
}
