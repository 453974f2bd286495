package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// UserRepository defines the interface for user-related storage operations.
// Create must enforce username and email uniqueness and report a violation
// with ErrDuplicateUsername or ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
