package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups that match no user.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Save when the unique email constraint rejects the insert.
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository defines the persistence operations the registration pipeline needs.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Save inserts the user and its phones atomically and returns the stored aggregate with generated ids.
	Save(ctx context.Context, u *entity.User) (*entity.User, error)
}
