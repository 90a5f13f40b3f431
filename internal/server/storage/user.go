package storage

import (
	"context"

	"github.com/iudanet/blogapi/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUsernameTaken if username already exists (case-insensitive)
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username under case-insensitive collation
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UsernameExists reports whether a user with this username exists,
	// compared case-insensitively
	UsernameExists(ctx context.Context, username string) (bool, error)
}
