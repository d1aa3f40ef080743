package repositories

import (
	"errors"

	"gudang/internal/models"
)

// ErrUserNotFound means no user matched the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
