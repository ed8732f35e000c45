// Package users persists credential records and implements the
// authentication-related business logic on top of them.
package users

import (
	"context"

	"github.com/proxy201/nexus-auth/internal/server/models"
)

// Repository stores one record per username. Implementations must enforce
// name uniqueness atomically in their insert path: a concurrent duplicate
// create yields exactly one success and one common.ErrorAlreadyExists.
type Repository interface {
	// Create inserts a new user and returns it with the assigned id and
	// timestamps. Duplicate names fail with common.ErrorAlreadyExists.
	Create(ctx context.Context, name, passwordHash string) (*models.User, error)

	// GetByName returns the full record including the stored hash, or
	// common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*models.User, error)

	// GetByID returns the public projection only; the password hash is not
	// even selected. Missing ids fail with common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.PublicUser, error)
}
