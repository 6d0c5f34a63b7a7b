package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForTenant finds a user by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within a tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
