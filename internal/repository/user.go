package repository

import (
	"context"

	"parcel/internal/domain"
)

// UserRepository defines the persistence operations for the user directory.
type UserRepository interface {
	// CreateIfAbsent registers a user unless one already exists for the
	// email. Returns true when a new record was inserted.
	CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateRoleByID sets the role of the user with the given record id.
	// Returns the number of records matched.
	UpdateRoleByID(ctx context.Context, id string, role domain.Role) (int64, error)

	// UpdateRoleByEmail sets the role of the user keyed by email.
	// Returns the number of records matched.
	UpdateRoleByEmail(ctx context.Context, email string, role domain.Role) (int64, error)

	// SearchByEmail returns users whose email contains the fragment,
	// case-insensitively, capped at limit.
	SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error)
}
