package repository

import (
	"context"

	"parcel/internal/domain"
)

// RiderRepository defines the persistence operations for rider applications.
type RiderRepository interface {
	// Create persists a new rider application.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// ListByDistrict retrieves riders in a district, matched exactly but
	// case-insensitively, regardless of status.
	ListByDistrict(ctx context.Context, district string) ([]*domain.Rider, error)

	// ListByStatus retrieves riders with the given status, newest first.
	ListByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error)

	// UpdateStatus sets the status of a rider application. Returns the
	// number of records matched.
	UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (int64, error)
}
