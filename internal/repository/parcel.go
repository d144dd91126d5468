package repository

import (
	"context"

	"parcel/internal/domain"
)

// ParcelFilter is a conjunction of optional exact-match conditions for
// listing parcels. Zero values mean "no condition".
type ParcelFilter struct {
	SenderEmail    string
	PaymentStatus  domain.PaymentStatus
	DeliveryStatus domain.DeliveryStatus
}

// ParcelRepository defines the persistence operations for parcels.
type ParcelRepository interface {
	// Create persists a new parcel.
	Create(ctx context.Context, parcel *domain.Parcel) error

	// List retrieves parcels matching the filter, newest first.
	List(ctx context.Context, filter ParcelFilter) ([]*domain.Parcel, error)

	// GetByID retrieves a parcel by ID.
	GetByID(ctx context.Context, id string) (*domain.Parcel, error)

	// Delete removes a parcel. Returns the number of records deleted;
	// zero is not an error.
	Delete(ctx context.Context, id string) (int64, error)

	// Assign sets the rider reference and moves delivery status to
	// assigned. Returns the number of records matched.
	Assign(ctx context.Context, id, riderID, riderEmail string) (int64, error)

	// MarkPaid flips payment status from unpaid to paid. The write is
	// conditional on the current status, so a parcel is only ever
	// observed transitioning once. Returns the number of records matched.
	MarkPaid(ctx context.Context, id string) (int64, error)
}
