package repository

import (
	"context"

	"parcel/internal/domain"
)

// TrackingRepository defines the persistence operations for the parcel
// tracking feed.
type TrackingRepository interface {
	// Append adds an event to a parcel's tracking feed.
	Append(ctx context.Context, event *domain.TrackingEvent) error

	// ListByParcel retrieves a parcel's tracking events, newest first.
	ListByParcel(ctx context.Context, parcelID string) ([]*domain.TrackingEvent, error)
}
