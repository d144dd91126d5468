package domain

import "time"

// TrackingEvent is an append-only entry in a parcel's tracking feed.
type TrackingEvent struct {
	ID         string
	TrackingID string
	ParcelID   string
	Status     string
	Location   string
	RecordedAt time.Time
}
