package domain

import "time"

// RiderStatus represents the state of a rider application.
type RiderStatus string

const (
	RiderStatusPending  RiderStatus = "pending"
	RiderStatusApproved RiderStatus = "approved"
	RiderStatusRejected RiderStatus = "rejected"
)

// Rider represents a delivery agent application. Approval promotes the
// linked user to the rider role.
type Rider struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	District  string
	Status    RiderStatus
	CreatedAt time.Time
}
