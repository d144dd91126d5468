package domain

import "time"

// DeliveryStatus represents a parcel's position in the collection lifecycle.
// Transitions only move forward, never backward.
type DeliveryStatus string

const (
	DeliveryStatusNotCollected DeliveryStatus = "not_collected"
	DeliveryStatusAssigned     DeliveryStatus = "assigned"
	DeliveryStatusInTransit    DeliveryStatus = "in_transit"
	DeliveryStatusDelivered    DeliveryStatus = "delivered"
)

// PaymentStatus represents whether a parcel's fee has been settled.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// ParcelTypeDocument is the only type with a reduced fee; every other type
// is charged the standard fee.
const ParcelTypeDocument = "document"

// Parcel represents a shipment tracked from creation to settlement.
type Parcel struct {
	ID                 string
	Type               string
	SenderName         string
	SenderEmail        string
	ReceiverName       string
	ReceiverContact    string
	Cost               float64
	TrackingID         string
	DeliveryStatus     DeliveryStatus
	PaymentStatus      PaymentStatus
	AssignedRiderID    string
	AssignedRiderEmail string
	CreatedAt          time.Time
}
