package repository

import (
	"context"

	"parcel/internal/domain"
)

// PaymentRepository defines the persistence operations for the payment
// ledger. The ledger is append-only: records are never updated or deleted.
type PaymentRepository interface {
	// Create appends a ledger record.
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByEmail retrieves the payment history of a payer, most recent
	// settlement first.
	ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error)
}
