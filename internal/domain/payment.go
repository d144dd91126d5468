package domain

import "time"

// Payment is an append-only ledger record of a settled parcel fee.
// Its existence is the durable evidence that the linked parcel was paid.
type Payment struct {
	ID            string
	ParcelID      string
	Email         string
	Amount        float64
	TransactionID string
	PaidAtString  string
	PaidAt        time.Time
}
