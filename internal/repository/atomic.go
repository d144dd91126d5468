package repository

import "context"

// RepositorySet bundles repositories scoped to a single transaction.
type RepositorySet struct {
	Users    UserRepository
	Parcels  ParcelRepository
	Riders   RiderRepository
	Payments PaymentRepository
}

// Atomic executes multi-record write sequences as a unit. Either every
// write issued by fn is applied, or none is.
type Atomic interface {
	// Atomically runs fn against transaction-scoped repositories,
	// committing on nil and rolling back on error.
	Atomically(ctx context.Context, fn func(tx RepositorySet) error) error
}
