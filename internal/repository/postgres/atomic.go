package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"parcel/internal/repository"
)

// Atomic runs write sequences inside a single database transaction.
type Atomic struct {
	db *sql.DB
}

// NewAtomic creates a transaction runner backed by the given database.
func NewAtomic(db *sql.DB) *Atomic {
	return &Atomic{db: db}
}

// Atomically begins a transaction, hands fn transaction-scoped
// repositories, and commits when fn returns nil. Any error rolls the
// whole sequence back.
func (a *Atomic) Atomically(ctx context.Context, fn func(tx repository.RepositorySet) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	set := repository.RepositorySet{
		Users:    NewUserRepositoryWithTx(tx),
		Parcels:  NewParcelRepositoryWithTx(tx),
		Riders:   NewRiderRepositoryWithTx(tx),
		Payments: NewPaymentRepositoryWithTx(tx),
	}

	if err := fn(set); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
