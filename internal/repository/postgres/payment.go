package postgres

import (
	"context"
	"database/sql"

	"parcel/internal/domain"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create appends a ledger record.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, parcel_id, email, amount, transaction_id, paid_at_string, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.ParcelID,
		payment.Email,
		payment.Amount,
		payment.TransactionID,
		payment.PaidAtString,
		payment.PaidAt,
	)

	return err
}

// ListByEmail retrieves the payment history of a payer, most recent
// settlement first.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	query := `
		SELECT id, parcel_id, email, amount, transaction_id, paid_at_string, paid_at
		FROM payments WHERE email = $1 ORDER BY paid_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.ParcelID,
			&payment.Email,
			&payment.Amount,
			&payment.TransactionID,
			&payment.PaidAtString,
			&payment.PaidAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &payment)
	}
	return payments, rows.Err()
}
