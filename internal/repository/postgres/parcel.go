package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// ParcelRepository is a PostgreSQL implementation of repository.ParcelRepository.
type ParcelRepository struct {
	q Querier
}

// NewParcelRepository creates a new PostgreSQL parcel repository.
func NewParcelRepository(db *sql.DB) *ParcelRepository {
	return &ParcelRepository{q: db}
}

// NewParcelRepositoryWithTx creates a parcel repository using a transaction.
func NewParcelRepositoryWithTx(tx *sql.Tx) *ParcelRepository {
	return &ParcelRepository{q: tx}
}

// Create persists a new parcel.
func (r *ParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) error {
	query := `
		INSERT INTO parcels (id, type, sender_name, sender_email, receiver_name, receiver_contact, cost, tracking_id, delivery_status, payment_status, assigned_rider_id, assigned_rider_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var riderID, riderEmail sql.NullString
	if parcel.AssignedRiderID != "" {
		riderID = sql.NullString{String: parcel.AssignedRiderID, Valid: true}
	}
	if parcel.AssignedRiderEmail != "" {
		riderEmail = sql.NullString{String: parcel.AssignedRiderEmail, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		parcel.ID,
		parcel.Type,
		parcel.SenderName,
		parcel.SenderEmail,
		parcel.ReceiverName,
		parcel.ReceiverContact,
		parcel.Cost,
		parcel.TrackingID,
		parcel.DeliveryStatus,
		parcel.PaymentStatus,
		riderID,
		riderEmail,
		parcel.CreatedAt,
	)

	return err
}

const parcelColumns = `id, type, sender_name, sender_email, receiver_name, receiver_contact, cost, tracking_id, delivery_status, payment_status, assigned_rider_id, assigned_rider_email, created_at`

func scanParcel(scan func(dest ...any) error) (*domain.Parcel, error) {
	var parcel domain.Parcel
	var riderID, riderEmail sql.NullString

	err := scan(
		&parcel.ID,
		&parcel.Type,
		&parcel.SenderName,
		&parcel.SenderEmail,
		&parcel.ReceiverName,
		&parcel.ReceiverContact,
		&parcel.Cost,
		&parcel.TrackingID,
		&parcel.DeliveryStatus,
		&parcel.PaymentStatus,
		&riderID,
		&riderEmail,
		&parcel.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if riderID.Valid {
		parcel.AssignedRiderID = riderID.String
	}
	if riderEmail.Valid {
		parcel.AssignedRiderEmail = riderEmail.String
	}

	return &parcel, nil
}

// List retrieves parcels matching the filter, newest first. Filter
// conditions are conjunctive; a zero-value filter lists everything.
func (r *ParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]*domain.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels`

	var conditions []string
	var args []any

	if filter.SenderEmail != "" {
		args = append(args, filter.SenderEmail)
		conditions = append(conditions, fmt.Sprintf("sender_email = $%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if filter.DeliveryStatus != "" {
		args = append(args, filter.DeliveryStatus)
		conditions = append(conditions, fmt.Sprintf("delivery_status = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parcels []*domain.Parcel
	for rows.Next() {
		parcel, err := scanParcel(rows.Scan)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, parcel)
	}
	return parcels, rows.Err()
}

// GetByID retrieves a parcel by ID.
func (r *ParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1`

	parcel, err := scanParcel(r.q.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return parcel, nil
}

// Delete removes a parcel. A zero count means no record matched, which
// callers treat as non-fatal.
func (r *ParcelRepository) Delete(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM parcels WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Assign sets the rider reference and moves delivery status to assigned.
func (r *ParcelRepository) Assign(ctx context.Context, id, riderID, riderEmail string) (int64, error) {
	query := `
		UPDATE parcels
		SET assigned_rider_id = $1, assigned_rider_email = $2, delivery_status = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query, riderID, riderEmail, domain.DeliveryStatusAssigned, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// MarkPaid flips payment status from unpaid to paid. The status condition
// makes concurrent confirmations observe a single winner at the store.
func (r *ParcelRepository) MarkPaid(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE parcels
		SET payment_status = $1
		WHERE id = $2 AND payment_status = $3
	`

	result, err := r.q.ExecContext(ctx, query, domain.PaymentStatusPaid, id, domain.PaymentStatusUnpaid)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
