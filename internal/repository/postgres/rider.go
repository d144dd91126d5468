package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

// Create persists a new rider application.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (id, name, email, phone, district, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		rider.ID,
		rider.Name,
		rider.Email,
		rider.Phone,
		rider.District,
		rider.Status,
		rider.CreatedAt,
	)

	return err
}

const riderColumns = `id, name, email, phone, district, status, created_at`

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE id = $1`

	var rider domain.Rider
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Email,
		&rider.Phone,
		&rider.District,
		&rider.Status,
		&rider.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rider, nil
}

// ListByDistrict retrieves riders in a district. The match is exact but
// case-insensitive, and deliberately ignores status.
func (r *RiderRepository) ListByDistrict(ctx context.Context, district string) ([]*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE LOWER(district) = LOWER($1) ORDER BY created_at DESC`
	return r.list(ctx, query, district)
}

// ListByStatus retrieves riders with the given status, newest first.
func (r *RiderRepository) ListByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE status = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

func (r *RiderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Rider, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []*domain.Rider
	for rows.Next() {
		var rider domain.Rider
		if err := rows.Scan(
			&rider.ID,
			&rider.Name,
			&rider.Email,
			&rider.Phone,
			&rider.District,
			&rider.Status,
			&rider.CreatedAt,
		); err != nil {
			return nil, err
		}
		riders = append(riders, &rider)
	}
	return riders, rows.Err()
}

// UpdateStatus sets the status of a rider application.
func (r *RiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (int64, error) {
	query := `UPDATE riders SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
