package postgres

import (
	"context"
	"database/sql"

	"parcel/internal/domain"
)

// TrackingRepository is a PostgreSQL implementation of repository.TrackingRepository.
type TrackingRepository struct {
	q Querier
}

// NewTrackingRepository creates a new PostgreSQL tracking repository.
func NewTrackingRepository(db *sql.DB) *TrackingRepository {
	return &TrackingRepository{q: db}
}

// Append adds an event to a parcel's tracking feed.
func (r *TrackingRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	query := `
		INSERT INTO tracking_events (id, tracking_id, parcel_id, status, location, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		event.ID,
		event.TrackingID,
		event.ParcelID,
		event.Status,
		event.Location,
		event.RecordedAt,
	)

	return err
}

// ListByParcel retrieves a parcel's tracking events, newest first.
func (r *TrackingRepository) ListByParcel(ctx context.Context, parcelID string) ([]*domain.TrackingEvent, error) {
	query := `
		SELECT id, tracking_id, parcel_id, status, location, recorded_at
		FROM tracking_events WHERE parcel_id = $1 ORDER BY recorded_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, parcelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.TrackingEvent
	for rows.Next() {
		var event domain.TrackingEvent
		if err := rows.Scan(
			&event.ID,
			&event.TrackingID,
			&event.ParcelID,
			&event.Status,
			&event.Location,
			&event.RecordedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
