package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// TrackingService handles the parcel tracking feed.
type TrackingService struct {
	trackingRepo repository.TrackingRepository
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(trackingRepo repository.TrackingRepository) *TrackingService {
	return &TrackingService{trackingRepo: trackingRepo}
}

// AppendRequest contains the parameters of a tracking event.
type AppendRequest struct {
	TrackingID string
	ParcelID   string
	Status     string
	Location   string
}

// Append records a tracking event with a server-side timestamp.
func (s *TrackingService) Append(ctx context.Context, req AppendRequest) (*domain.TrackingEvent, error) {
	if req.ParcelID == "" {
		return nil, ErrInvalidParcelID
	}
	if req.Status == "" {
		return nil, ErrInvalidTrackingStatus
	}

	event := &domain.TrackingEvent{
		ID:         uuid.New().String(),
		TrackingID: req.TrackingID,
		ParcelID:   req.ParcelID,
		Status:     req.Status,
		Location:   req.Location,
		RecordedAt: time.Now(),
	}

	if err := s.trackingRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Feed retrieves a parcel's tracking events, newest first.
func (s *TrackingService) Feed(ctx context.Context, parcelID string) ([]*domain.TrackingEvent, error) {
	if parcelID == "" {
		return nil, ErrInvalidParcelID
	}

	return s.trackingRepo.ListByParcel(ctx, parcelID)
}
