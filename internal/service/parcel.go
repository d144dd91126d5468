package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// Flat fee table. Cost is derived from type at creation and immutable
// afterwards; caller-supplied cost fields are ignored.
const (
	documentFee = 50
	standardFee = 100
)

// CostForType returns the delivery fee for a parcel type.
func CostForType(parcelType string) float64 {
	if parcelType == domain.ParcelTypeDocument {
		return documentFee
	}
	return standardFee
}

// ParcelService handles the parcel lifecycle.
type ParcelService struct {
	parcelRepo repository.ParcelRepository
}

// NewParcelService creates a new ParcelService.
func NewParcelService(parcelRepo repository.ParcelRepository) *ParcelService {
	return &ParcelService{parcelRepo: parcelRepo}
}

// CreateParcelRequest contains the caller-supplied parcel fields. Cost,
// tracking id, statuses and timestamp are always server-generated.
type CreateParcelRequest struct {
	Type            string
	SenderName      string
	SenderEmail     string
	ReceiverName    string
	ReceiverContact string
}

// Create stores a new parcel with derived cost, a tracking identifier
// based on the creation instant, and initial lifecycle statuses.
func (s *ParcelService) Create(ctx context.Context, req CreateParcelRequest) (*domain.Parcel, error) {
	if req.Type == "" {
		return nil, ErrInvalidParcelType
	}
	if req.SenderEmail == "" {
		return nil, ErrInvalidEmail
	}

	now := time.Now()
	parcel := &domain.Parcel{
		ID:              uuid.New().String(),
		Type:            req.Type,
		SenderName:      req.SenderName,
		SenderEmail:     req.SenderEmail,
		ReceiverName:    req.ReceiverName,
		ReceiverContact: req.ReceiverContact,
		Cost:            CostForType(req.Type),
		TrackingID:      fmt.Sprintf("TRK-%d", now.UnixMilli()),
		DeliveryStatus:  domain.DeliveryStatusNotCollected,
		PaymentStatus:   domain.PaymentStatusUnpaid,
		CreatedAt:       now,
	}

	if err := s.parcelRepo.Create(ctx, parcel); err != nil {
		return nil, err
	}

	return parcel, nil
}

// List retrieves parcels matching the filter, newest first.
func (s *ParcelService) List(ctx context.Context, filter repository.ParcelFilter) ([]*domain.Parcel, error) {
	return s.parcelRepo.List(ctx, filter)
}

// Get retrieves a parcel by ID.
func (s *ParcelService) Get(ctx context.Context, id string) (*domain.Parcel, error) {
	if id == "" {
		return nil, ErrInvalidParcelID
	}

	return s.parcelRepo.GetByID(ctx, id)
}

// Delete removes a parcel and reports how many records matched. Zero is
// not an error: callers treat "no record matched" as non-fatal.
func (s *ParcelService) Delete(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, ErrInvalidParcelID
	}

	return s.parcelRepo.Delete(ctx, id)
}
