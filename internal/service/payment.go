package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// PaymentService handles charge intents and payment reconciliation.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	atomic      repository.Atomic
	gateway     Gateway
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, atomic repository.Atomic, gateway Gateway) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		atomic:      atomic,
		gateway:     gateway,
	}
}

// CreateIntent asks the external processor for a client confirmation
// handle. No local state changes.
func (s *PaymentService) CreateIntent(ctx context.Context, amountInCents int64) (string, error) {
	if amountInCents <= 0 {
		return "", ErrInvalidAmount
	}

	return s.gateway.CreateIntent(ctx, amountInCents)
}

// ConfirmRequest contains the parameters of a payment confirmation.
type ConfirmRequest struct {
	ParcelID      string
	Email         string
	Amount        float64
	TransactionID string
}

// Confirm settles a parcel's fee: it flips the parcel's payment status and
// appends the ledger record in one transaction, so the flag and the ledger
// cannot diverge. The status flip is conditional on the parcel being
// unpaid, which makes a repeated confirmation surface as not found rather
// than a duplicate ledger entry.
func (s *PaymentService) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Payment, error) {
	if req.ParcelID == "" {
		return nil, ErrInvalidParcelID
	}
	if req.Email == "" {
		return nil, ErrInvalidEmail
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.TransactionID == "" {
		return nil, ErrInvalidTransactionID
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New().String(),
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		PaidAtString:  now.Format(time.RFC3339),
		PaidAt:        now,
	}

	err := s.atomic.Atomically(ctx, func(tx repository.RepositorySet) error {
		matched, err := tx.Parcels.MarkPaid(ctx, req.ParcelID)
		if err != nil {
			return err
		}
		if matched == 0 {
			return repository.ErrNotFound
		}

		return tx.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// History retrieves the payment ledger of a payer, most recent first.
// The caller-identity check belongs to the route layer.
func (s *PaymentService) History(ctx context.Context, email string) ([]*domain.Payment, error) {
	if email == "" {
		return nil, ErrInvalidEmail
	}

	return s.paymentRepo.ListByEmail(ctx, email)
}
