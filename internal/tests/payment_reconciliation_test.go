package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// ──────────────────────────────────────────────
// 4. PAYMENT RECONCILIATION
// ──────────────────────────────────────────────

func newPaymentService(parcelRepo *MockParcelRepository, paymentRepo *MockPaymentRepository) *service.PaymentService {
	atomic := NewMockAtomic(repository.RepositorySet{
		Users:    NewMockUserRepository(),
		Parcels:  parcelRepo,
		Riders:   NewMockRiderRepository(),
		Payments: paymentRepo,
	})
	return service.NewPaymentService(paymentRepo, atomic, service.NewMockGateway())
}

func TestPaymentConfirm_FlipsStatusAndWritesLedger(t *testing.T) {
	t.Parallel()

	parcelRepo := NewMockParcelRepository()
	parcelRepo.AddParcel(&domain.Parcel{
		ID:            "p-1",
		SenderEmail:   "alice@example.com",
		PaymentStatus: domain.PaymentStatusUnpaid,
	})
	paymentRepo := NewMockPaymentRepository()
	paymentService := newPaymentService(parcelRepo, paymentRepo)

	payment, err := paymentService.Confirm(context.Background(), service.ConfirmRequest{
		ParcelID:      "p-1",
		Email:         "alice@example.com",
		Amount:        50,
		TransactionID: "txn-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.ID == "" {
		t.Error("expected a generated payment id")
	}
	if payment.PaidAtString == "" {
		t.Error("expected a formatted paid-at string")
	}

	if got := parcelRepo.GetParcel("p-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected parcel payment status paid, got %q", got)
	}
	if count := paymentRepo.CountByParcel("p-1"); count != 1 {
		t.Errorf("expected exactly one ledger record, got %d", count)
	}
}

func TestPaymentConfirm_RepeatedConfirmation_NotFoundAndNoDuplicate(t *testing.T) {
	t.Parallel()

	parcelRepo := NewMockParcelRepository()
	parcelRepo.AddParcel(&domain.Parcel{
		ID:            "p-1",
		SenderEmail:   "alice@example.com",
		PaymentStatus: domain.PaymentStatusUnpaid,
	})
	paymentRepo := NewMockPaymentRepository()
	paymentService := newPaymentService(parcelRepo, paymentRepo)

	req := service.ConfirmRequest{
		ParcelID:      "p-1",
		Email:         "alice@example.com",
		Amount:        50,
		TransactionID: "txn-1",
	}

	if _, err := paymentService.Confirm(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on first confirmation: %v", err)
	}

	_, err := paymentService.Confirm(context.Background(), req)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeated confirmation, got %v", err)
	}

	// The conditional status write runs before the ledger append, so a
	// repeat never reaches the ledger.
	if count := paymentRepo.CountByParcel("p-1"); count != 1 {
		t.Errorf("expected exactly one ledger record after repeat, got %d", count)
	}
	if got := parcelRepo.GetParcel("p-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected parcel to stay paid, got %q", got)
	}
}

func TestPaymentConfirm_UnknownParcel_NotFound(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	paymentService := newPaymentService(NewMockParcelRepository(), paymentRepo)

	_, err := paymentService.Confirm(context.Background(), service.ConfirmRequest{
		ParcelID:      "missing",
		Email:         "alice@example.com",
		Amount:        50,
		TransactionID: "txn-1",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if paymentRepo.CreateCallCount != 0 {
		t.Errorf("expected no ledger write, got %d", paymentRepo.CreateCallCount)
	}
}

func TestPaymentConfirm_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.ConfirmRequest
		wantErr error
	}{
		{
			name:    "missing parcel id",
			req:     service.ConfirmRequest{Email: "a@example.com", Amount: 50, TransactionID: "t"},
			wantErr: service.ErrInvalidParcelID,
		},
		{
			name:    "missing email",
			req:     service.ConfirmRequest{ParcelID: "p-1", Amount: 50, TransactionID: "t"},
			wantErr: service.ErrInvalidEmail,
		},
		{
			name:    "zero amount",
			req:     service.ConfirmRequest{ParcelID: "p-1", Email: "a@example.com", TransactionID: "t"},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     service.ConfirmRequest{ParcelID: "p-1", Email: "a@example.com", Amount: -1, TransactionID: "t"},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name:    "missing transaction id",
			req:     service.ConfirmRequest{ParcelID: "p-1", Email: "a@example.com", Amount: 50},
			wantErr: service.ErrInvalidTransactionID,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			paymentService := newPaymentService(NewMockParcelRepository(), NewMockPaymentRepository())

			_, err := paymentService.Confirm(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPaymentHistory_FiltersByPayerNewestFirst(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	base := time.Now()
	_ = paymentRepo.Create(context.Background(), &domain.Payment{
		ID: "pay-old", ParcelID: "p-1", Email: "alice@example.com", PaidAt: base.Add(-time.Hour),
	})
	_ = paymentRepo.Create(context.Background(), &domain.Payment{
		ID: "pay-new", ParcelID: "p-2", Email: "alice@example.com", PaidAt: base,
	})
	_ = paymentRepo.Create(context.Background(), &domain.Payment{
		ID: "pay-other", ParcelID: "p-3", Email: "carol@example.com", PaidAt: base,
	})

	paymentService := newPaymentService(NewMockParcelRepository(), paymentRepo)

	payments, err := paymentService.History(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments for alice, got %d", len(payments))
	}
	if payments[0].ID != "pay-new" || payments[1].ID != "pay-old" {
		t.Errorf("expected newest-first order, got %s then %s", payments[0].ID, payments[1].ID)
	}
}

func TestCreateIntent_ReturnsClientSecret(t *testing.T) {
	t.Parallel()

	paymentService := newPaymentService(NewMockParcelRepository(), NewMockPaymentRepository())

	secret, err := paymentService.CreateIntent(context.Background(), 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(secret, "pi_") || !strings.Contains(secret, "_secret_") {
		t.Errorf("expected a processor-shaped client secret, got %q", secret)
	}
}

func TestCreateIntent_NonPositiveAmount_Rejected(t *testing.T) {
	t.Parallel()

	paymentService := newPaymentService(NewMockParcelRepository(), NewMockPaymentRepository())

	for _, amount := range []int64{0, -100} {
		if _, err := paymentService.CreateIntent(context.Background(), amount); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount for %d, got %v", amount, err)
		}
	}
}

func TestBreakerGateway_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	inner := &MockFailingGateway{Err: errors.New("processor timeout")}
	gateway := service.NewBreakerGateway(inner)

	// First failures pass through to the processor.
	for i := 0; i < 3; i++ {
		if _, err := gateway.CreateIntent(context.Background(), 5000); err == nil {
			t.Fatal("expected failure from the wrapped gateway")
		}
	}

	// The breaker is now open; calls fail fast without touching the
	// processor.
	callsBefore := inner.CallCount
	_, err := gateway.CreateIntent(context.Background(), 5000)
	if !errors.Is(err, service.ErrGatewayUnavailable) {
		t.Errorf("expected ErrGatewayUnavailable from an open breaker, got %v", err)
	}
	if inner.CallCount != callsBefore {
		t.Error("expected no processor call while the breaker is open")
	}
}
