package tests

import (
	"context"
	"errors"
	"testing"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// ──────────────────────────────────────────────
// 3. RIDER APPROVAL AND ASSIGNMENT
// ──────────────────────────────────────────────

func newRiderService(
	riderRepo *MockRiderRepository,
	parcelRepo *MockParcelRepository,
	userRepo *MockUserRepository,
	locks *MockLockStore,
	roleCache *MockRoleCache,
) *service.RiderService {
	atomic := NewMockAtomic(repository.RepositorySet{
		Users:    userRepo,
		Parcels:  parcelRepo,
		Riders:   riderRepo,
		Payments: NewMockPaymentRepository(),
	})
	return service.NewRiderService(riderRepo, parcelRepo, atomic, locks, roleCache)
}

func TestRiderApply_StartsPending(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	riderService := newRiderService(riderRepo, NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

	rider, err := riderService.Apply(context.Background(), service.ApplyRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Phone:    "0170000000",
		District: "Dhaka",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rider.Status != domain.RiderStatusPending {
		t.Errorf("expected status %q, got %q", domain.RiderStatusPending, rider.Status)
	}
	if stored := riderRepo.GetRider(rider.ID); stored == nil || stored.Status != domain.RiderStatusPending {
		t.Error("expected pending rider to be stored")
	}
}

func TestRiderListAvailable_DistrictMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	riderRepo.AddRider(&domain.Rider{ID: "r-1", District: "Dhaka", Status: domain.RiderStatusApproved})
	riderRepo.AddRider(&domain.Rider{ID: "r-2", District: "Dhaka North", Status: domain.RiderStatusApproved})
	riderService := newRiderService(riderRepo, NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

	riders, err := riderService.ListAvailable(context.Background(), "dhaka")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(riders) != 1 || riders[0].ID != "r-1" {
		t.Errorf("expected exact case-insensitive match on district, got %d riders", len(riders))
	}
}

func TestRiderDecide_ApprovePromotesUser(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	riderRepo.AddRider(&domain.Rider{ID: "r-1", Email: "dana@example.com", Status: domain.RiderStatusPending})

	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "u-1", Email: "dana@example.com", Role: domain.RoleUser})

	roleCache := NewMockRoleCache()
	_ = roleCache.Set(context.Background(), "dana@example.com", "user")

	riderService := newRiderService(riderRepo, NewMockParcelRepository(), userRepo, NewMockLockStore(), roleCache)

	result, err := riderService.Decide(context.Background(), service.DecideRequest{
		RiderID: "r-1",
		Status:  "approved",
		Email:   "dana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Matched != 1 {
		t.Errorf("expected 1 matched rider, got %d", result.Matched)
	}
	if result.Promoted != 1 {
		t.Errorf("expected 1 promoted user, got %d", result.Promoted)
	}
	if got := riderRepo.GetRider("r-1").Status; got != domain.RiderStatusApproved {
		t.Errorf("expected rider status approved, got %q", got)
	}
	if got := userRepo.GetUser("dana@example.com").Role; got != domain.RoleRider {
		t.Errorf("expected user promoted to rider, got %q", got)
	}

	// The cached pre-promotion role must be evicted.
	if roleCache.InvalidateCallCount != 1 {
		t.Errorf("expected one cache invalidation, got %d", roleCache.InvalidateCallCount)
	}
	if cached, _ := roleCache.Get(context.Background(), "dana@example.com"); cached != "" {
		t.Errorf("expected role cache entry to be gone, got %q", cached)
	}
}

func TestRiderDecide_ApproveBeforeRegistration_PromotesNothing(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	riderRepo.AddRider(&domain.Rider{ID: "r-1", Email: "early@example.com", Status: domain.RiderStatusPending})
	riderService := newRiderService(riderRepo, NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

	result, err := riderService.Decide(context.Background(), service.DecideRequest{
		RiderID: "r-1",
		Status:  "approved",
		Email:   "early@example.com",
	})
	if err != nil {
		t.Fatalf("expected approval without a user record to succeed, got: %v", err)
	}
	if result.Matched != 1 {
		t.Errorf("expected 1 matched rider, got %d", result.Matched)
	}
	if result.Promoted != 0 {
		t.Errorf("expected 0 promoted users, got %d", result.Promoted)
	}
}

func TestRiderDecide_RejectLeavesRoleAlone(t *testing.T) {
	t.Parallel()

	riderRepo := NewMockRiderRepository()
	riderRepo.AddRider(&domain.Rider{ID: "r-1", Email: "dana@example.com", Status: domain.RiderStatusPending})

	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "u-1", Email: "dana@example.com", Role: domain.RoleUser})

	riderService := newRiderService(riderRepo, NewMockParcelRepository(), userRepo, NewMockLockStore(), NewMockRoleCache())

	result, err := riderService.Decide(context.Background(), service.DecideRequest{
		RiderID: "r-1",
		Status:  "rejected",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := riderRepo.GetRider("r-1").Status; got != domain.RiderStatusRejected {
		t.Errorf("expected rider status rejected, got %q", got)
	}
	if result.Promoted != 0 {
		t.Errorf("expected no promotion on rejection, got %d", result.Promoted)
	}
	if got := userRepo.GetUser("dana@example.com").Role; got != domain.RoleUser {
		t.Errorf("expected role to stay %q, got %q", domain.RoleUser, got)
	}
}

func TestRiderDecide_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.DecideRequest
		wantErr error
	}{
		{
			name:    "empty rider id",
			req:     service.DecideRequest{Status: "approved", Email: "x@example.com"},
			wantErr: service.ErrInvalidRiderID,
		},
		{
			name:    "unknown decision",
			req:     service.DecideRequest{RiderID: "r-1", Status: "maybe"},
			wantErr: service.ErrInvalidDecision,
		},
		{
			name:    "pending is not a decision",
			req:     service.DecideRequest{RiderID: "r-1", Status: "pending"},
			wantErr: service.ErrInvalidDecision,
		},
		{
			name:    "approval without applicant email",
			req:     service.DecideRequest{RiderID: "r-1", Status: "approved"},
			wantErr: service.ErrInvalidRiderEmail,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			riderService := newRiderService(NewMockRiderRepository(), NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

			_, err := riderService.Decide(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRiderDecide_UnknownRider_NotFound(t *testing.T) {
	t.Parallel()

	riderService := newRiderService(NewMockRiderRepository(), NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

	_, err := riderService.Decide(context.Background(), service.DecideRequest{
		RiderID: "missing",
		Status:  "rejected",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignRider_SetsRiderAndStatus(t *testing.T) {
	t.Parallel()

	parcelRepo := NewMockParcelRepository()
	parcelRepo.AddParcel(&domain.Parcel{
		ID:             "p-1",
		DeliveryStatus: domain.DeliveryStatusNotCollected,
	})
	locks := NewMockLockStore()
	riderService := newRiderService(NewMockRiderRepository(), parcelRepo, NewMockUserRepository(), locks, NewMockRoleCache())

	matched, err := riderService.AssignRider(context.Background(), "p-1", "r-1", "dana@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched != 1 {
		t.Errorf("expected 1 matched parcel, got %d", matched)
	}

	parcel := parcelRepo.GetParcel("p-1")
	if parcel.AssignedRiderID != "r-1" || parcel.AssignedRiderEmail != "dana@example.com" {
		t.Errorf("expected rider fields on parcel, got %q/%q", parcel.AssignedRiderID, parcel.AssignedRiderEmail)
	}
	if parcel.DeliveryStatus != domain.DeliveryStatusAssigned {
		t.Errorf("expected delivery status assigned, got %q", parcel.DeliveryStatus)
	}

	// The lock must be taken and released around the write.
	if locks.AcquireCallCount != 1 || locks.ReleaseCallCount != 1 {
		t.Errorf("expected 1 acquire and 1 release, got %d/%d", locks.AcquireCallCount, locks.ReleaseCallCount)
	}
}

func TestAssignRider_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		parcelID   string
		riderID    string
		riderEmail string
		wantErr    error
	}{
		{
			name:       "missing parcel id",
			riderID:    "r-1",
			riderEmail: "dana@example.com",
			wantErr:    service.ErrInvalidParcelID,
		},
		{
			name:       "missing rider id",
			parcelID:   "p-1",
			riderEmail: "dana@example.com",
			wantErr:    service.ErrInvalidRiderID,
		},
		{
			name:     "missing rider email",
			parcelID: "p-1",
			riderID:  "r-1",
			wantErr:  service.ErrInvalidRiderEmail,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			riderService := newRiderService(NewMockRiderRepository(), NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

			_, err := riderService.AssignRider(context.Background(), tc.parcelID, tc.riderID, tc.riderEmail)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAssignRider_UnknownParcel_NotFound(t *testing.T) {
	t.Parallel()

	riderService := newRiderService(NewMockRiderRepository(), NewMockParcelRepository(), NewMockUserRepository(), NewMockLockStore(), NewMockRoleCache())

	_, err := riderService.AssignRider(context.Background(), "missing", "r-1", "dana@example.com")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignRider_ConcurrentAssignment_Conflicts(t *testing.T) {
	t.Parallel()

	parcelRepo := NewMockParcelRepository()
	parcelRepo.AddParcel(&domain.Parcel{ID: "p-1"})
	locks := NewMockLockStore()
	locks.Hold("p-1")
	riderService := newRiderService(NewMockRiderRepository(), parcelRepo, NewMockUserRepository(), locks, NewMockRoleCache())

	_, err := riderService.AssignRider(context.Background(), "p-1", "r-1", "dana@example.com")
	if !errors.Is(err, service.ErrAssignmentInProgress) {
		t.Errorf("expected ErrAssignmentInProgress, got %v", err)
	}

	// The parcel must be untouched while someone else holds the lock.
	if got := parcelRepo.GetParcel("p-1").AssignedRiderID; got != "" {
		t.Errorf("expected no assignment, got rider %q", got)
	}
}

func TestAssignRider_LockStoreOutage_FallsThroughToWrite(t *testing.T) {
	t.Parallel()

	parcelRepo := NewMockParcelRepository()
	parcelRepo.AddParcel(&domain.Parcel{ID: "p-1"})
	locks := NewMockLockStore()
	locks.AcquireError = errors.New("connection refused")
	riderService := newRiderService(NewMockRiderRepository(), parcelRepo, NewMockUserRepository(), locks, NewMockRoleCache())

	matched, err := riderService.AssignRider(context.Background(), "p-1", "r-1", "dana@example.com")
	if err != nil {
		t.Fatalf("expected assignment to survive a lock store outage, got: %v", err)
	}
	if matched != 1 {
		t.Errorf("expected 1 matched parcel, got %d", matched)
	}
}
