package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/redis"
	"parcel/internal/repository"
)

// assignLockTTL bounds how long a crashed assignment can hold the lock.
const assignLockTTL = 5 * time.Second

// RiderService handles rider applications, the approval workflow with its
// user-role promotion side effect, and parcel assignment.
type RiderService struct {
	riderRepo  repository.RiderRepository
	parcelRepo repository.ParcelRepository
	atomic     repository.Atomic
	locks      redis.LockStoreInterface
	roleCache  redis.RoleCacheInterface
}

// NewRiderService creates a new RiderService.
func NewRiderService(
	riderRepo repository.RiderRepository,
	parcelRepo repository.ParcelRepository,
	atomic repository.Atomic,
	locks redis.LockStoreInterface,
	roleCache redis.RoleCacheInterface,
) *RiderService {
	return &RiderService{
		riderRepo:  riderRepo,
		parcelRepo: parcelRepo,
		atomic:     atomic,
		locks:      locks,
		roleCache:  roleCache,
	}
}

// ApplyRequest contains the parameters of a rider application.
type ApplyRequest struct {
	Name     string
	Email    string
	Phone    string
	District string
}

// Apply stores a rider application in the pending state.
func (s *RiderService) Apply(ctx context.Context, req ApplyRequest) (*domain.Rider, error) {
	if req.Email == "" {
		return nil, ErrInvalidRiderEmail
	}
	if req.District == "" {
		return nil, ErrInvalidDistrict
	}

	rider := &domain.Rider{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		District:  req.District,
		Status:    domain.RiderStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return nil, err
	}

	return rider, nil
}

// ListAvailable retrieves riders in a district. District matching is exact
// but case-insensitive, and the result spans all statuses; callers filter
// further by status where relevant.
func (s *RiderService) ListAvailable(ctx context.Context, district string) ([]*domain.Rider, error) {
	if district == "" {
		return nil, ErrInvalidDistrict
	}

	return s.riderRepo.ListByDistrict(ctx, district)
}

// ListPending retrieves rider applications awaiting a decision.
func (s *RiderService) ListPending(ctx context.Context) ([]*domain.Rider, error) {
	return s.riderRepo.ListByStatus(ctx, domain.RiderStatusPending)
}

// ListActive retrieves approved riders.
func (s *RiderService) ListActive(ctx context.Context) ([]*domain.Rider, error) {
	return s.riderRepo.ListByStatus(ctx, domain.RiderStatusApproved)
}

// DecideRequest contains the parameters of an approval decision.
type DecideRequest struct {
	RiderID string
	Status  string
	Email   string
}

// DecideResult reports both writes of a decision so the caller always
// learns whether the promotion landed.
type DecideResult struct {
	Matched  int64
	Promoted int64
}

// Decide sets a rider application's status. Approval additionally promotes
// the user keyed by the applicant email to the rider role; both writes run
// in one transaction, so a store failure on either rolls back the pair.
// A promotion that matches no user is not an error: the rider may register
// after approval, and the zero count in the result makes that visible.
func (s *RiderService) Decide(ctx context.Context, req DecideRequest) (DecideResult, error) {
	if req.RiderID == "" {
		return DecideResult{}, ErrInvalidRiderID
	}
	if req.Status != string(domain.RiderStatusApproved) && req.Status != string(domain.RiderStatusRejected) {
		return DecideResult{}, ErrInvalidDecision
	}
	approved := req.Status == string(domain.RiderStatusApproved)
	if approved && req.Email == "" {
		return DecideResult{}, ErrInvalidRiderEmail
	}

	var result DecideResult
	err := s.atomic.Atomically(ctx, func(tx repository.RepositorySet) error {
		matched, err := tx.Riders.UpdateStatus(ctx, req.RiderID, domain.RiderStatus(req.Status))
		if err != nil {
			return err
		}
		if matched == 0 {
			return repository.ErrNotFound
		}
		result.Matched = matched

		if approved {
			promoted, err := tx.Users.UpdateRoleByEmail(ctx, req.Email, domain.RoleRider)
			if err != nil {
				return err
			}
			result.Promoted = promoted
		}
		return nil
	})
	if err != nil {
		return DecideResult{}, err
	}

	if approved {
		// The gate must not serve the stale pre-promotion role.
		_ = s.roleCache.Invalidate(ctx, req.Email)
	}

	return result, nil
}

// AssignRider assigns an approved rider to a parcel, moving the parcel's
// delivery status to assigned. A zero-matched update is reported as not
// found: the store cannot distinguish a missing parcel from one already in
// the requested state, and both surface uniformly to the caller.
func (s *RiderService) AssignRider(ctx context.Context, parcelID, riderID, riderEmail string) (int64, error) {
	if parcelID == "" {
		return 0, ErrInvalidParcelID
	}
	if riderID == "" {
		return 0, ErrInvalidRiderID
	}
	if riderEmail == "" {
		return 0, ErrInvalidRiderEmail
	}

	// Serialize racing assignments per parcel. A cache outage falls
	// through to the conditional write, which still picks one winner.
	acquired, err := s.locks.AcquireAssignLock(ctx, parcelID, assignLockTTL)
	if err == nil {
		if !acquired {
			return 0, ErrAssignmentInProgress
		}
		defer func() {
			_ = s.locks.ReleaseAssignLock(ctx, parcelID)
		}()
	}

	matched, err := s.parcelRepo.Assign(ctx, parcelID, riderID, riderEmail)
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, repository.ErrNotFound
	}

	return matched, nil
}
