package tests

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"parcel/internal/auth"
	"parcel/internal/domain"
	"parcel/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository keyed by
// email, like the real directory.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateIfAbsentCallCount int32
	UpdateRoleCallCount     int32

	// Error injection
	CreateIfAbsentError error
	UpdateRoleError     error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	atomic.AddInt32(&m.CreateIfAbsentCallCount, 1)
	if m.CreateIfAbsentError != nil {
		return false, m.CreateIfAbsentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return false, nil
	}
	m.users[user.Email] = user
	return true, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) UpdateRoleByID(ctx context.Context, id string, role domain.Role) (int64, error) {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	if m.UpdateRoleError != nil {
		return 0, m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.Role = role
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockUserRepository) UpdateRoleByEmail(ctx context.Context, email string, role domain.Role) (int64, error) {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	if m.UpdateRoleError != nil {
		return 0, m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return 0, nil
	}
	user.Role = role
	return 1, nil
}

func (m *MockUserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Email), strings.ToLower(fragment)) {
			copy := *u
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(email string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[email]
}

// CountUsers returns the number of stored users.
func (m *MockUserRepository) CountUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ──────────────────────────────────────────────
// MOCK PARCEL REPOSITORY
// ──────────────────────────────────────────────

// MockParcelRepository is a mock implementation of ParcelRepository.
type MockParcelRepository struct {
	mu      sync.RWMutex
	parcels map[string]*domain.Parcel

	// Counters for verification
	CreateCallCount   int32
	AssignCallCount   int32
	MarkPaidCallCount int32

	// Error injection
	CreateError   error
	AssignError   error
	MarkPaidError error
}

// NewMockParcelRepository creates a new mock parcel repository.
func NewMockParcelRepository() *MockParcelRepository {
	return &MockParcelRepository{
		parcels: make(map[string]*domain.Parcel),
	}
}

// AddParcel adds a parcel to the mock repository.
func (m *MockParcelRepository) AddParcel(parcel *domain.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels[parcel.ID] = parcel
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels[parcel.ID] = parcel
	return nil
}

func (m *MockParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]*domain.Parcel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Parcel
	for _, p := range m.parcels {
		if filter.SenderEmail != "" && p.SenderEmail != filter.SenderEmail {
			continue
		}
		if filter.PaymentStatus != "" && p.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.DeliveryStatus != "" && p.DeliveryStatus != filter.DeliveryStatus {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	parcel, ok := m.parcels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *parcel
	return &copy, nil
}

func (m *MockParcelRepository) Delete(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parcels[id]; !ok {
		return 0, nil
	}
	delete(m.parcels, id)
	return 1, nil
}

func (m *MockParcelRepository) Assign(ctx context.Context, id, riderID, riderEmail string) (int64, error) {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return 0, m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	parcel, ok := m.parcels[id]
	if !ok {
		return 0, nil
	}
	parcel.AssignedRiderID = riderID
	parcel.AssignedRiderEmail = riderEmail
	parcel.DeliveryStatus = domain.DeliveryStatusAssigned
	return 1, nil
}

func (m *MockParcelRepository) MarkPaid(ctx context.Context, id string) (int64, error) {
	atomic.AddInt32(&m.MarkPaidCallCount, 1)
	if m.MarkPaidError != nil {
		return 0, m.MarkPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	parcel, ok := m.parcels[id]
	if !ok || parcel.PaymentStatus != domain.PaymentStatusUnpaid {
		// Conditional write: missing and already-paid both match zero rows.
		return 0, nil
	}
	parcel.PaymentStatus = domain.PaymentStatusPaid
	return 1, nil
}

// GetParcel returns a parcel for test assertions.
func (m *MockParcelRepository) GetParcel(id string) *domain.Parcel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parcels[id]
}

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*domain.Rider

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{
		riders: make(map[string]*domain.Rider),
	}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rider
	return &copy, nil
}

func (m *MockRiderRepository) ListByDistrict(ctx context.Context, district string) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rider
	for _, r := range m.riders {
		if strings.EqualFold(r.District, district) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockRiderRepository) ListByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rider
	for _, r := range m.riders {
		if r.Status == status {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockRiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (int64, error) {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return 0, m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riders[id]
	if !ok {
		return 0, nil
	}
	rider.Status = status
	return 1, nil
}

// GetRider returns a rider for test assertions.
func (m *MockRiderRepository) GetRider(id string) *domain.Rider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.riders[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// The ledger is append-only, so the mock only grows.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments []*domain.Payment

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments = append(m.payments, &copy)
	return nil
}

func (m *MockPaymentRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.Email == email {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PaidAt.After(result[j].PaidAt)
	})
	return result, nil
}

// CountByParcel returns how many ledger records reference a parcel.
func (m *MockPaymentRepository) CountByParcel(parcelID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.payments {
		if p.ParcelID == parcelID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK TRACKING REPOSITORY
// ──────────────────────────────────────────────

// MockTrackingRepository is a mock implementation of TrackingRepository.
type MockTrackingRepository struct {
	mu     sync.RWMutex
	events []*domain.TrackingEvent

	// Error injection
	AppendError error
}

// NewMockTrackingRepository creates a new mock tracking repository.
func NewMockTrackingRepository() *MockTrackingRepository {
	return &MockTrackingRepository{}
}

func (m *MockTrackingRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *event
	m.events = append(m.events, &copy)
	return nil
}

func (m *MockTrackingRepository) ListByParcel(ctx context.Context, parcelID string) ([]*domain.TrackingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.TrackingEvent
	for _, e := range m.events {
		if e.ParcelID == parcelID {
			copy := *e
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RecordedAt.After(result[j].RecordedAt)
	})
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ATOMIC RUNNER
// ──────────────────────────────────────────────

// MockAtomic runs the closure against the configured repository set.
// There is no rollback: the write order inside workflows (conditional
// write first, append second) is what tests rely on.
type MockAtomic struct {
	Set repository.RepositorySet

	// Error injection (simulates a failure to begin or commit).
	Err error
}

// NewMockAtomic creates a pass-through transaction runner.
func NewMockAtomic(set repository.RepositorySet) *MockAtomic {
	return &MockAtomic{Set: set}
}

func (m *MockAtomic) Atomically(ctx context.Context, fn func(tx repository.RepositorySet) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(m.Set)
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of the assignment lock.
type MockLockStore struct {
	mu   sync.Mutex
	held map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

// Hold marks a lock as already taken by someone else.
func (m *MockLockStore) Hold(parcelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[parcelID] = true
}

func (m *MockLockStore) AcquireAssignLock(ctx context.Context, parcelID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[parcelID] {
		return false, nil
	}
	m.held[parcelID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseAssignLock(ctx context.Context, parcelID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, parcelID)
	return nil
}

// MockRoleCache is an in-memory implementation of the role cache.
type MockRoleCache struct {
	mu    sync.RWMutex
	roles map[string]string

	// Counters for verification
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockRoleCache creates a new mock role cache.
func NewMockRoleCache() *MockRoleCache {
	return &MockRoleCache{roles: make(map[string]string)}
}

func (m *MockRoleCache) Get(ctx context.Context, email string) (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roles[email], nil
}

func (m *MockRoleCache) Set(ctx context.Context, email, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[email] = role
	return nil
}

func (m *MockRoleCache) Invalidate(ctx context.Context, email string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, email)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockFailingGateway is a gateway whose calls always fail, for breaker
// tests.
type MockFailingGateway struct {
	Err error

	CallCount int32
}

func (g *MockFailingGateway) CreateIntent(ctx context.Context, amountInCents int64) (string, error) {
	atomic.AddInt32(&g.CallCount, 1)
	return "", g.Err
}

// ──────────────────────────────────────────────
// STUB TOKEN VERIFIER
// ──────────────────────────────────────────────

// StubVerifier resolves tokens from a fixed map; unknown tokens fail
// verification.
type StubVerifier struct {
	Tokens map[string]string
}

func (v *StubVerifier) Verify(ctx context.Context, token string) (string, error) {
	if email, ok := v.Tokens[token]; ok {
		return email, nil
	}
	return "", fmt.Errorf("%w: unknown token", auth.ErrVerification)
}
