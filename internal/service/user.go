package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// maxSearchResults caps directory search output.
const maxSearchResults = 10

// UserService handles the user directory.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterRequest contains the parameters for registering a user.
type RegisterRequest struct {
	Email string
	Name  string
}

// RegisterResult reports the store outcome of a registration.
type RegisterResult struct {
	Inserted   bool
	InsertedID string
}

// Register creates a user unless the email is already registered. A
// duplicate registration is a successful no-op, not a conflict.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	if req.Email == "" {
		return RegisterResult{}, ErrInvalidEmail
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now(),
	}

	inserted, err := s.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		return RegisterResult{}, err
	}

	result := RegisterResult{Inserted: inserted}
	if inserted {
		result.InsertedID = user.ID
	}
	return result, nil
}

// GetRole returns the role of the user keyed by email, defaulting to
// "user" when no record exists.
func (s *UserService) GetRole(ctx context.Context, email string) (domain.Role, error) {
	if email == "" {
		return "", ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RoleUser, nil
		}
		return "", err
	}

	if user.Role == "" {
		return domain.RoleUser, nil
	}
	return user.Role, nil
}

// Search returns directory entries whose email contains the fragment,
// capped at maxSearchResults.
func (s *UserService) Search(ctx context.Context, fragment string) ([]*domain.User, error) {
	if fragment == "" {
		return nil, ErrInvalidSearchFragment
	}

	return s.userRepo.SearchByEmail(ctx, fragment, maxSearchResults)
}

// UpdateRole grants or revokes the admin role on a user record. Only
// admin and user are assignable here; the rider role is owned by the
// rider approval workflow.
func (s *UserService) UpdateRole(ctx context.Context, id, role string) (int64, error) {
	if id == "" {
		return 0, ErrInvalidUserID
	}
	if role != string(domain.RoleAdmin) && role != string(domain.RoleUser) {
		return 0, ErrInvalidRole
	}

	return s.userRepo.UpdateRoleByID(ctx, id, domain.Role(role))
}
