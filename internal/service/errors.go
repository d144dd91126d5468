package service

import "errors"

var (
	// ErrInvalidEmail is returned when a required email is empty.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidUserID is returned when a user record ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRole is returned when a role is not one of admin or user.
	ErrInvalidRole = errors.New("invalid role, only 'admin' or 'user' allowed")

	// ErrInvalidParcelType is returned when parcel type is empty.
	ErrInvalidParcelType = errors.New("invalid parcel type")

	// ErrInvalidParcelID is returned when parcel ID is empty.
	ErrInvalidParcelID = errors.New("invalid parcel id")

	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRiderEmail is returned when rider email is empty.
	ErrInvalidRiderEmail = errors.New("invalid rider email")

	// ErrInvalidDistrict is returned when district is empty.
	ErrInvalidDistrict = errors.New("invalid district")

	// ErrInvalidDecision is returned when a rider decision is not one of
	// approved or rejected.
	ErrInvalidDecision = errors.New("invalid decision, only 'approved' or 'rejected' allowed")

	// ErrInvalidAmount is returned when a payment amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransactionID is returned when a transaction reference is empty.
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// ErrInvalidTrackingStatus is returned when a tracking status is empty.
	ErrInvalidTrackingStatus = errors.New("invalid tracking status")

	// ErrInvalidSearchFragment is returned when a search query is empty.
	ErrInvalidSearchFragment = errors.New("email query is required")

	// ErrAssignmentInProgress is returned when another assignment for the
	// same parcel holds the lock.
	ErrAssignmentInProgress = errors.New("assignment already in progress for this parcel")

	// ErrGatewayUnavailable is returned when the payment gateway breaker
	// is open.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
