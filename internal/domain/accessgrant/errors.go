package accessgrant

import "errors"

var (
	// ErrGrantNotFound is returned when a grant is not found
	ErrGrantNotFound = errors.New("access grant not found")

	// ErrAlreadyAssigned is returned when an attempt is started on an assigned grant
	ErrAlreadyAssigned = errors.New("access grant is already assigned")

	// ErrNotPending is returned when an outcome is recorded outside of an attempt
	ErrNotPending = errors.New("access grant has no attempt in progress")

	// ErrVersionConflict is returned when the grant was modified concurrently
	ErrVersionConflict = errors.New("access grant was modified concurrently")

	// ErrDuplicatePurchase is returned when a grant already exists for the purchase
	ErrDuplicatePurchase = errors.New("access grant already exists for purchase")
)
