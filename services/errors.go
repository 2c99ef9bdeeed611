package services

import "errors"

// Sentinel errors shared across services. Controllers match with errors.Is
// and map them to HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrRestaurantConflict = errors.New("cart has items from another restaurant")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
