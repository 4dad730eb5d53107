package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness constraint was violated (e.g. duplicate email or promo code).
	ErrConflict = errors.New("already exists")
)
