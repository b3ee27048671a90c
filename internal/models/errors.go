package models

import "errors"

var (
	// ErrUnauthorized means the caller presented no usable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers both missing entities and entities owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a concurrent writer or an in-flight duplicate request won.
	ErrConflict = errors.New("conflict")
	// ErrInvalidAmount means an amount is not a positive whole number of cents.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrStoreFailure wraps errors returned by the persistence layer.
	ErrStoreFailure = errors.New("store failure")
)
