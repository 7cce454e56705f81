package database

import "errors"

var (
	// ErrNotAuthenticated means the chat never registered with /start.
	// Log operations require a known user, never an anonymous one.
	ErrNotAuthenticated = errors.New("user is not registered")

	ErrNotFound = errors.New("not found")
)
