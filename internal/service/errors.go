package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent business-rule conditions that callers may want to
// check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrBookAlreadyLoaned indicates that the requested book title is
	// currently on loan to someone, anywhere in the ledger. This is a
	// user-correctable state conflict, distinct from a missing resource.
	// API layer should map this to HTTP 409 Conflict.
	ErrBookAlreadyLoaned = errors.New("book is already on loan")

	// ErrNoActiveLoan indicates that no active loan exists for the given
	// user and book, so there is nothing to return against. Covers both
	// "never loaned" and "already returned".
	// API layer should map this to HTTP 409 Conflict.
	ErrNoActiveLoan = errors.New("no active loan found for book")
)
