package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/service"
	"github.com/grouplib/library-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrBookNotFound),
		errors.Is(err, store.ErrLoanNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors: lending rules
	case errors.Is(err, service.ErrBookAlreadyLoaned),
		errors.Is(err, service.ErrNoActiveLoan),
		errors.Is(err, store.ErrActiveLoanExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyBookName),
		errors.Is(err, domain.ErrInvalidBookType),
		errors.Is(err, domain.ErrEmptyUserName),
		errors.Is(err, domain.ErrNegativeAge),
		errors.Is(err, domain.ErrEmptyLoanBookName):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, store.ErrLoanNotFound):
		return "Loan not found"

	// Conflict errors
	case errors.Is(err, service.ErrBookAlreadyLoaned),
		errors.Is(err, store.ErrActiveLoanExists):
		return "Book is already on loan"

	case errors.Is(err, service.ErrNoActiveLoan):
		return "No active loan for this book"

	// Bad request errors
	case errors.Is(err, domain.ErrEmptyBookName):
		return "Book name is required"

	case errors.Is(err, domain.ErrInvalidBookType):
		return "Invalid book type"

	case errors.Is(err, domain.ErrEmptyUserName):
		return "User name is required"

	case errors.Is(err, domain.ErrNegativeAge):
		return "Age cannot be negative"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoanRequest.BookName' Error:Field validation
	// for 'BookName' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "value too small"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
