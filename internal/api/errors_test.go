package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/service"
	"github.com/grouplib/library-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"user_not_found", store.ErrUserNotFound, http.StatusNotFound},
		{"book_not_found", store.ErrBookNotFound, http.StatusNotFound},
		{"loan_not_found", store.ErrLoanNotFound, http.StatusNotFound},
		{"wrapped_not_found", fmt.Errorf("lookup: %w", store.ErrUserNotFound), http.StatusNotFound},
		{"already_loaned", service.ErrBookAlreadyLoaned, http.StatusConflict},
		{"no_active_loan", service.ErrNoActiveLoan, http.StatusConflict},
		{"active_loan_exists", store.ErrActiveLoanExists, http.StatusConflict},
		{"invalid_entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"empty_book_name", domain.ErrEmptyBookName, http.StatusBadRequest},
		{"invalid_book_type", domain.ErrInvalidBookType, http.StatusBadRequest},
		{"negative_age", domain.ErrNegativeAge, http.StatusBadRequest},
		{"unknown_error", errors.New("boom"), http.StatusInternalServerError},
		{"nil_error", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"user_not_found", store.ErrUserNotFound, "User not found"},
		{"already_loaned", service.ErrBookAlreadyLoaned, "Book is already on loan"},
		{"no_active_loan", service.ErrNoActiveLoan, "No active loan for this book"},
		{"empty_user_name", domain.ErrEmptyUserName, "User name is required"},
		{"negative_age", domain.ErrNegativeAge, "Age cannot be negative"},
		{"nil_error", nil, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

// Service wrapper errors must keep their sentinel mapping: handlers see the
// wrapped error, not the sentinel itself.
func TestMapErrorToStatusCode_ThroughServiceError(t *testing.T) {
	wrapped := service.NewBookServiceError("loan_book", "failed",
		fmt.Errorf("%w: SICP", service.ErrBookAlreadyLoaned))

	assert.Equal(t, http.StatusConflict, MapErrorToStatusCode(wrapped))
	assert.Equal(t, "Book is already on loan", GetSafeErrorMessage(wrapped))
}

func TestSanitizeValidationError(t *testing.T) {
	raw := errors.New(
		"Key: 'LoanRequest.BookName' Error:Field validation for 'BookName' failed on the 'required' tag",
	)
	msg := SanitizeValidationError(raw)
	assert.Equal(t, "Invalid BookName: required field", msg)

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
