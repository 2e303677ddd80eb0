package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/grouplib/library-api/internal/domain"
)

// LoanHistoryStore defines the interface for the loan ledger.
// Ledger entries are created LOANED, mutated to RETURNED, never deleted
// (DeleteAll exists only as a bulk teardown operation for tests).
type LoanHistoryStore interface {
	// Create appends a new ledger entry.
	// Returns ErrActiveLoanExists if the book title already has an
	// active loan anywhere in the ledger (enforced by a partial unique
	// index, so a concurrent check-then-insert race still fails here).
	// Returns validation errors from the domain LoanHistory if data is invalid.
	Create(ctx context.Context, loan *domain.LoanHistory) error

	// HasActiveLoan reports whether any ledger entry for the given book
	// name, for any user, is currently LOANED.
	HasActiveLoan(ctx context.Context, bookName string) (bool, error)

	// GetActiveByUserAndBook retrieves the LOANED ledger entry for the
	// given user and book name.
	// Returns ErrLoanNotFound if no active loan matches.
	GetActiveByUserAndBook(ctx context.Context, userID uuid.UUID, bookName string) (*domain.LoanHistory, error)

	// Update persists changes to an existing ledger entry, typically a
	// status transition to RETURNED.
	// Returns ErrLoanNotFound if the entry does not exist.
	Update(ctx context.Context, loan *domain.LoanHistory) error

	// CountActive returns the number of ledger entries with status
	// LOANED, across all users and books.
	CountActive(ctx context.Context) (int64, error)

	// DeleteAll removes every ledger entry. Reserved for test teardown;
	// no production operation deletes loan history.
	DeleteAll(ctx context.Context) error

	// WithTx returns a new LoanHistoryStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) LoanHistoryStore
}
