// Package testutils provides insert helpers shared by the database
// integration tests.
package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/store"
)

// MustInsertUser inserts a user row and returns its ID.
// A nil age is stored as NULL.
func MustInsertUser(ctx context.Context, t *testing.T, db store.DBTX, name string, age *int32) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, name, age, now, now)
	require.NoError(t, err, "Failed to insert test user")

	return id
}

// MustInsertBook inserts a book row and returns its ID.
func MustInsertBook(ctx context.Context, t *testing.T, db store.DBTX, name string, bookType domain.BookType) uuid.UUID {
	t.Helper()

	id := uuid.New()

	_, err := db.ExecContext(ctx, `
		INSERT INTO books (id, name, type, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, name, bookType, time.Now().UTC())
	require.NoError(t, err, "Failed to insert test book")

	return id
}

// MustInsertLoan inserts a loan history row in the given status and
// returns its ID.
func MustInsertLoan(
	ctx context.Context,
	t *testing.T,
	db store.DBTX,
	userID uuid.UUID,
	bookName string,
	status domain.LoanStatus,
) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx, `
		INSERT INTO loan_history (id, user_id, book_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, userID, bookName, status, now, now)
	require.NoError(t, err, "Failed to insert test loan")

	return id
}
