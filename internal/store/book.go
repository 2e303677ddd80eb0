package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/grouplib/library-api/internal/domain"
)

// BookStore defines the interface for book catalogue persistence.
type BookStore interface {
	// Create saves a new book to the catalogue.
	// Duplicate names are permitted; two copies of the same title are
	// two rows. Returns validation errors from the domain Book if data is invalid.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// List returns every book in the catalogue, order unspecified.
	List(ctx context.Context) ([]*domain.Book, error)

	// GetCategoryStatistics returns, for every category present in the
	// catalogue, the number of books shelved under it. Categories with
	// no books are omitted; ordering is unspecified.
	GetCategoryStatistics(ctx context.Context) ([]domain.CategoryStat, error)

	// WithTx returns a new BookStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) BookStore
}
