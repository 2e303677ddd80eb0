package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/platform/logger"
	"github.com/grouplib/library-api/internal/store"
)

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// Create implements store.BookStore.Create
// It saves a new book to the database, handling domain validation.
// Duplicate names are permitted.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	query := `
		INSERT INTO books (id, name, type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		book.ID,
		book.Name,
		book.Type,
		book.CreatedAt,
	)

	if err != nil {
		if isCheckViolation(err) {
			log.Warn("check constraint violation during book creation",
				slog.String("error", err.Error()),
				slog.String("book_id", book.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	log.Info("book created successfully",
		slog.String("book_id", book.ID.String()),
		slog.String("name", book.Name),
		slog.String("type", string(book.Type)))
	return nil
}

// GetByID implements store.BookStore.GetByID
// It retrieves a book by its unique ID.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, type, created_at
		FROM books
		WHERE id = $1
	`

	var book domain.Book
	var bookType string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Name,
		&bookType,
		&book.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found", slog.String("book_id", id.String()))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book by ID",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, err
	}

	book.Type = domain.BookType(bookType)
	return &book, nil
}

// List implements store.BookStore.List
// It retrieves every book in the catalogue. Returns an empty slice if
// the catalogue is empty.
func (s *PostgresBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, type, created_at
		FROM books
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query books", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var books []*domain.Book
	for rows.Next() {
		var book domain.Book
		var bookType string

		err := rows.Scan(&book.ID, &book.Name, &bookType, &book.CreatedAt)
		if err != nil {
			log.Error("failed to scan book row", slog.String("error", err.Error()))
			return nil, err
		}

		book.Type = domain.BookType(bookType)
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if books == nil {
		books = []*domain.Book{}
	}

	return books, nil
}

// GetCategoryStatistics implements store.BookStore.GetCategoryStatistics
// It groups the catalogue by book type and counts books per type.
// Types with no books are omitted; ordering is unspecified.
func (s *PostgresBookStore) GetCategoryStatistics(ctx context.Context) ([]domain.CategoryStat, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT type, COUNT(id)
		FROM books
		GROUP BY type
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query category statistics",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var stats []domain.CategoryStat
	for rows.Next() {
		var stat domain.CategoryStat
		var bookType string

		if err := rows.Scan(&bookType, &stat.Count); err != nil {
			log.Error("failed to scan statistics row",
				slog.String("error", err.Error()))
			return nil, err
		}

		stat.Type = domain.BookType(bookType)
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if stats == nil {
		stats = []domain.CategoryStat{}
	}

	log.Debug("computed category statistics", slog.Int("categories", len(stats)))
	return stats, nil
}

// WithTx implements store.BookStore.WithTx
// It returns a new BookStore instance that uses the provided transaction.
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{
		db:     tx,
		logger: s.logger,
	}
}
