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

// PostgresLoanHistoryStore implements the store.LoanHistoryStore interface
// using a PostgreSQL database as the storage backend.
//
// The at-most-one-active-loan-per-title invariant is backed by a partial
// unique index on loan_history(book_name) WHERE status = 'LOANED', so a
// check-then-insert race between two loans of the same title surfaces
// here as a unique violation rather than a double loan.
type PostgresLoanHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLoanHistoryStore creates a new PostgreSQL implementation of the LoanHistoryStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLoanHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresLoanHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLoanHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "loan_history_store")),
	}
}

// Ensure PostgresLoanHistoryStore implements store.LoanHistoryStore interface
var _ store.LoanHistoryStore = (*PostgresLoanHistoryStore)(nil)

// Create implements store.LoanHistoryStore.Create
// It appends a new ledger entry, handling domain validation.
// Returns store.ErrActiveLoanExists if the title already has an active loan.
// Returns store.ErrUserNotFound if the referenced user does not exist.
func (s *PostgresLoanHistoryStore) Create(ctx context.Context, loan *domain.LoanHistory) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := loan.Validate(); err != nil {
		log.Warn("loan history validation failed during create",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return err
	}

	query := `
		INSERT INTO loan_history (id, user_id, book_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		loan.ID,
		loan.UserID,
		loan.BookName,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("active loan already exists for book",
				slog.String("book_name", loan.BookName),
				slog.String("loan_id", loan.ID.String()))
			return fmt.Errorf("%w: %s", store.ErrActiveLoanExists, loan.BookName)
		}

		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during loan creation",
				slog.String("error", err.Error()),
				slog.String("user_id", loan.UserID.String()))
			return fmt.Errorf("%w: id %s", store.ErrUserNotFound, loan.UserID)
		}

		log.Error("failed to create loan history",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()),
			slog.String("user_id", loan.UserID.String()))
		return err
	}

	log.Info("loan history created successfully",
		slog.String("loan_id", loan.ID.String()),
		slog.String("user_id", loan.UserID.String()),
		slog.String("book_name", loan.BookName))
	return nil
}

// HasActiveLoan implements store.LoanHistoryStore.HasActiveLoan
// It reports whether any user currently has the given book name on loan.
func (s *PostgresLoanHistoryStore) HasActiveLoan(ctx context.Context, bookName string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM loan_history
			WHERE book_name = $1 AND status = $2
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, bookName, domain.LoanStatusLoaned).Scan(&exists)
	if err != nil {
		log.Error("failed to check for active loan",
			slog.String("error", err.Error()),
			slog.String("book_name", bookName))
		return false, err
	}

	return exists, nil
}

// GetActiveByUserAndBook implements store.LoanHistoryStore.GetActiveByUserAndBook
// It retrieves the LOANED entry for the given user and book name.
// Returns store.ErrLoanNotFound if no active loan matches.
func (s *PostgresLoanHistoryStore) GetActiveByUserAndBook(
	ctx context.Context,
	userID uuid.UUID,
	bookName string,
) (*domain.LoanHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, book_name, status, created_at, updated_at
		FROM loan_history
		WHERE user_id = $1 AND book_name = $2 AND status = $3
	`

	var loan domain.LoanHistory
	var status string

	err := s.db.QueryRowContext(ctx, query, userID, bookName, domain.LoanStatusLoaned).Scan(
		&loan.ID,
		&loan.UserID,
		&loan.BookName,
		&status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no active loan found",
				slog.String("user_id", userID.String()),
				slog.String("book_name", bookName))
			return nil, store.ErrLoanNotFound
		}
		log.Error("failed to get active loan",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("book_name", bookName))
		return nil, err
	}

	loan.Status = domain.LoanStatus(status)
	return &loan, nil
}

// Update implements store.LoanHistoryStore.Update
// It persists changes to an existing ledger entry.
// Returns store.ErrLoanNotFound if the entry does not exist.
func (s *PostgresLoanHistoryStore) Update(ctx context.Context, loan *domain.LoanHistory) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := loan.Validate(); err != nil {
		log.Warn("loan history validation failed during update",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return err
	}

	query := `
		UPDATE loan_history
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		loan.Status,
		loan.UpdatedAt,
		loan.ID,
	)

	if err != nil {
		log.Error("failed to update loan history",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("loan history not found for update",
			slog.String("loan_id", loan.ID.String()))
		return store.ErrLoanNotFound
	}

	log.Info("loan history updated successfully",
		slog.String("loan_id", loan.ID.String()),
		slog.String("status", string(loan.Status)))
	return nil
}

// CountActive implements store.LoanHistoryStore.CountActive
// It counts entries with status LOANED across all users and books.
func (s *PostgresLoanHistoryStore) CountActive(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(id)
		FROM loan_history
		WHERE status = $1
	`

	var count int64
	err := s.db.QueryRowContext(ctx, query, domain.LoanStatusLoaned).Scan(&count)
	if err != nil {
		log.Error("failed to count active loans",
			slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// DeleteAll implements store.LoanHistoryStore.DeleteAll
// It wipes the ledger. Reserved for test teardown.
func (s *PostgresLoanHistoryStore) DeleteAll(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM loan_history`)
	if err != nil {
		log.Error("failed to delete loan history",
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("deleted all loan history")
	return nil
}

// WithTx implements store.LoanHistoryStore.WithTx
// It returns a new LoanHistoryStore instance that uses the provided transaction.
func (s *PostgresLoanHistoryStore) WithTx(tx *sql.Tx) store.LoanHistoryStore {
	return &PostgresLoanHistoryStore{
		db:     tx,
		logger: s.logger,
	}
}
