package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/platform/logger"
	"github.com/grouplib/library-api/internal/store"
)

// BookServiceError is a custom error type for book service errors.
type BookServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for BookServiceError.
func (e *BookServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("book service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("book service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BookServiceError) Unwrap() error {
	return e.Err
}

// NewBookServiceError creates a new BookServiceError.
func NewBookServiceError(operation, message string, err error) *BookServiceError {
	return &BookServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// BookService provides catalogue and lending operations.
type BookService interface {
	// RegisterBook creates a new book in the catalogue.
	// Duplicate names are permitted.
	RegisterBook(ctx context.Context, name string, bookType domain.BookType) (*domain.Book, error)

	// LoanBook records a loan of the named book to the named user.
	// Returns store.ErrUserNotFound if the user does not exist and
	// ErrBookAlreadyLoaned if any user already has the title on loan.
	LoanBook(ctx context.Context, userName, bookName string) error

	// ReturnBook transitions the user's active loan of the named book
	// to RETURNED. Returns store.ErrUserNotFound if the user does not
	// exist and ErrNoActiveLoan if there is nothing to return against.
	ReturnBook(ctx context.Context, userName, bookName string) error

	// CountActiveLoans returns the number of books currently out,
	// across all users and titles.
	CountActiveLoans(ctx context.Context) (int64, error)

	// GetCategoryStatistics returns the number of books per category.
	GetCategoryStatistics(ctx context.Context) ([]domain.CategoryStat, error)
}

// bookServiceImpl implements the BookService interface
type bookServiceImpl struct {
	db        *sql.DB
	bookStore store.BookStore
	userStore store.UserStore
	loanStore store.LoanHistoryStore
	logger    *slog.Logger
}

// NewBookService creates a new BookService.
// It returns an error if any of the required dependencies are nil.
func NewBookService(
	db *sql.DB,
	bookStore store.BookStore,
	userStore store.UserStore,
	loanStore store.LoanHistoryStore,
	logger *slog.Logger,
) (BookService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if bookStore == nil {
		return nil, fmt.Errorf("%w: bookStore cannot be nil", domain.ErrValidation)
	}
	if userStore == nil {
		return nil, fmt.Errorf("%w: userStore cannot be nil", domain.ErrValidation)
	}
	if loanStore == nil {
		return nil, fmt.Errorf("%w: loanStore cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		db:        db,
		bookStore: bookStore,
		userStore: userStore,
		loanStore: loanStore,
		logger:    logger.With(slog.String("component", "book_service")),
	}, nil
}

// RegisterBook implements BookService.RegisterBook
func (s *bookServiceImpl) RegisterBook(
	ctx context.Context,
	name string,
	bookType domain.BookType,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := domain.NewBook(name, bookType)
	if err != nil {
		log.Warn("invalid book registration",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, err
	}

	if err := s.bookStore.Create(ctx, book); err != nil {
		log.Error("failed to register book",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, NewBookServiceError("register_book", "failed to save book", err)
	}

	log.Debug("book registered",
		slog.String("book_id", book.ID.String()),
		slog.String("name", book.Name))
	return book, nil
}

// LoanBook implements BookService.LoanBook
// The user lookup, the active-loan check, and the ledger insert run in
// one transaction so two concurrent loans of the same title cannot both
// pass the check. The partial unique index on active loans backs this
// up: if a race slips past the check, the insert fails and is reported
// as ErrBookAlreadyLoaned.
func (s *bookServiceImpl) LoanBook(ctx context.Context, userName, bookName string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		txLoans := s.loanStore.WithTx(tx)

		user, err := txUsers.GetByName(ctx, userName)
		if err != nil {
			return err
		}

		loaned, err := txLoans.HasActiveLoan(ctx, bookName)
		if err != nil {
			return NewBookServiceError("loan_book", "failed to check ledger", err)
		}
		if loaned {
			return fmt.Errorf("%w: %s", ErrBookAlreadyLoaned, bookName)
		}

		loan, err := domain.NewLoanHistory(user.ID, bookName)
		if err != nil {
			return err
		}

		if err := txLoans.Create(ctx, loan); err != nil {
			if errors.Is(err, store.ErrActiveLoanExists) {
				return fmt.Errorf("%w: %s", ErrBookAlreadyLoaned, bookName)
			}
			return NewBookServiceError("loan_book", "failed to record loan", err)
		}

		return nil
	})

	if err != nil {
		log.Debug("loan failed",
			slog.String("error", err.Error()),
			slog.String("user_name", userName),
			slog.String("book_name", bookName))
		return err
	}

	log.Info("book loaned",
		slog.String("user_name", userName),
		slog.String("book_name", bookName))
	return nil
}

// ReturnBook implements BookService.ReturnBook
// Lookup and status transition run in one transaction; exactly one
// existing record is mutated on success and nothing is created.
func (s *bookServiceImpl) ReturnBook(ctx context.Context, userName, bookName string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		txLoans := s.loanStore.WithTx(tx)

		user, err := txUsers.GetByName(ctx, userName)
		if err != nil {
			return err
		}

		loan, err := txLoans.GetActiveByUserAndBook(ctx, user.ID, bookName)
		if err != nil {
			if errors.Is(err, store.ErrLoanNotFound) {
				return fmt.Errorf("%w: %s", ErrNoActiveLoan, bookName)
			}
			return NewBookServiceError("return_book", "failed to look up loan", err)
		}

		if err := loan.Return(); err != nil {
			return fmt.Errorf("%w: %s", ErrNoActiveLoan, bookName)
		}

		if err := txLoans.Update(ctx, loan); err != nil {
			return NewBookServiceError("return_book", "failed to record return", err)
		}

		return nil
	})

	if err != nil {
		log.Debug("return failed",
			slog.String("error", err.Error()),
			slog.String("user_name", userName),
			slog.String("book_name", bookName))
		return err
	}

	log.Info("book returned",
		slog.String("user_name", userName),
		slog.String("book_name", bookName))
	return nil
}

// CountActiveLoans implements BookService.CountActiveLoans
func (s *bookServiceImpl) CountActiveLoans(ctx context.Context) (int64, error) {
	count, err := s.loanStore.CountActive(ctx)
	if err != nil {
		return 0, NewBookServiceError("count_active_loans", "failed to count loans", err)
	}
	return count, nil
}

// GetCategoryStatistics implements BookService.GetCategoryStatistics
func (s *bookServiceImpl) GetCategoryStatistics(ctx context.Context) ([]domain.CategoryStat, error) {
	stats, err := s.bookStore.GetCategoryStatistics(ctx)
	if err != nil {
		return nil, NewBookServiceError("category_statistics", "failed to compute statistics", err)
	}
	return stats, nil
}
