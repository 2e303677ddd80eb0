package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/platform/logger"
	"github.com/grouplib/library-api/internal/store"
)

// UserServiceError is a custom error type for user service errors.
type UserServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for UserServiceError.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UserServiceError) Unwrap() error {
	return e.Err
}

// NewUserServiceError creates a new UserServiceError.
func NewUserServiceError(operation, message string, err error) *UserServiceError {
	return &UserServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UserService provides user management and the per-user loan history view.
type UserService interface {
	// RegisterUser creates a new user. Age is optional; nil means
	// "no age recorded" and is preserved as such.
	RegisterUser(ctx context.Context, name string, age *int32) (*domain.User, error)

	// ListUsers returns all users, order unspecified.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// RenameUser changes a user's name, leaving age and loan history
	// untouched. Returns store.ErrUserNotFound if the user is absent.
	RenameUser(ctx context.Context, id uuid.UUID, newName string) error

	// DeleteUserByName looks a user up by name and removes them.
	// Returns store.ErrUserNotFound if the user is absent. Loan history
	// is not deleted here.
	DeleteUserByName(ctx context.Context, name string) error

	// GetUserLoanHistories returns every user joined with their loan
	// records, including users with no loans (empty Books slice).
	GetUserLoanHistories(ctx context.Context) ([]domain.UserLoanSummary, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	db        *sql.DB
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(db *sql.DB, userStore store.UserStore, logger *slog.Logger) (UserService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if userStore == nil {
		return nil, fmt.Errorf("%w: userStore cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:        db,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// RegisterUser implements UserService.RegisterUser
func (s *userServiceImpl) RegisterUser(
	ctx context.Context,
	name string,
	age *int32,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, age)
	if err != nil {
		log.Warn("invalid user registration",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		log.Error("failed to register user",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, NewUserServiceError("register_user", "failed to save user", err)
	}

	log.Debug("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("name", user.Name))
	return user, nil
}

// ListUsers implements UserService.ListUsers
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, NewUserServiceError("list_users", "failed to list users", err)
	}
	return users, nil
}

// RenameUser implements UserService.RenameUser
// The lookup and the update run in one transaction.
func (s *userServiceImpl) RenameUser(ctx context.Context, id uuid.UUID, newName string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)

		user, err := txUsers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := user.Rename(newName); err != nil {
			return err
		}

		return txUsers.Update(ctx, user)
	})

	if err != nil {
		log.Debug("rename failed",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	log.Info("user renamed",
		slog.String("user_id", id.String()),
		slog.String("new_name", newName))
	return nil
}

// DeleteUserByName implements UserService.DeleteUserByName
// Lookup-then-delete in one transaction, so a missing user is surfaced
// as store.ErrUserNotFound instead of silently succeeding.
func (s *userServiceImpl) DeleteUserByName(ctx context.Context, name string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)

		user, err := txUsers.GetByName(ctx, name)
		if err != nil {
			return err
		}

		return txUsers.Delete(ctx, user.ID)
	})

	if err != nil {
		log.Debug("delete failed",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return err
	}

	log.Info("user deleted", slog.String("name", name))
	return nil
}

// GetUserLoanHistories implements UserService.GetUserLoanHistories
func (s *userServiceImpl) GetUserLoanHistories(ctx context.Context) ([]domain.UserLoanSummary, error) {
	summaries, err := s.userStore.ListWithLoanHistories(ctx)
	if err != nil {
		return nil, NewUserServiceError("loan_histories", "failed to load loan histories", err)
	}
	return summaries, nil
}
