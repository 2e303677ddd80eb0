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

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// It saves a new user to the database, handling domain validation.
// A nil age is stored as NULL so it round-trips as "no age recorded".
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, name, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		nullableAge(user.Age),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isCheckViolation(err) {
			log.Warn("check constraint violation during user creation",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("name", user.Name))
	return nil
}

// GetByID implements store.UserStore.GetByID
// It retrieves a user by their unique ID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, age, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, err
	}

	return user, nil
}

// GetByName implements store.UserStore.GetByName
// It retrieves a user by their name.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByName(ctx context.Context, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, age, created_at, updated_at
		FROM users
		WHERE name = $1
	`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by name", slog.String("name", name))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by name",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, err
	}

	return user, nil
}

// List implements store.UserStore.List
// It retrieves all users. Returns an empty slice if there are none.
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, age, created_at, updated_at
		FROM users
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var age sql.NullInt32

		err := rows.Scan(&user.ID, &user.Name, &age, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}

		if age.Valid {
			v := age.Int32
			user.Age = &v
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if users == nil {
		users = []*domain.User{}
	}

	return users, nil
}

// Update implements store.UserStore.Update
// It persists the user's current name and age.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		UPDATE users
		SET name = $1, age = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Name,
		nullableAge(user.Age),
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for update",
			slog.String("user_id", user.ID.String()))
		return store.ErrUserNotFound
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("name", user.Name))
	return nil
}

// Delete implements store.UserStore.Delete
// It removes a user by their ID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM users
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for delete", slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("user deleted successfully", slog.String("user_id", id.String()))
	return nil
}

// ListWithLoanHistories implements store.UserStore.ListWithLoanHistories
// It joins every user with their loan records in a single LEFT JOIN
// query, so users with no loans still appear, with an empty Books slice.
// Per-user books come back in loan creation order.
func (s *PostgresUserStore) ListWithLoanHistories(ctx context.Context) ([]domain.UserLoanSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT u.id, u.name, lh.book_name, lh.status
		FROM users u
		LEFT JOIN loan_history lh ON lh.user_id = u.id
		ORDER BY u.created_at, u.id, lh.created_at, lh.id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query users with loan histories",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	// Stitch the flat join rows into one summary per user. Rows arrive
	// grouped by user because of the ORDER BY.
	summaries := []domain.UserLoanSummary{}
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var userID uuid.UUID
		var userName string
		var bookName sql.NullString
		var status sql.NullString

		if err := rows.Scan(&userID, &userName, &bookName, &status); err != nil {
			log.Error("failed to scan joined row", slog.String("error", err.Error()))
			return nil, err
		}

		i, ok := index[userID]
		if !ok {
			summaries = append(summaries, domain.UserLoanSummary{
				UserName: userName,
				Books:    []domain.BookLoanRecord{},
			})
			i = len(summaries) - 1
			index[userID] = i
		}

		// NULL book name means the user has no loans (unmatched LEFT JOIN row).
		if bookName.Valid {
			summaries[i].Books = append(summaries[i].Books, domain.BookLoanRecord{
				BookName: bookName.String,
				Returned: domain.LoanStatus(status.String) == domain.LoanStatusReturned,
			})
		}
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed users with loan histories", slog.Int("users", len(summaries)))
	return summaries, nil
}

// WithTx implements store.UserStore.WithTx
// It returns a new UserStore instance that uses the provided transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanUser scans a single user row, converting a NULL age to a nil pointer.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var age sql.NullInt32

	err := row.Scan(&user.ID, &user.Name, &age, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := age.Int32
		user.Age = &v
	}
	return &user, nil
}

// nullableAge converts an optional age to its SQL representation.
func nullableAge(age *int32) sql.NullInt32 {
	if age == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *age, Valid: true}
}
