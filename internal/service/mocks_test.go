package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/store"
)

// MockBookStore mocks the store.BookStore interface
type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Book), args.Error(1)
}

func (m *MockBookStore) GetCategoryStatistics(ctx context.Context) ([]domain.CategoryStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryStat), args.Error(1)
}

func (m *MockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return m
}

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByName(ctx context.Context, name string) (*domain.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) ListWithLoanHistories(ctx context.Context) ([]domain.UserLoanSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserLoanSummary), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockLoanHistoryStore mocks the store.LoanHistoryStore interface
type MockLoanHistoryStore struct {
	mock.Mock
}

func (m *MockLoanHistoryStore) Create(ctx context.Context, loan *domain.LoanHistory) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanHistoryStore) HasActiveLoan(ctx context.Context, bookName string) (bool, error) {
	args := m.Called(ctx, bookName)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanHistoryStore) GetActiveByUserAndBook(
	ctx context.Context,
	userID uuid.UUID,
	bookName string,
) (*domain.LoanHistory, error) {
	args := m.Called(ctx, userID, bookName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanHistory), args.Error(1)
}

func (m *MockLoanHistoryStore) Update(ctx context.Context, loan *domain.LoanHistory) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanHistoryStore) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanHistoryStore) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLoanHistoryStore) WithTx(tx *sql.Tx) store.LoanHistoryStore {
	return m
}
