package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/store"
)

// MockUserService is a mock implementation of service.UserService for testing
type MockUserService struct {
	RegisterUserFn         func(ctx context.Context, name string, age *int32) (*domain.User, error)
	ListUsersFn            func(ctx context.Context) ([]*domain.User, error)
	RenameUserFn           func(ctx context.Context, id uuid.UUID, newName string) error
	DeleteUserByNameFn     func(ctx context.Context, name string) error
	GetUserLoanHistoriesFn func(ctx context.Context) ([]domain.UserLoanSummary, error)
}

func (m *MockUserService) RegisterUser(
	ctx context.Context,
	name string,
	age *int32,
) (*domain.User, error) {
	if m.RegisterUserFn != nil {
		return m.RegisterUserFn(ctx, name, age)
	}
	return nil, nil
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return nil, nil
}

func (m *MockUserService) RenameUser(ctx context.Context, id uuid.UUID, newName string) error {
	if m.RenameUserFn != nil {
		return m.RenameUserFn(ctx, id, newName)
	}
	return nil
}

func (m *MockUserService) DeleteUserByName(ctx context.Context, name string) error {
	if m.DeleteUserByNameFn != nil {
		return m.DeleteUserByNameFn(ctx, name)
	}
	return nil
}

func (m *MockUserService) GetUserLoanHistories(ctx context.Context) ([]domain.UserLoanSummary, error) {
	if m.GetUserLoanHistoriesFn != nil {
		return m.GetUserLoanHistoriesFn(ctx)
	}
	return nil, nil
}

func TestUserHandler_RegisterUser(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixedTime := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	age := int32(30)
	negativeAge := int32(-1)

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockUserService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "successful_registration_with_age",
			requestBody: RegisterUserRequest{Name: "carl", Age: &age},
			setupMock: func(ms *MockUserService) {
				ms.RegisterUserFn = func(ctx context.Context, name string, age *int32) (*domain.User, error) {
					return &domain.User{
						ID:        fixedUserID,
						Name:      name,
						Age:       age,
						CreatedAt: fixedTime,
						UpdatedAt: fixedTime,
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp UserResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "carl", resp.Name)
				require.NotNil(t, resp.Age)
				assert.Equal(t, int32(30), *resp.Age)
			},
		},
		{
			name:        "successful_registration_without_age",
			requestBody: RegisterUserRequest{Name: "ageless"},
			setupMock: func(ms *MockUserService) {
				ms.RegisterUserFn = func(ctx context.Context, name string, age *int32) (*domain.User, error) {
					return &domain.User{
						ID:        fixedUserID,
						Name:      name,
						Age:       age,
						CreatedAt: fixedTime,
						UpdatedAt: fixedTime,
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				// Absent age is omitted from the JSON entirely.
				var raw map[string]interface{}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
				_, present := raw["age"]
				assert.False(t, present)
			},
		},
		{
			name:           "missing_name",
			requestBody:    RegisterUserRequest{Age: &age},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative_age",
			requestBody:    RegisterUserRequest{Name: "carl", Age: &negativeAge},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockUserService{}
			if tc.setupMock != nil {
				tc.setupMock(mockService)
			}
			handler := NewUserHandler(mockService)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tc.requestBody))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", &body)
			rec := httptest.NewRecorder()

			handler.RegisterUser(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	age := int32(25)
	mockService := &MockUserService{
		ListUsersFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: uuid.New(), Name: "carl", Age: &age},
				{ID: uuid.New(), Name: "ageless"},
			}, nil
		},
	}
	handler := NewUserHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()

	handler.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "carl", resp[0].Name)
	assert.Nil(t, resp[1].Age)
}

func TestUserHandler_RenameUser(t *testing.T) {
	fixedUserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockUserService)
		expectedStatus int
	}{
		{
			name:        "successful_rename",
			requestBody: RenameUserRequest{ID: fixedUserID.String(), Name: "renamed"},
			setupMock: func(ms *MockUserService) {
				ms.RenameUserFn = func(ctx context.Context, id uuid.UUID, newName string) error {
					assert.Equal(t, fixedUserID, id)
					assert.Equal(t, "renamed", newName)
					return nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "user_not_found",
			requestBody: RenameUserRequest{ID: fixedUserID.String(), Name: "renamed"},
			setupMock: func(ms *MockUserService) {
				ms.RenameUserFn = func(ctx context.Context, id uuid.UUID, newName string) error {
					return store.ErrUserNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed_id",
			requestBody:    RenameUserRequest{ID: "not-a-uuid", Name: "renamed"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing_name",
			requestBody:    RenameUserRequest{ID: fixedUserID.String()},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockUserService{}
			if tc.setupMock != nil {
				tc.setupMock(mockService)
			}
			handler := NewUserHandler(mockService)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tc.requestBody))

			req := httptest.NewRequest(http.MethodPut, "/api/v1/users", &body)
			rec := httptest.NewRecorder()

			handler.RenameUser(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockUserService)
		expectedStatus int
	}{
		{
			name:  "successful_delete",
			query: "?name=carl",
			setupMock: func(ms *MockUserService) {
				ms.DeleteUserByNameFn = func(ctx context.Context, name string) error {
					assert.Equal(t, "carl", name)
					return nil
				}
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:  "user_not_found",
			query: "?name=ghost",
			setupMock: func(ms *MockUserService) {
				ms.DeleteUserByNameFn = func(ctx context.Context, name string) error {
					return store.ErrUserNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing_name",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockUserService{}
			if tc.setupMock != nil {
				tc.setupMock(mockService)
			}
			handler := NewUserHandler(mockService)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/users"+tc.query, nil)
			rec := httptest.NewRecorder()

			handler.DeleteUser(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestUserHandler_GetLoanHistories(t *testing.T) {
	mockService := &MockUserService{
		GetUserLoanHistoriesFn: func(ctx context.Context) ([]domain.UserLoanSummary, error) {
			return []domain.UserLoanSummary{
				{
					UserName: "carl",
					Books: []domain.BookLoanRecord{
						{BookName: "Clean Code", Returned: false},
						{BookName: "SICP", Returned: true},
					},
				},
				{UserName: "idle", Books: []domain.BookLoanRecord{}},
			}, nil
		},
	}
	handler := NewUserHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/loan", nil)
	rec := httptest.NewRecorder()

	handler.GetLoanHistories(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// The wire format uses the original field names: name, books, isReturn.
	var resp []map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)

	assert.Equal(t, "carl", resp[0]["name"])
	books, ok := resp[0]["books"].([]interface{})
	require.True(t, ok)
	require.Len(t, books, 2)

	first, ok := books[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Clean Code", first["name"])
	assert.Equal(t, false, first["isReturn"])

	idleBooks, ok := resp[1]["books"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, idleBooks)
}

func TestUserHandler_GetLoanHistories_ServiceFailure(t *testing.T) {
	mockService := &MockUserService{
		GetUserLoanHistoriesFn: func(ctx context.Context) ([]domain.UserLoanSummary, error) {
			return nil, errors.New("connection refused")
		},
	}
	handler := NewUserHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/loan", nil)
	rec := httptest.NewRecorder()

	handler.GetLoanHistories(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
