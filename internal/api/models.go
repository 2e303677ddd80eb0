package api

import (
	"time"

	"github.com/grouplib/library-api/internal/domain"
)

// Common request/response structures

// RegisterBookRequest defines the payload for the book registration endpoint.
type RegisterBookRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Type string `json:"type" validate:"required,oneof=COMPUTER SCIENCE SOCIETY LANGUAGE HISTORY"`
}

// BookResponse defines the response data for a registered book.
type BookResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// LoanRequest defines the payload for the loan and return endpoints.
// The same shape serves both: the user is identified by name, the book
// by its title.
type LoanRequest struct {
	UserName string `json:"userName" validate:"required,min=1"`
	BookName string `json:"bookName" validate:"required,min=1"`
}

// LoanCountResponse reports the number of books currently out.
type LoanCountResponse struct {
	Count int64 `json:"count"`
}

// CategoryStatResponse reports the number of registered books in one category.
type CategoryStatResponse struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// RegisterUserRequest defines the payload for the user registration endpoint.
// Age is optional; omitting it registers the user without an age.
type RegisterUserRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Age  *int32 `json:"age"  validate:"omitempty,gte=0"`
}

// RenameUserRequest defines the payload for the user rename endpoint.
type RenameUserRequest struct {
	ID   string `json:"id"   validate:"required,uuid"`
	Name string `json:"name" validate:"required,min=1"`
}

// UserResponse defines the response data for a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       *int32    `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userToDTOResponse converts a domain.User to a UserResponse
func userToDTOResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// bookToDTOResponse converts a domain.Book to a BookResponse
func bookToDTOResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:        book.ID.String(),
		Name:      book.Name,
		Type:      string(book.Type),
		CreatedAt: book.CreatedAt,
	}
}
