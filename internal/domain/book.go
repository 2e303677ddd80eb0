package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BookType represents the category a book is shelved under.
type BookType string

// Possible book categories.
const (
	BookTypeComputer BookType = "COMPUTER"
	BookTypeScience  BookType = "SCIENCE"
	BookTypeSociety  BookType = "SOCIETY"
	BookTypeLanguage BookType = "LANGUAGE"
	BookTypeHistory  BookType = "HISTORY"
)

// Common validation errors for Book
var (
	ErrEmptyBookID   = errors.New("book ID cannot be empty")
	ErrEmptyBookName = errors.New("book name cannot be empty")
	ErrInvalidBookType = errors.New("invalid book type")
)

// Book represents a single book registered in the catalogue.
// Books are immutable after registration and are never deleted.
// Names are not unique; two physical copies of the same title are
// two Book rows with the same name.
type Book struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      BookType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBook creates a new Book with the given name and category.
// It generates a new UUID for the book ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewBook(name string, bookType BookType) (*Book, error) {
	book := &Book{
		ID:        uuid.New(),
		Name:      name,
		Type:      bookType,
		CreatedAt: time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
// Returns an error if any field fails validation.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if b.Name == "" {
		return ErrEmptyBookName
	}

	if !isValidBookType(b.Type) {
		return ErrInvalidBookType
	}

	return nil
}

// CategoryStat is the per-category aggregate over the catalogue:
// a book type together with the number of books shelved under it.
type CategoryStat struct {
	Type  BookType `json:"type"`
	Count int64    `json:"count"`
}

// isValidBookType checks if the given type is a valid BookType.
func isValidBookType(t BookType) bool {
	switch t {
	case BookTypeComputer, BookTypeScience, BookTypeSociety,
		BookTypeLanguage, BookTypeHistory:
		return true
	default:
		return false
	}
}
