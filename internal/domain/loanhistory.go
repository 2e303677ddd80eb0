package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LoanStatus represents the state of a loan history record.
type LoanStatus string

// Possible loan status values. A record is created LOANED and the only
// transition is LOANED -> RETURNED; there is no way back.
const (
	LoanStatusLoaned   LoanStatus = "LOANED"
	LoanStatusReturned LoanStatus = "RETURNED"
)

// Common validation and transition errors for LoanHistory
var (
	ErrEmptyLoanID       = errors.New("loan history ID cannot be empty")
	ErrEmptyLoanUserID   = errors.New("loan history user ID cannot be empty")
	ErrEmptyLoanBookName = errors.New("loan history book name cannot be empty")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
	ErrAlreadyReturned   = errors.New("loan has already been returned")
)

// LoanHistory is one entry in the loan ledger: a user borrowed a book,
// identified by its name. Matching by name rather than by book ID is
// deliberate; the ledger is only loosely coupled to the catalogue and a
// loan may reference a title the catalogue does not carry.
type LoanHistory struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	BookName  string     `json:"book_name"`
	Status    LoanStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewLoanHistory creates a new ledger entry for the given user and book
// name. The entry starts in the LOANED state; there is no way to create
// a record directly in RETURNED. Returns an error if validation fails.
func NewLoanHistory(userID uuid.UUID, bookName string) (*LoanHistory, error) {
	loan := &LoanHistory{
		ID:        uuid.New(),
		UserID:    userID,
		BookName:  bookName,
		Status:    LoanStatusLoaned,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	return loan, nil
}

// Validate checks if the LoanHistory has valid data.
// Returns an error if any field fails validation.
func (l *LoanHistory) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLoanID
	}

	if l.UserID == uuid.Nil {
		return ErrEmptyLoanUserID
	}

	if l.BookName == "" {
		return ErrEmptyLoanBookName
	}

	if !isValidLoanStatus(l.Status) {
		return ErrInvalidLoanStatus
	}

	return nil
}

// Return transitions the record from LOANED to RETURNED and updates the
// UpdatedAt timestamp. Returns ErrAlreadyReturned if the record has
// already been returned; a returned record is never re-activated.
func (l *LoanHistory) Return() error {
	if l.Status == LoanStatusReturned {
		return ErrAlreadyReturned
	}

	l.Status = LoanStatusReturned
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// IsReturned reports whether the record has been returned.
func (l *LoanHistory) IsReturned() bool {
	return l.Status == LoanStatusReturned
}

// BookLoanRecord is one entry in a user's loan history projection:
// the book name and whether that loan has been returned.
type BookLoanRecord struct {
	BookName string `json:"name"`
	Returned bool   `json:"isReturn"`
}

// UserLoanSummary is a read model joining a user with all their loan
// records. Users with no loans appear with an empty (non-nil) Books
// slice. Books preserve the order the loans were created in.
type UserLoanSummary struct {
	UserName string           `json:"name"`
	Books    []BookLoanRecord `json:"books"`
}

// isValidLoanStatus checks if the given status is a valid LoanStatus.
func isValidLoanStatus(status LoanStatus) bool {
	switch status {
	case LoanStatusLoaned, LoanStatusReturned:
		return true
	default:
		return false
	}
}
