package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrEmptyUserName = errors.New("user name cannot be empty")
	ErrNegativeAge   = errors.New("user age cannot be negative")
)

// User represents a registered library member.
// Age is optional: a nil Age means "no age recorded", which is
// distinct from an age of zero and must survive a store round trip.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Age       *int32    `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given name and optional age.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewUser(name string, age *int32) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Age:       age,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyUserName
	}

	if u.Age != nil && *u.Age < 0 {
		return ErrNegativeAge
	}

	return nil
}

// Rename changes the user's name and updates the UpdatedAt timestamp.
// Age and loan history are untouched.
func (u *User) Rename(name string) error {
	if name == "" {
		return ErrEmptyUserName
	}

	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	return nil
}
