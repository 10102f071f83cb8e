package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordLength is the bcrypt input limit; longer passwords are rejected.
const MaxPasswordLength = 72

// User represents a registered account. Users are created at registration
// and never deleted through the application.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser builds an active user from an email and an already-hashed password.
// Timestamps and the ID are assigned by the store.
func NewUser(email, hashedPassword string) (*User, error) {
	u := &User{
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the fields a user must carry before it is persisted.
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "hash cannot be empty", ErrInvalidPassword)
	}
	return nil
}

var validate = validator.New()

// ValidateEmail reports whether email is a well-formed address.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword rejects empty passwords and those bcrypt cannot hash.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "cannot be empty", ErrInvalidPassword)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", "is too long", ErrInvalidPassword)
	}
	return nil
}
