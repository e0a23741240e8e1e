package models

import (
	"fmt"
	"time"

	"github.com/Dan9191/blog-service/internal/utils"
)

// User represents a user in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"` // Not serialized
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Active       bool      `json:"active" db:"active"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
}

// NewUser builds a user, hashing password when one is supplied.
// An empty password leaves PasswordHash nil.
func NewUser(username, email, password, firstName, lastName string, isAdmin bool) (*User, error) {
	u := &User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsAdmin:   isAdmin,
	}
	if password != "" {
		if err := u.SetPassword(password); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// SetPassword replaces the stored hash with a fresh hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPassword(password, u.PasswordHash)
}

// DisplayName is the "last, first" form used as a post's author.
func (u *User) DisplayName() string {
	return fmt.Sprintf("%s, %s", u.LastName, u.FirstName)
}
