package account

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"
)

type Account struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ID string

// Changes holds the fields of an update. A nil field is left untouched.
type Changes struct {
	Name,
	Email,
	PasswordHash *string
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil
}

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrExistingEmail      = errors.New("email in use")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidID          = errors.New("invalid account id")
)

//NewAccount checks that name and email are present and returns a new Account
// without an ID or password hash
func NewAccount(name string, email string) (*Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrMissingFields
	}

	return &Account{Name: name, Email: email}, nil
}

// apply merges c into acc and bumps UpdatedAt.
func (acc *Account) apply(c Changes, now time.Time) {
	if c.Name != nil {
		acc.Name = *c.Name
	}
	if c.Email != nil {
		acc.Email = *c.Email
	}
	if c.PasswordHash != nil {
		acc.PasswordHash = *c.PasswordHash
	}
	acc.UpdatedAt = now
}

func NewID() ID {
	return ID(xid.New().String())
}

//IsValidID checks if a given id is valid based on the xid library definition of a valid id
func IsValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}
