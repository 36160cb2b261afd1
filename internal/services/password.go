package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

var (
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
	ErrInvalidHashCost = errors.New("bcrypt cost out of range")
)

// PasswordOptions controls how account passwords are persisted.
// With Hash unset passwords are stored exactly as submitted.
type PasswordOptions struct {
	Hash bool
	Cost int
}

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", ErrInvalidHashCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
