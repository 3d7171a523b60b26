package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest accepted trip passphrase.
const MinSecretLength = 4

var (
	ErrWeakSecret  = errors.New("join secret must be at least 4 characters")
	ErrWrongSecret = errors.New("join secret does not match")
)

// HashSecret hashes a trip join passphrase with bcrypt.
func HashSecret(secret string) (string, error) {
	if len(secret) < MinSecretLength {
		return "", ErrWeakSecret
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash join secret: %w", err)
	}
	return string(hashed), nil
}

// CompareSecret checks a passphrase against its hash.
func CompareSecret(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrWrongSecret
	}
	return nil
}
