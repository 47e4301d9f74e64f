package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockroom-dev/stockroom/internal/assert"
)

// PasswordCost is the bcrypt work factor for new hashes.
const PasswordCost = 10

// hashLength is the size of a bcrypt hash in its modular crypt encoding.
const hashLength = 60

// ErrPasswordMismatch is returned when a password does not match its hash.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	assert.Length(string(hash), hashLength)
	return string(hash), nil
}

// VerifyPassword compares password against a stored bcrypt hash in constant time.
// A mismatch is ErrPasswordMismatch; anything else (corrupt hash) is returned wrapped.
func VerifyPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("failed to compare password: %w", err)
	}
}
