package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ResetTokenLength is the length of the hex encoded token mailed to principals.
const ResetTokenLength = resetTokenBytes * 2

const resetTokenBytes = 8

// NewResetToken returns a random hex token suitable for a password-reset link.
func NewResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken returns the bcrypt hash persisted in place of the raw token.
func HashResetToken(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("reset token cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash reset token: %w", err)
	}
	return string(hash), nil
}

// CompareResetToken reports whether raw matches the stored hash. A malformed
// hash is an error; a plain mismatch is not.
func CompareResetToken(hash, raw string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
