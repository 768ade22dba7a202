package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword digests plaintext with bcrypt. Each call draws a fresh salt.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches storedDigest. A mismatch is
// false with a nil error; only a corrupt digest is reported as an error.
func VerifyPassword(plaintext, storedDigest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedDigest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
