package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a plaintext secret with the configured bcrypt cost.
func HashSecret(secret string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(secret), cost)
}

// VerifySecret compares a plaintext secret against a stored bcrypt hash.
// A mismatch is (false, nil); an unreadable hash is ErrMalformedHash so the
// two are never confused upstream.
func VerifySecret(secret string, hash []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, newError(ReasonMalformedHash, "stored hash unreadable", err)
	}
}
