// Package secrets wraps the one-way password hashing primitive. Callers treat
// hashes as opaque; the salt lives inside the encoded value.
package secrets

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

// hashCost is fixed for interactive-latency registration. Not configurable
// per call.
const hashCost = 10

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct{}

// Hash creates a bcrypt hash of the provided password.
func (BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks if a plaintext password matches a bcrypt hash.
func (BcryptHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeValidation, "invalid password")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}
