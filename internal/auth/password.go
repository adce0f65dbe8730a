// Package auth — password hashing utilities.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, and that slowness is the security feature: it
// makes offline brute-force expensive. It also generates and embeds a random
// salt per hash, so identical passwords produce different hashes and no
// separate salt column is needed.
//
// Never store passwords in plain text or behind fast hashes (MD5, SHA-256);
// those fall to GPU rigs in minutes. bcrypt at cost 12 takes ~250ms per
// attempt — fine for a login, ruinous for an attacker.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 lands around 250ms on
// current server hardware; tune so hashing stays in the 200-300ms range.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification. The cost lives
// in a struct field so tests can run with a cheap one.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest uses bcrypt.MinCost so test suites don't pay
// ~250ms per hash. Never use in production.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash hashes the plaintext with bcrypt. The output is self-contained
// (version, cost, salt, digest) and is stored directly in the database.
//
// Plaintexts longer than 72 bytes are rejected: bcrypt would silently
// truncate them, which surprises callers.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. Returns nil on
// match. bcrypt compares in constant time, so response timing reveals
// nothing about how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
