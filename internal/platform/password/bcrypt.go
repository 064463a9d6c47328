// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and checks salted bcrypt hashes.
type Hasher struct {
	cost int
	// dummy is a hash at the same cost, compared against when no stored hash exists
	// so that a missing user costs the same as a wrong password.
	dummy []byte
}

// NewHasher returns a Hasher using cost. Out of range values fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// A 36-byte input is within bcrypt's limit, so this cannot fail.
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	return &Hasher{cost: cost, dummy: dummy}
}

// Hash returns a freshly salted hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether plaintext matches hash.
// An empty hash is compared against the dummy hash and always fails.
func (h *Hasher) Compare(hash, plaintext string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
