package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor for newly stored credentials.
const HashCost = 12

// PasswordHasher hashes plaintext passwords and verifies candidates against
// stored hashes. It also holds a precomputed, structurally valid dummy hash
// so that a login attempt against an unknown username burns the same bcrypt
// cost as one against a real account.
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher precomputes the dummy hash. The only failure mode is the
// process RNG, which the caller should treat as fatal.
func NewPasswordHasher() (*PasswordHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("nexus.timing.safety.dummy"), HashCost)
	if err != nil {
		return nil, fmt.Errorf("precomputing dummy hash: %w", err)
	}
	return &PasswordHasher{cost: HashCost, dummyHash: dummy}, nil
}

// Hash derives a salted bcrypt hash from the plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether hash was derived from plaintext. bcrypt itself
// guarantees the comparison does not leak the mismatch position.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyDummy runs a full bcrypt comparison against the dummy hash and
// always reports a mismatch. Called when no stored hash exists for a
// submitted username, keeping "unknown user" and "known user, wrong
// password" latencies indistinguishable.
func (h *PasswordHasher) VerifyDummy(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plaintext))
	return false
}
