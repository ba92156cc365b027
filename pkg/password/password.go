// Package password wraps bcrypt hashing so credential digests are
// produced and checked in exactly one place.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost balances hashing time against brute-force resistance.
const DefaultCost = 12

// Hasher produces and verifies one-way credential digests.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the default bcrypt cost.
func NewHasher() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// Hash generates a bcrypt digest of the given password.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the password matches the stored digest.
// bcrypt's comparison is constant-time with respect to the digest.
func (h *Hasher) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
