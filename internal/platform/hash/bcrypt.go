// Package hash はパスワードの一方向ハッシュ化プリミティブを提供します。
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost はbcryptのワークファクターです。
const DefaultCost = 12

// Bcrypt hashes and verifies passwords using the bcrypt algorithm.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost. A non-positive cost
// falls back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash derives a salted digest from the plaintext password.
func (b *Bcrypt) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A malformed digest is
// treated as a mismatch, never an error.
func (b *Bcrypt) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
