package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// ErrEmptySecret is returned when asked to hash an empty password.
var ErrEmptySecret = errors.New("empty secret")

// bcrypt hashes are recognised by their version prefix.
var hashPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Hasher hashes and verifies account secrets.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher, falling back to DefaultBcryptCost for out-of-range costs.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plaintext password with the configured cost.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptySecret
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hashed. Only a mismatch yields (false, nil).
func (h *BcryptHasher) Verify(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// IsHashed reports whether secret already carries a bcrypt prefix.
func IsHashed(secret string) bool {
	for _, prefix := range hashPrefixes {
		if strings.HasPrefix(secret, prefix) {
			return true
		}
	}
	return false
}

// EnsureHashed hashes secret unless it is already a hash.
func EnsureHashed(h Hasher, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if IsHashed(secret) {
		return secret, nil
	}
	return h.Hash(secret)
}
