package auth

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default work factor for bcrypt hashing.
	DefaultBcryptCost = 10

	// BcryptCostEnv overrides the work factor. Read once at construction.
	BcryptCostEnv = "BCRYPT_COST"
)

// PasswordHasher provides password hashing and verification functionality.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the cost from the
// environment, falling back to DefaultBcryptCost.
func NewPasswordHasher() *PasswordHasher {
	cost := DefaultBcryptCost
	if v := os.Getenv(BcryptCostEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			cost = n
		}
	}
	return &PasswordHasher{
		cost: cost,
	}
}

// Hash generates a salted bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash.
// An empty password or an empty hash verifies as false without
// invoking bcrypt.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
