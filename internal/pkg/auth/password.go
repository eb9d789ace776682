package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the identity provider's hashing cost so the seeded admin
// account verifies there like any other.
const BcryptCost = 12

// HashPassword hashes a plaintext password. Only used when seeding the default
// admin; regular credential handling lives in the identity provider.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
