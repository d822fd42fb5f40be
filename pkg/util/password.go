package util

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BCryptCost matches the salt rounds the LMS uses in its pre-save hook
const BCryptCost = 10

// HashPassword hashes a plaintext password using bcrypt.
// Values that already look like a bcrypt hash are returned unchanged.
func HashPassword(password string) (string, error) {
	if IsBcryptHash(password) {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with its hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsBcryptHash reports whether s has the shape of a bcrypt hash.
func IsBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
