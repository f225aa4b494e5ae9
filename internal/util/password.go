package util

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades hash strength against login latency on mobile clients;
// the default cost makes cold-start logins noticeably slow.
const bcryptCost = 8

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
