package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades login latency for brute-force resistance. 12 puts a
// single hash in the hundreds of milliseconds on current hardware.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The salt is baked
// into the output. The plaintext is never logged or stored.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// A malformed stored hash yields false rather than an error so callers
// cannot distinguish "bad password" from "corrupt record".
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
