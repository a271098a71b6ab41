// Package apikey implements the service-to-service credential: a random key
// handed out once, stored only as a bcrypt hash.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const keyBytes = 32

// Generate returns a fresh key and its bcrypt hash. The plain key is shown to
// the operator once; only the hash is configured on the server.
func Generate() (key, hash string, err error) {
	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate api key: %w", err)
	}
	key = hex.EncodeToString(raw)
	hash, err = Hash(key)
	if err != nil {
		return "", "", err
	}
	return key, hash, nil
}

// Hash bcrypt-hashes a key for storage.
func Hash(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(h), nil
}

// Verify reports whether key matches the stored hash.
func Verify(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
