package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultIDLength = 12
	// MaxPasswordBytes is the most input bcrypt accepts.
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned for input bcrypt would reject.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(h), err
}

func ComparePassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// IsPasswordHashed reports whether stored looks like a bcrypt hash ($2a$, $2b$, $2y$).
func IsPasswordHashed(stored string) bool {
	if len(stored) < 4 {
		return false
	}
	switch stored[:4] {
	case "$2a$", "$2b$", "$2y$":
		return true
	}
	return false
}

// GenerateShortSecureID returns a url-safe random id of the given length,
// optionally prefixed as "<prefix>_<id>".
func GenerateShortSecureID(length int, prefix string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("id length must be positive, got %d", length)
	}

	buf := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random id: %w", err)
	}
	id := base64.RawURLEncoding.EncodeToString(buf)
	if len(id) > length {
		id = id[:length]
	}

	prefix = strings.Trim(strings.TrimSpace(prefix), "_")
	if prefix == "" {
		return id, nil
	}
	return prefix + "_" + id, nil
}
