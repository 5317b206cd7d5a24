package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// GenerateRandomBytes returns securely generated random bytes.
// It will return an error if the system's secure random
// number generator fails to function correctly, in which
// case the caller should not continue
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateRandomString returns a URL-safe random string of exactly s characters.
func GenerateRandomString(s int) (string, error) {
	if s <= 0 {
		return "", errors.New("random string length must be positive")
	}

	// base64 yields 4 chars for every 3 bytes
	b, err := GenerateRandomBytes((s*3)/4 + 3)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:s], nil
}
