package wager

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const identifierBytes = 16

// NewIdentifier returns 128 bits of randomness in unpadded URL-safe base64.
func NewIdentifier() (string, error) {
	buf := make([]byte, identifierBytes)
	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
