package security

import (
	"crypto/rand"
	"encoding/hex"
)

const sessionTokenBytes = 32 // 256 bits of entropy

// GenerateSessionToken returns an opaque bearer session token: 32 random
// bytes, hex-encoded. Tokens are resolved by store lookup, not decoded.
func GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
