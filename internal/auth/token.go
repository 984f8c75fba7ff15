package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	TokenLength        = 32
	TokenPrefix        = "an_"
	DefaultTokenExpiry = 30 * 24 * time.Hour
)

// GenerateToken creates a new random bearer token. The plaintext is handed
// to the client exactly once; only the hash is stored.
func GenerateToken() (plaintext, hash string, err error) {
	randomBytes := make([]byte, TokenLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plaintext = TokenPrefix + base64.RawURLEncoding.EncodeToString(randomBytes)
	return plaintext, HashToken(plaintext), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token, the form
// stored in the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidTokenFormat reports whether a presented token has the expected
// prefix and decodes to the right length. Cheap rejection before any
// database lookup.
func ValidTokenFormat(token string) bool {
	if !strings.HasPrefix(token, TokenPrefix) {
		return false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, TokenPrefix))
	if err != nil {
		return false
	}
	return len(decoded) == TokenLength
}
