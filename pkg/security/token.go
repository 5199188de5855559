package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const inviteTokenBytes = 32

// GenerateInviteToken returns a URL-safe single-use secret. The plaintext is
// handed to the caller exactly once; only its hash is ever persisted.
func GenerateInviteToken() (string, error) {
	raw := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashInviteToken derives the deterministic lookup hash for a token. SHA-256
// keeps the mapping collision-resistant while allowing an exact-match lookup
// at acceptance time.
func HashInviteToken(tokenPlain string) string {
	sum := sha256.Sum256([]byte(tokenPlain))
	return hex.EncodeToString(sum[:])
}
