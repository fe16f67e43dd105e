package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// DefaultCredentialBytes is the entropy used for generated credentials.
// 24 bytes encodes to a 32-character URL-safe string.
const DefaultCredentialBytes = 24

// GenerateCredential returns a random URL-safe credential string with n bytes
// of entropy. It is used for database passwords and application master
// passwords written into the generated configuration.
func GenerateCredential(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("credential entropy must be positive, got %d", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// StableID derives a short deterministic identifier from a name. It is used
// where the same input must always map to the same resource ID, such as
// container snapshot names.
func StableID(name string) string {
	hash := sha256.Sum256([]byte(name))
	return base64.RawURLEncoding.EncodeToString(hash[:12])
}
