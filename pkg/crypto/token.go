package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	DefaultSecretLength = 48 // bytes, encodes to 64 characters
)

// GenerateSecret returns a random URL-safe string suitable as an HMAC
// signing secret. A non-positive byteLength uses DefaultSecretLength.
func GenerateSecret(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultSecretLength
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
