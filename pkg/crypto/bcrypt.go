package crypto

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var _ PasswordHandler = (*Bcrypt)(nil)

// Bcrypt verifies hashes carried over from the previous deployment, which
// stored bcrypt digests. New hashes should be argon2id.
type Bcrypt struct {
	Cost int
}

func NewBcrypt() *Bcrypt {
	return &Bcrypt{Cost: bcrypt.DefaultCost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// Hasher hashes with Primary and verifies with whichever handler matches the
// stored hash's prefix.
type Hasher struct {
	Primary *Argon2
	Legacy  *Bcrypt
}

var _ PasswordHandler = (*Hasher)(nil)

func NewHasher(primary *Argon2) *Hasher {
	return &Hasher{Primary: primary, Legacy: NewBcrypt()}
}

func (h *Hasher) Hash(password string) (string, error) {
	return h.Primary.Hash(password)
}

func (h *Hasher) Verify(password, hash string) (bool, error) {
	if isBcryptHash(hash) {
		if h.Legacy == nil {
			return false, ErrUnsupportedAlgorithm
		}
		return h.Legacy.Verify(password, hash)
	}
	return h.Primary.Verify(password, hash)
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
