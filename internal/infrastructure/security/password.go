package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
	scheme       = "scrypt"
)

var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordHasher stores passwords as "scrypt$<salt b64>$<hash b64>".
// Older bcrypt hashes still verify.
type PasswordHasher struct{}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	enc := base64.StdEncoding
	return scheme + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(derived), nil
}

// Compare returns nil when password matches hash. Unknown formats never
// match.
func (h *PasswordHasher) Compare(hash, password string) error {
	if strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$") {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 3 || parts[0] != scheme || parts[1] == "" || parts[2] == "" {
		return ErrPasswordMismatch
	}
	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrPasswordMismatch
	}
	expected, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return ErrPasswordMismatch
	}
	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(expected))
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(expected, derived) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
