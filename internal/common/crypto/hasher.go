package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var ErrInvalidSalt = errors.New("invalid password salt")

// PasswordHasher derives a deterministic hash from a password and a separately
// stored salt, so that the hash can be re-derived for verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(password, salt string) (string, error)
}

type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

var DefaultArgon2Params = Argon2Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params}
}

func (h *Argon2Hasher) GenerateSalt() (string, error) {
	return RandomToken(h.params.SaltLen)
}

func (h *Argon2Hasher) Hash(password, salt string) (string, error) {
	rawSalt, err := base64.RawURLEncoding.DecodeString(salt)
	if err != nil || len(rawSalt) == 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}

	key := argon2.IDKey([]byte(password), rawSalt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// EqualHashes compares two encoded hashes without an early exit on the first
// differing byte.
func EqualHashes(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RandomToken returns size bytes from crypto/rand encoded as unpadded base64url.
func RandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
