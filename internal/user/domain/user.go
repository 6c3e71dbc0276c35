package domain

import (
	"time"

	"github.com/AlibekovAA/gql-user-auth/internal/common/crypto"
)

type ID int64

// User is one account row. PasswordHash is always derived from the plaintext
// and Salt by the configured PasswordHasher.
type User struct {
	ID                   ID
	Email                string
	Username             string
	PasswordHash         string
	Salt                 string
	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time
}

// ValidatePassword re-derives the hash of candidate with the stored salt and
// compares it with the stored hash.
func (u User) ValidatePassword(hasher crypto.PasswordHasher, candidate string) bool {
	if u.Salt == "" || u.PasswordHash == "" {
		return false
	}
	hash, err := hasher.Hash(candidate, u.Salt)
	if err != nil {
		return false
	}
	return crypto.EqualHashes(hash, u.PasswordHash)
}

// HasActiveResetToken reports whether a reset token is set and still valid at now.
func (u User) HasActiveResetToken(now time.Time) bool {
	return u.ResetPasswordToken != nil && u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
}

func (u *User) SetResetToken(token string, expires time.Time) {
	u.ResetPasswordToken = &token
	u.ResetPasswordExpires = &expires
}

func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}
