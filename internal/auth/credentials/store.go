package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "github.com/AlibekovAA/gql-user-auth/internal/auth/domain"
	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
	"github.com/AlibekovAA/gql-user-auth/internal/common/crypto"
	userdomain "github.com/AlibekovAA/gql-user-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/gql-user-auth/internal/user/repository"
)

var (
	ErrNotFound       = userrepo.ErrUserNotFound
	ErrDuplicateEmail = userrepo.ErrEmailAlreadyExists
	ErrPersistence    = commonerrors.ErrDatabaseError
)

// Store owns user records and password hashing. It never sees plaintext
// passwords beyond the call that hashes them.
type Store struct {
	repo   userrepo.Repository
	hasher crypto.PasswordHasher
}

func NewStore(repo userrepo.Repository, hasher crypto.PasswordHasher) *Store {
	return &Store{repo: repo, hasher: hasher}
}

func (s *Store) SignUp(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
	salt, hash, err := s.newCredentials(req.Password)
	if err != nil {
		return userdomain.User{}, err
	}

	created, err := s.repo.Create(ctx, userdomain.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Salt:         salt,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return userdomain.User{}, ErrDuplicateEmail.WithCause(err)
		}
		return userdomain.User{}, persistenceError(err)
	}
	return created, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return userdomain.User{}, lookupError(err)
	}
	return user, nil
}

// FindByResetToken returns ErrNotFound both for unknown tokens and for tokens
// whose expiry is not after now.
func (s *Store) FindByResetToken(ctx context.Context, token string, now time.Time) (userdomain.User, error) {
	if token == "" {
		return userdomain.User{}, ErrNotFound
	}
	user, err := s.repo.FindByResetToken(ctx, token, now)
	if err != nil {
		return userdomain.User{}, lookupError(err)
	}
	if !user.HasActiveResetToken(now) || *user.ResetPasswordToken != token {
		return userdomain.User{}, ErrNotFound
	}
	return user, nil
}

// ValidateCredentials returns the account email and true when the password
// matches. Unknown email and wrong password both yield ("", false, nil); the
// error is reserved for infrastructure failures.
func (s *Store) ValidateCredentials(ctx context.Context, email, password string) (string, bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, persistenceError(err)
	}
	if !user.ValidatePassword(s.hasher, password) {
		return "", false, nil
	}
	return user.Email, true, nil
}

func (s *Store) ChangePassword(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error) {
	user, err := s.FindByEmail(ctx, req.Email)
	if err != nil {
		return userdomain.User{}, err
	}

	user, err = s.SetPassword(user, req.NewPassword)
	if err != nil {
		return userdomain.User{}, err
	}
	return s.SavePassword(ctx, user)
}

// SetPassword replaces salt and hash and clears any reset token on the
// returned value. Nothing is persisted.
func (s *Store) SetPassword(user userdomain.User, newPassword string) (userdomain.User, error) {
	salt, hash, err := s.newCredentials(newPassword)
	if err != nil {
		return userdomain.User{}, err
	}
	user.Salt = salt
	user.PasswordHash = hash
	user.ClearResetToken()
	return user, nil
}

// IssueResetToken stores token and its expiry for user. Only the reset columns
// are written, so a password changed since user was loaded is kept.
func (s *Store) IssueResetToken(ctx context.Context, user userdomain.User, token string, expires time.Time) (userdomain.User, error) {
	if err := s.repo.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return userdomain.User{}, lookupError(err)
	}
	user.SetResetToken(token, expires)
	return user, nil
}

// SavePassword persists the salt and hash of user and clears its reset token.
func (s *Store) SavePassword(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if err := s.repo.UpdatePassword(ctx, user.ID, user.PasswordHash, user.Salt); err != nil {
		return userdomain.User{}, lookupError(err)
	}
	user.ClearResetToken()
	return user, nil
}

func (s *Store) HashPassword(password, salt string) (string, error) {
	return s.hasher.Hash(password, salt)
}

func (s *Store) newCredentials(password string) (string, string, error) {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.HashPassword(password, salt)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return salt, hash, nil
}

func lookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return persistenceError(err)
}

func persistenceError(err error) error {
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return ErrPersistence.WithCause(err)
}
