package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AlibekovAA/gql-user-auth/internal/auth/credentials"
	authdomain "github.com/AlibekovAA/gql-user-auth/internal/auth/domain"
	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	"github.com/AlibekovAA/gql-user-auth/internal/common/constants"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/mail"
	userdomain "github.com/AlibekovAA/gql-user-auth/internal/user/domain"
)

// CredentialStore is the subset of credentials.Store the service drives.
type CredentialStore interface {
	SignUp(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error)
	FindByEmail(ctx context.Context, email string) (userdomain.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (userdomain.User, error)
	ValidateCredentials(ctx context.Context, email, password string) (string, bool, error)
	ChangePassword(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error)
	SetPassword(user userdomain.User, newPassword string) (userdomain.User, error)
	IssueResetToken(ctx context.Context, user userdomain.User, token string, expires time.Time) (userdomain.User, error)
	SavePassword(ctx context.Context, user userdomain.User) (userdomain.User, error)
}

type Tokens interface {
	SignAccessToken(email string) (string, error)
	GenerateResetToken() (string, error)
}

type AuthServiceDeps struct {
	Store  CredentialStore
	Tokens Tokens
	Mailer mail.Mailer
	Clock  clock.Clock
	Log    *logger.Logger
}

type AuthServiceConfig struct {
	ResetTokenTTL time.Duration
	ResetURLBase  string
}

type AuthService struct {
	store         CredentialStore
	tokens        Tokens
	mailer        mail.Mailer
	clock         clock.Clock
	log           *logger.Logger
	resetTokenTTL time.Duration
	resetURLBase  string
}

func NewAuthService(deps AuthServiceDeps, config AuthServiceConfig) *AuthService {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = constants.DefaultResetTokenTTL
	}
	if config.ResetURLBase == "" {
		config.ResetURLBase = constants.DefaultResetURLBase
	}
	return &AuthService{
		store:         deps.Store,
		tokens:        deps.Tokens,
		mailer:        deps.Mailer,
		clock:         deps.Clock,
		log:           deps.Log,
		resetTokenTTL: config.ResetTokenTTL,
		resetURLBase:  strings.TrimRight(config.ResetURLBase, "/"),
	}
}

func (s *AuthService) SignUp(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  req.Email,
		"action": "sign_up_attempt",
	}).Info("sign up attempt")

	user, err := s.store.SignUp(ctx, req)
	if err != nil {
		if errors.Is(err, credentials.ErrDuplicateEmail) {
			recordSignUp(resultFailure)
			s.log.WithFields(ctx, logger.Fields{
				"email":  req.Email,
				"action": "sign_up_duplicate_email",
			}).Warn("sign up failed: email already exists")
			return userdomain.User{}, ErrDuplicateEmail
		}
		recordSignUp(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "sign_up_failed",
		}).Errorf("sign up failed: %v", err)
		return userdomain.User{}, internalError(err)
	}

	recordSignUp(resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": int64(user.ID),
		"action":  "sign_up_success",
	}).Info("user signed up")
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, req authdomain.SignInRequest) (string, error) {
	email, ok, err := s.store.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		recordSignIn(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "sign_in_failed",
		}).Errorf("sign in failed: %v", err)
		return "", internalError(err)
	}
	if !ok {
		recordSignIn(resultFailure)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "sign_in_invalid_credentials",
		}).Warn("sign in failed: invalid credentials")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.SignAccessToken(email)
	if err != nil {
		recordSignIn(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "sign_in_token_failed",
		}).Errorf("sign in failed: token error: %v", err)
		return "", internalError(err)
	}

	recordSignIn(resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "sign_in_success",
	}).Info("user signed in")
	return token, nil
}

// ChangePassword checks the current password first; the store then loads the
// user again to apply the new one.
func (s *AuthService) ChangePassword(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error) {
	email, ok, err := s.store.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		recordPasswordChange(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "change_password_failed",
		}).Errorf("change password failed: %v", err)
		return userdomain.User{}, internalError(err)
	}
	if !ok {
		recordPasswordChange(resultFailure)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "change_password_invalid_credentials",
		}).Warn("change password failed: invalid credentials")
		return userdomain.User{}, ErrInvalidCredentials
	}

	req.Email = email
	user, err := s.store.ChangePassword(ctx, req)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			recordPasswordChange(resultFailure)
			return userdomain.User{}, ErrInvalidCredentials
		}
		recordPasswordChange(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "change_password_failed",
		}).Errorf("change password failed: %v", err)
		return userdomain.User{}, internalError(err)
	}

	recordPasswordChange(resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "change_password_success",
	}).Info("password changed")
	return user, nil
}

// ForgotPassword persists a fresh reset token and then mails the link. A
// failed send leaves the stored token in place.
func (s *AuthService) ForgotPassword(ctx context.Context, req authdomain.ForgotPasswordRequest) (string, error) {
	user, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			recordResetEmail(resultFailure)
			s.log.WithFields(ctx, logger.Fields{
				"email":  req.Email,
				"action": "forgot_password_unknown_email",
			}).Warn("forgot password failed: email not found")
			return "", ErrEmailNotFound
		}
		recordResetEmail(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "forgot_password_lookup_failed",
		}).Errorf("forgot password failed: %v", err)
		return "", internalError(err)
	}

	token, err := s.tokens.GenerateResetToken()
	if err != nil {
		recordResetEmail(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  user.Email,
			"action": "forgot_password_token_failed",
		}).Errorf("forgot password failed: token error: %v", err)
		return "", internalError(err)
	}

	expires := s.clock.Now().Add(s.resetTokenTTL)
	user, err = s.store.IssueResetToken(ctx, user, token, expires)
	if err != nil {
		recordResetEmail(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "forgot_password_save_failed",
		}).Errorf("forgot password failed: %v", err)
		return "", internalError(err)
	}

	if err := s.mailer.SendResetLink(ctx, user.Email, s.resetLink(token)); err != nil {
		recordResetEmail(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  user.Email,
			"action": "forgot_password_send_failed",
		}).Errorf("forgot password failed: %v", err)
		return "", internalError(err)
	}

	recordResetEmail(resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"email":  user.Email,
		"action": "forgot_password_sent",
	}).Info("reset link sent")
	return constants.ResetPasswordSentMessage, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req authdomain.ResetPasswordRequest) (userdomain.User, error) {
	user, err := s.store.FindByResetToken(ctx, req.Token, s.clock.Now())
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			recordPasswordReset(resultFailure)
			s.log.WithFields(ctx, logger.Fields{
				"action": "reset_password_invalid_token",
			}).Warn("reset password failed: token invalid or expired")
			return userdomain.User{}, ErrResetTokenInvalidOrExpired
		}
		recordPasswordReset(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"action": "reset_password_lookup_failed",
		}).Errorf("reset password failed: %v", err)
		return userdomain.User{}, internalError(err)
	}

	updated, err := s.store.SetPassword(user, req.NewPassword)
	if err != nil {
		recordPasswordReset(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  user.Email,
			"action": "reset_password_hash_failed",
		}).Errorf("reset password failed: %v", err)
		return userdomain.User{}, internalError(err)
	}

	saved, err := s.store.SavePassword(ctx, updated)
	if err != nil {
		recordPasswordReset(resultError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  user.Email,
			"action": "reset_password_save_failed",
		}).Errorf("reset password failed: %v", err)
		return userdomain.User{}, internalError(err)
	}

	recordPasswordReset(resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"email":  saved.Email,
		"action": "reset_password_success",
	}).Info("password reset")
	return saved, nil
}

// UserExists backs bearer-token checks: a token whose subject no longer maps
// to an account is rejected.
func (s *AuthService) UserExists(ctx context.Context, email string) (bool, error) {
	_, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return false, nil
		}
		return false, internalError(err)
	}
	return true, nil
}

func (s *AuthService) resetLink(token string) string {
	return s.resetURLBase + "/" + token
}
