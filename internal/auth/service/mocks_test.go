package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/AlibekovAA/gql-user-auth/internal/auth/credentials"
	authdomain "github.com/AlibekovAA/gql-user-auth/internal/auth/domain"
	userdomain "github.com/AlibekovAA/gql-user-auth/internal/user/domain"
)

type mockStore struct {
	signUpFunc              func(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error)
	findByEmailFunc         func(ctx context.Context, email string) (userdomain.User, error)
	findByResetTokenFunc    func(ctx context.Context, token string, now time.Time) (userdomain.User, error)
	validateCredentialsFunc func(ctx context.Context, email, password string) (string, bool, error)
	changePasswordFunc      func(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error)
	setPasswordFunc         func(user userdomain.User, newPassword string) (userdomain.User, error)
	issueResetTokenFunc     func(ctx context.Context, user userdomain.User, token string, expires time.Time) (userdomain.User, error)
	savePasswordFunc        func(ctx context.Context, user userdomain.User) (userdomain.User, error)

	mu    sync.Mutex
	saved []userdomain.User
}

func (m *mockStore) SignUp(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, req)
	}
	return userdomain.User{}, nil
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, credentials.ErrNotFound
}

func (m *mockStore) FindByResetToken(ctx context.Context, token string, now time.Time) (userdomain.User, error) {
	if m.findByResetTokenFunc != nil {
		return m.findByResetTokenFunc(ctx, token, now)
	}
	return userdomain.User{}, credentials.ErrNotFound
}

func (m *mockStore) ValidateCredentials(ctx context.Context, email, password string) (string, bool, error) {
	if m.validateCredentialsFunc != nil {
		return m.validateCredentialsFunc(ctx, email, password)
	}
	return "", false, nil
}

func (m *mockStore) ChangePassword(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error) {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, req)
	}
	return userdomain.User{}, nil
}

func (m *mockStore) SetPassword(user userdomain.User, newPassword string) (userdomain.User, error) {
	if m.setPasswordFunc != nil {
		return m.setPasswordFunc(user, newPassword)
	}
	user.PasswordHash = "hashed:" + newPassword
	user.ClearResetToken()
	return user, nil
}

func (m *mockStore) IssueResetToken(ctx context.Context, user userdomain.User, token string, expires time.Time) (userdomain.User, error) {
	user.SetResetToken(token, expires)
	m.record(user)
	if m.issueResetTokenFunc != nil {
		return m.issueResetTokenFunc(ctx, user, token, expires)
	}
	return user, nil
}

func (m *mockStore) SavePassword(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	m.record(user)
	if m.savePasswordFunc != nil {
		return m.savePasswordFunc(ctx, user)
	}
	return user, nil
}

func (m *mockStore) record(user userdomain.User) {
	m.mu.Lock()
	m.saved = append(m.saved, user)
	m.mu.Unlock()
}

type mockTokens struct {
	signAccessTokenFunc    func(email string) (string, error)
	generateResetTokenFunc func() (string, error)
}

func (m *mockTokens) SignAccessToken(email string) (string, error) {
	if m.signAccessTokenFunc != nil {
		return m.signAccessTokenFunc(email)
	}
	return "access-token-for-" + email, nil
}

func (m *mockTokens) GenerateResetToken() (string, error) {
	if m.generateResetTokenFunc != nil {
		return m.generateResetTokenFunc()
	}
	return "reset-token", nil
}

type sentMail struct {
	to   string
	link string
}

type mockMailer struct {
	sendFunc func(ctx context.Context, to, link string) error

	mu   sync.Mutex
	sent []sentMail
}

func (m *mockMailer) SendResetLink(ctx context.Context, to, link string) error {
	m.mu.Lock()
	m.sent = append(m.sent, sentMail{to: to, link: link})
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, to, link)
	}
	return nil
}
