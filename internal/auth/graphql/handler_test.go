package graphql_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "github.com/AlibekovAA/gql-user-auth/internal/auth/domain"
	authgraphql "github.com/AlibekovAA/gql-user-auth/internal/auth/graphql"
	"github.com/AlibekovAA/gql-user-auth/internal/auth/service"
	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	"github.com/AlibekovAA/gql-user-auth/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/gql-user-auth/internal/common/crypto"
	"github.com/AlibekovAA/gql-user-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	userdomain "github.com/AlibekovAA/gql-user-auth/internal/user/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockAuthService struct {
	signUpFunc         func(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error)
	signInFunc         func(ctx context.Context, req authdomain.SignInRequest) (string, error)
	changePasswordFunc func(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error)
	forgotPasswordFunc func(ctx context.Context, req authdomain.ForgotPasswordRequest) (string, error)
	resetPasswordFunc  func(ctx context.Context, req authdomain.ResetPasswordRequest) (userdomain.User, error)
	userExistsFunc     func(ctx context.Context, email string) (bool, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, req)
	}
	return userdomain.User{}, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, req authdomain.SignInRequest) (string, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, req)
	}
	return "", nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error) {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, req)
	}
	return userdomain.User{}, nil
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, req authdomain.ForgotPasswordRequest) (string, error) {
	if m.forgotPasswordFunc != nil {
		return m.forgotPasswordFunc(ctx, req)
	}
	return constants.ResetPasswordSentMessage, nil
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req authdomain.ResetPasswordRequest) (userdomain.User, error) {
	if m.resetPasswordFunc != nil {
		return m.resetPasswordFunc(ctx, req)
	}
	return userdomain.User{}, nil
}

func (m *mockAuthService) UserExists(ctx context.Context, email string) (bool, error) {
	if m.userExistsFunc != nil {
		return m.userExistsFunc(ctx, email)
	}
	return true, nil
}

type gqlError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []gqlError             `json:"errors"`
}

func newTestServer(t *testing.T, svc *mockAuthService) http.Handler {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, "test", "debug")
	resolver := authgraphql.NewResolver(svc, service.NewCredentialValidator(), log)
	handler, err := authgraphql.NewHandler(resolver, log, 5*time.Second)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	return jwtverify.OptionalMiddleware(testSecret, log)(handler)
}

func bearerFor(t *testing.T, email string) string {
	t.Helper()
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), time.Hour, clock.NewRealClock())
	token, err := issuer.SignAccessToken(email)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func doQuery(t *testing.T, h http.Handler, query string, variables map[string]interface{}, auth string) gqlResponse {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp gqlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func expectErrorCode(t *testing.T, resp gqlResponse, code string, status int) gqlError {
	t.Helper()
	if len(resp.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", resp.Errors)
	}
	got := resp.Errors[0]
	if got.Extensions["code"] != code {
		t.Errorf("expected code %s, got %v", code, got.Extensions["code"])
	}
	if got.Extensions["status"] != float64(status) {
		t.Errorf("expected status %d, got %v", status, got.Extensions["status"])
	}
	return got
}

const createUserMutation = `mutation($data: SignUpInput!) { createUser(data: $data) { id username email password } }`

func TestGraphQL_CreateUser_Success(t *testing.T) {
	svc := &mockAuthService{
		signUpFunc: func(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
			return userdomain.User{ID: 1, Username: req.Username, Email: req.Email, PasswordHash: "derived-hash", Salt: "salt"}, nil
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, createUserMutation, map[string]interface{}{
		"data": map[string]interface{}{"username": "alexbor", "email": "alex@mail.com", "password": "Alex123"},
	}, "")

	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	user := resp.Data["createUser"].(map[string]interface{})
	if user["id"] != "1" || user["username"] != "alexbor" || user["email"] != "alex@mail.com" {
		t.Errorf("unexpected user %+v", user)
	}
	if user["password"] == "Alex123" {
		t.Error("password field must not be plaintext")
	}
}

func TestGraphQL_CreateUser_ValidationFailure(t *testing.T) {
	called := false
	svc := &mockAuthService{
		signUpFunc: func(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
			called = true
			return userdomain.User{}, nil
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, createUserMutation, map[string]interface{}{
		"data": map[string]interface{}{"username": "alexbor", "email": "not-an-email", "password": "Alex123"},
	}, "")

	got := expectErrorCode(t, resp, "VALIDATION_FAILED", http.StatusBadRequest)
	fields, _ := got.Extensions["fields"].([]interface{})
	if len(fields) != 1 {
		t.Fatalf("expected one field error, got %v", got.Extensions["fields"])
	}
	field := fields[0].(map[string]interface{})
	if field["field"] != "email" || field["message"] != "email is invalid" {
		t.Errorf("unexpected field error %v", field)
	}
	if called {
		t.Error("service must not be called for invalid input")
	}
}

func TestGraphQL_CreateUser_DuplicateEmail(t *testing.T) {
	svc := &mockAuthService{
		signUpFunc: func(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error) {
			return userdomain.User{}, service.ErrDuplicateEmail
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, createUserMutation, map[string]interface{}{
		"data": map[string]interface{}{"username": "alexbor", "email": "alex@mail.com", "password": "Alex123"},
	}, "")
	expectErrorCode(t, resp, "DUPLICATE_EMAIL", http.StatusConflict)
}

func TestGraphQL_SignIn(t *testing.T) {
	svc := &mockAuthService{
		signInFunc: func(ctx context.Context, req authdomain.SignInRequest) (string, error) {
			if req.Password != "Alex123" {
				return "", service.ErrInvalidCredentials
			}
			return "signed-token", nil
		},
	}
	h := newTestServer(t, svc)
	query := `mutation($data: SignInInput!) { signIn(data: $data) }`

	resp := doQuery(t, h, query, map[string]interface{}{
		"data": map[string]interface{}{"email": "alex@mail.com", "password": "Alex123"},
	}, "")
	if len(resp.Errors) != 0 || resp.Data["signIn"] != "signed-token" {
		t.Fatalf("unexpected response %+v", resp)
	}

	resp = doQuery(t, h, query, map[string]interface{}{
		"data": map[string]interface{}{"email": "alex@mail.com", "password": "wrong"},
	}, "")
	expectErrorCode(t, resp, "INVALID_CREDENTIALS", http.StatusUnauthorized)
}

const changePasswordMutation = `mutation { changePassword(data: {password: "Alex123", newpassword: "NewPass1"}) { id email } }`

func TestGraphQL_ChangePassword_RequiresBearer(t *testing.T) {
	h := newTestServer(t, &mockAuthService{})

	resp := doQuery(t, h, changePasswordMutation, nil, "")
	expectErrorCode(t, resp, "UNAUTHENTICATED", http.StatusUnauthorized)

	resp = doQuery(t, h, changePasswordMutation, nil, "Bearer garbage")
	expectErrorCode(t, resp, "UNAUTHENTICATED", http.StatusUnauthorized)
}

func TestGraphQL_ChangePassword_UsesTokenEmail(t *testing.T) {
	var got authdomain.ChangePasswordRequest
	svc := &mockAuthService{
		changePasswordFunc: func(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error) {
			got = req
			return userdomain.User{ID: 9, Email: req.Email, Username: "alexbor", PasswordHash: "h"}, nil
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, changePasswordMutation, nil, bearerFor(t, "alex@mail.com"))
	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	if got.Email != "alex@mail.com" || got.Password != "Alex123" || got.NewPassword != "NewPass1" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestGraphQL_ChangePassword_UnknownSubject(t *testing.T) {
	svc := &mockAuthService{
		userExistsFunc: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, changePasswordMutation, nil, bearerFor(t, "gone@mail.com"))
	expectErrorCode(t, resp, "UNAUTHENTICATED", http.StatusUnauthorized)
}

func TestGraphQL_ForgotPassword(t *testing.T) {
	svc := &mockAuthService{
		forgotPasswordFunc: func(ctx context.Context, req authdomain.ForgotPasswordRequest) (string, error) {
			if req.Email == "ghost@mail.com" {
				return "", service.ErrEmailNotFound
			}
			return constants.ResetPasswordSentMessage, nil
		},
	}
	h := newTestServer(t, svc)
	query := `mutation($data: ForgotPasswordInput!) { forgotPassword(data: $data) }`

	resp := doQuery(t, h, query, map[string]interface{}{"data": map[string]interface{}{"email": "alex@mail.com"}}, "")
	if resp.Data["forgotPassword"] != constants.ResetPasswordSentMessage {
		t.Errorf("unexpected response %+v", resp)
	}

	resp = doQuery(t, h, query, map[string]interface{}{"data": map[string]interface{}{"email": "ghost@mail.com"}}, "")
	expectErrorCode(t, resp, "EMAIL_NOT_FOUND", http.StatusNotFound)
}

func TestGraphQL_SetPassword_ExpiredToken(t *testing.T) {
	svc := &mockAuthService{
		resetPasswordFunc: func(ctx context.Context, req authdomain.ResetPasswordRequest) (userdomain.User, error) {
			return userdomain.User{}, service.ErrResetTokenInvalidOrExpired
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, `mutation { setPassword(data: {token: "stale", newpassword: "NewPass1"}) { id } }`, nil, "")
	expectErrorCode(t, resp, "RESET_TOKEN_INVALID_OR_EXPIRED", http.StatusBadRequest)
}

func TestGraphQL_SetPassword_WeakPassword(t *testing.T) {
	h := newTestServer(t, &mockAuthService{})

	resp := doQuery(t, h, `mutation { setPassword(data: {token: "tok", newpassword: "weakpass"}) { id } }`, nil, "")
	got := expectErrorCode(t, resp, "VALIDATION_FAILED", http.StatusBadRequest)
	if !strings.Contains(toJSON(got.Extensions["fields"]), "password too weak") {
		t.Errorf("expected weak password message, got %v", got.Extensions["fields"])
	}
}

func TestGraphQL_InternalErrorHidesCause(t *testing.T) {
	svc := &mockAuthService{
		signInFunc: func(ctx context.Context, req authdomain.SignInRequest) (string, error) {
			return "", service.ErrInternal.WithCause(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
		},
	}
	h := newTestServer(t, svc)

	resp := doQuery(t, h, `mutation { signIn(data: {email: "alex@mail.com", password: "Alex123"}) }`, nil, "")
	got := expectErrorCode(t, resp, "INTERNAL_SERVER_ERROR", http.StatusInternalServerError)
	if strings.Contains(got.Message, "10.0.0.5") {
		t.Errorf("internal cause leaked: %q", got.Message)
	}
}

func TestGraphQL_HealthQuery(t *testing.T) {
	h := newTestServer(t, &mockAuthService{})
	resp := doQuery(t, h, `{ health }`, nil, "")
	if resp.Data["health"] != "ok" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestGraphQL_TransportErrors(t *testing.T) {
	h := newTestServer(t, &mockAuthService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":""}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty query, got %d", rec.Code)
	}
}

func toJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
