package graphql

import (
	"context"

	gql "github.com/graphql-go/graphql"

	authdomain "github.com/AlibekovAA/gql-user-auth/internal/auth/domain"
	"github.com/AlibekovAA/gql-user-auth/internal/auth/service"
	commonhttp "github.com/AlibekovAA/gql-user-auth/internal/common/http"
	"github.com/AlibekovAA/gql-user-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/common/mapper"
	"github.com/AlibekovAA/gql-user-auth/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/gql-user-auth/internal/user/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, req authdomain.SignUpRequest) (userdomain.User, error)
	SignIn(ctx context.Context, req authdomain.SignInRequest) (string, error)
	ChangePassword(ctx context.Context, req authdomain.ChangePasswordRequest) (userdomain.User, error)
	ForgotPassword(ctx context.Context, req authdomain.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req authdomain.ResetPasswordRequest) (userdomain.User, error)
	UserExists(ctx context.Context, email string) (bool, error)
}

type Resolver struct {
	auth      AuthService
	validator service.CredentialValidator
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewResolver(auth AuthService, validator service.CredentialValidator, log *logger.Logger) *Resolver {
	return &Resolver{
		auth:      auth,
		validator: validator,
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}
}

func (r *Resolver) health(p gql.ResolveParams) (interface{}, error) {
	return "ok", nil
}

func (r *Resolver) createUser(p gql.ResolveParams) (interface{}, error) {
	data := inputData(p)
	req := authdomain.SignUpRequest{
		Username: data.str("username"),
		Email:    data.str("email"),
		Password: data.str("password"),
	}
	if err := r.validator.Validate(req); err != nil {
		return nil, r.fail(p.Context, "createUser", err)
	}

	user, err := r.auth.SignUp(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "createUser", err)
	}
	return r.ok("createUser", mapper.UserToPayload(user))
}

func (r *Resolver) signIn(p gql.ResolveParams) (interface{}, error) {
	data := inputData(p)
	req := authdomain.SignInRequest{
		Email:    data.str("email"),
		Password: data.str("password"),
	}
	if err := r.validator.Validate(req); err != nil {
		return nil, r.fail(p.Context, "signIn", err)
	}

	token, err := r.auth.SignIn(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "signIn", err)
	}
	return r.ok("signIn", token)
}

func (r *Resolver) changePassword(p gql.ResolveParams) (interface{}, error) {
	email, err := r.caller(p.Context)
	if err != nil {
		return nil, r.fail(p.Context, "changePassword", err)
	}

	data := inputData(p)
	req := authdomain.ChangePasswordRequest{
		Email:       email,
		Password:    data.str("password"),
		NewPassword: data.str("newpassword"),
	}
	if err := r.validator.Validate(req); err != nil {
		return nil, r.fail(p.Context, "changePassword", err)
	}

	user, err := r.auth.ChangePassword(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "changePassword", err)
	}
	return r.ok("changePassword", mapper.UserToPayload(user))
}

func (r *Resolver) forgotPassword(p gql.ResolveParams) (interface{}, error) {
	req := authdomain.ForgotPasswordRequest{Email: inputData(p).str("email")}
	if err := r.validator.Validate(req); err != nil {
		return nil, r.fail(p.Context, "forgotPassword", err)
	}

	msg, err := r.auth.ForgotPassword(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "forgotPassword", err)
	}
	return r.ok("forgotPassword", msg)
}

func (r *Resolver) setPassword(p gql.ResolveParams) (interface{}, error) {
	data := inputData(p)
	req := authdomain.ResetPasswordRequest{
		Token:       data.str("token"),
		NewPassword: data.str("newpassword"),
	}
	if err := r.validator.Validate(req); err != nil {
		return nil, r.fail(p.Context, "setPassword", err)
	}

	user, err := r.auth.ResetPassword(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "setPassword", err)
	}
	return r.ok("setPassword", mapper.UserToPayload(user))
}

// caller resolves the authenticated email and checks it still belongs to an
// account.
func (r *Resolver) caller(ctx context.Context) (string, error) {
	if authErr := jwtverify.ErrorFromContext(ctx); authErr != nil {
		return "", service.ErrUnauthenticated.WithCause(authErr)
	}
	claims, ok := jwtverify.FromContext(ctx)
	if !ok {
		return "", service.ErrUnauthenticated
	}

	exists, err := r.auth.UserExists(ctx, claims.Email)
	if err != nil {
		return "", err
	}
	if !exists {
		r.log.WithFields(ctx, logger.Fields{
			"email":  claims.Email,
			"action": "bearer_unknown_subject",
		}).Warn("bearer token subject has no account")
		return "", service.ErrUnauthenticated
	}
	return claims.Email, nil
}

func (r *Resolver) ok(field string, v interface{}) (interface{}, error) {
	metrics.GraphQLOperationsTotal.WithLabelValues(field, "success").Inc()
	return v, nil
}

func (r *Resolver) fail(ctx context.Context, field string, err error) error {
	de := toDomainError(err)
	r.errors.ReportDomainError(ctx, de)
	metrics.GraphQLOperationsTotal.WithLabelValues(field, de.Code()).Inc()
	return &apiError{err: de}
}

type input map[string]interface{}

func inputData(p gql.ResolveParams) input {
	data, _ := p.Args["data"].(map[string]interface{})
	return input(data)
}

func (in input) str(key string) string {
	s, _ := in[key].(string)
	return s
}
