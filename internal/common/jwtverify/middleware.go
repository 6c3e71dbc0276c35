package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/observability/metrics"
)

type Claims struct {
	Email string
	JTI   string
}

type contextKey string

const (
	claimsKey   contextKey = "jwt_claims"
	authErrKey  contextKey = "jwt_error"
	bearerScope            = "Bearer "
)

// OptionalMiddleware verifies a bearer token when one is sent and stores the
// claims, or the verification error, in the request context. Requests without
// a token pass through untouched; resolvers decide whether they need a caller.
func OptionalMiddleware(secret string, log *logger.Logger, opts ...jwt.ParserOption) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if !strings.HasPrefix(raw, bearerScope) {
				log.WithFields(ctx, logger.Fields{"path": r.URL.Path}).Warn("jwt auth failed: malformed authorization header")
				ctx = context.WithValue(ctx, authErrKey, commonerrors.ErrInvalidToken)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := ParseToken(strings.TrimPrefix(raw, bearerScope), secretBytes, opts...)
			if err != nil {
				log.WithFields(ctx, logger.Fields{"path": r.URL.Path}).Warnf("jwt auth failed: %v", err)
				ctx = context.WithValue(ctx, authErrKey, err)
			} else {
				ctx = context.WithValue(ctx, claimsKey, claims)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// ErrorFromContext returns the verification failure for a request whose
// bearer token was rejected.
func ErrorFromContext(ctx context.Context) error {
	err, _ := ctx.Value(authErrKey).(error)
	return err
}

func ParseToken(tokenString string, secret []byte, opts ...jwt.ParserOption) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := parseToken(tokenString, secret, opts...)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, err
	}
	return claims, nil
}

func parseToken(tokenString string, secret []byte, opts ...jwt.ParserOption) (Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidTokenClaims
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}
	jti, _ := mapClaims["jti"].(string)

	return Claims{Email: sub, JTI: jti}, nil
}
