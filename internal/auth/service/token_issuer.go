package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	"github.com/AlibekovAA/gql-user-auth/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/gql-user-auth/internal/common/crypto"
	"github.com/AlibekovAA/gql-user-auth/internal/common/jwtverify"
)

type TokenIssuer struct {
	jwtSecret      []byte
	idGenerator    commoncrypto.IDGenerator
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	accessTokenTTL time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	if accessTokenTTL <= 0 {
		accessTokenTTL = constants.DefaultAccessTokenTTL
	}
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		idGenerator:    idGenerator,
		clock:          clock,
		accessTokenTTL: accessTokenTTL,
	}
}

func (ti *TokenIssuer) SignAccessToken(email string) (string, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(ti.accessTokenTTL).Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret, jwt.WithTimeFunc(ti.clock.Now))
}

// GenerateResetToken returns 256 bits from crypto/rand, base64url encoded.
// It shares nothing with the signing secret.
func (ti *TokenIssuer) GenerateResetToken() (string, error) {
	token, err := commoncrypto.RandomToken(constants.ResetTokenSize)
	if err != nil {
		return "", err
	}
	incrementResetTokensIssued()
	return token, nil
}
