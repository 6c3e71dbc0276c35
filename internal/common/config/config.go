package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/AlibekovAA/gql-user-auth/internal/common/constants"
	commonerrors "github.com/AlibekovAA/gql-user-auth/internal/common/errors"
)

var (
	ErrMissingRequiredEnv = commonerrors.ErrMissingRequiredEnv
	ErrInvalidJWTSecret   = commonerrors.ErrInvalidJWTSecret
)

type SMTPConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"465"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	SSL      bool   `env:"SSL" envDefault:"true"`
}

type AuthConfig struct {
	HTTPPort       string        `env:"AUTH_HTTP_PORT" envDefault:"8081"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	JWTSecret      string        `env:"JWT_SECRET"`
	ConfigFile     string        `env:"CONFIG_FILE"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`
	ResetTokenTTL  time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
	ResetURLBase   string        `env:"RESET_URL_BASE" envDefault:"http://localhost:3000/user/reset"`
	MailFrom       string        `env:"MAIL_FROM"`
	SMTP           SMTPConfig    `envPrefix:"SMTP_"`
	RequestTimeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"30s"`

	ResetSweepInterval time.Duration `env:"RESET_TOKEN_SWEEP_INTERVAL" envDefault:"1h"`

	CircuitBreakerThreshold int32         `env:"CIRCUIT_BREAKER_THRESHOLD" envDefault:"500"`
	CircuitBreakerTimeout   time.Duration `env:"CIRCUIT_BREAKER_TIMEOUT" envDefault:"15s"`
	CircuitBreakerReset     time.Duration `env:"CIRCUIT_BREAKER_RESET" envDefault:"10s"`
}

// fileConfig mirrors the optional JSON config file.
type fileConfig struct {
	JWT struct {
		Secret    string `json:"secret"`
		ExpiresIn int64  `json:"expiresIn"`
	} `json:"jwt"`
}

// LoadAuthConfig reads the environment. The JWT secret and token lifetime fall
// back to CONFIG_FILE when the environment does not set them.
func LoadAuthConfig() (AuthConfig, error) {
	var cfg AuthConfig
	if err := env.Parse(&cfg); err != nil {
		return AuthConfig{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.ConfigFile != "" {
		fc, err := readConfigFile(cfg.ConfigFile)
		if err != nil {
			return AuthConfig{}, err
		}
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = fc.JWT.Secret
		}
		if cfg.AccessTokenTTL == 0 && fc.JWT.ExpiresIn > 0 {
			cfg.AccessTokenTTL = time.Duration(fc.JWT.ExpiresIn) * time.Second
		}
	}

	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = constants.DefaultAccessTokenTTL
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTP.Username
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = constants.DefaultMailFrom
	}

	if cfg.DatabaseURL == "" {
		return AuthConfig{}, ErrMissingRequiredEnv.WithDetails(map[string]any{"key": "DATABASE_URL"})
	}
	if cfg.JWTSecret == "" {
		return AuthConfig{}, ErrMissingRequiredEnv.WithDetails(map[string]any{"key": "JWT_SECRET"})
	}
	if err := validateJWTSecret(cfg.JWTSecret); err != nil {
		return AuthConfig{}, err
	}

	return cfg, nil
}

func readConfigFile(path string) (fileConfig, error) {
	var fc fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}
