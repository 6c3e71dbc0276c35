package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadAuthConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("JWT_SECRET", validSecret)

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetSweepInterval)
	assert.Equal(t, "http://localhost:3000/user/reset", cfg.ResetURLBase)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.SSL)
	assert.Equal(t, int32(500), cfg.CircuitBreakerThreshold)
}

func TestLoadAuthConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("SMTP_HOST", "smtp.gmail.com")
	t.Setenv("SMTP_USERNAME", "sender@gmail.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_SSL", "false")

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.SSL)
	assert.Equal(t, "sender@gmail.com", cfg.MailFrom)
}

func TestLoadAuthConfig_ConfigFileFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jwt":{"secret":"`+validSecret+`","expiresIn":7200}}`), 0o600))

	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, validSecret, cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
}

func TestLoadAuthConfig_EnvSecretWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jwt":{"secret":"file-secret-file-secret-file-secret"}}`), 0o600))

	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, validSecret, cfg.JWTSecret)
}

func TestLoadAuthConfig_Errors(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", validSecret)
		_, err := LoadAuthConfig()
		assert.True(t, errors.Is(err, ErrMissingRequiredEnv))
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/auth")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("CONFIG_FILE", "")
		_, err := LoadAuthConfig()
		assert.True(t, errors.Is(err, ErrMissingRequiredEnv))
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/auth")
		t.Setenv("JWT_SECRET", "too-short")
		_, err := LoadAuthConfig()
		assert.True(t, errors.Is(err, ErrInvalidJWTSecret))
	})

	t.Run("unreadable config file", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/auth")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.json"))
		_, err := LoadAuthConfig()
		assert.Error(t, err)
	})
}
