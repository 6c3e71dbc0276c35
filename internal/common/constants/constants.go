package constants

import "time"

const (
	PasswordMinLength  = 4
	PasswordMaxLength  = 20
	JWTSecretMinLength = 32
	ResetTokenSize     = 32

	DefaultMaxRequestSize = 1 << 20

	DefaultAuthHTTPPort       = "8081"
	DefaultAccessTokenTTL     = time.Hour
	DefaultResetTokenTTL      = time.Hour
	DefaultResetSweepInterval = time.Hour
	DefaultResetURLBase       = "http://localhost:3000/user/reset"
	DefaultMailFrom           = "no-reply@localhost"
	DefaultSMTPPort           = 465

	DefaultAuthRequestTimeout = 30 * time.Second

	DefaultCircuitBreakerThreshold = 500
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	ResetPasswordSentMessage = "reset password link has been sent"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
