package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authcleanup "github.com/AlibekovAA/gql-user-auth/internal/auth/cleanup"
	"github.com/AlibekovAA/gql-user-auth/internal/auth/credentials"
	authgraphql "github.com/AlibekovAA/gql-user-auth/internal/auth/graphql"
	"github.com/AlibekovAA/gql-user-auth/internal/auth/service"
	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	"github.com/AlibekovAA/gql-user-auth/internal/common/config"
	commoncrypto "github.com/AlibekovAA/gql-user-auth/internal/common/crypto"
	"github.com/AlibekovAA/gql-user-auth/internal/common/db"
	commonhttp "github.com/AlibekovAA/gql-user-auth/internal/common/http"
	"github.com/AlibekovAA/gql-user-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/common/resilience"
	srv "github.com/AlibekovAA/gql-user-auth/internal/common/server"
	"github.com/AlibekovAA/gql-user-auth/internal/mail"
	userrepo "github.com/AlibekovAA/gql-user-auth/internal/user/repository"
)

const serviceName = "auth"

type AuthApp struct {
	Log      *logger.Logger
	Config   config.AuthConfig
	Pool     *pgxpool.Pool
	UserRepo *userrepo.PgRepository
	Service  *service.AuthService
	Clock    clock.Clock
	Handler  http.Handler
}

// NewAuthApp wires every collaborator explicitly: logger, config, database
// pool and migrations, then the credential store, token issuer, mailer and
// GraphQL transport.
func NewAuthApp(ctx context.Context) (*AuthApp, error) {
	log, err := initializeLogger(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, log, cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	realClock := clock.NewRealClock()
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "users_db",
		Logger:     log,
		Clock:      realClock,
		Ignore:     isExpectedDBError,
	})

	repo := userrepo.NewPgRepository(pool, breaker)
	store := credentials.NewStore(repo, commoncrypto.NewArgon2Hasher(commoncrypto.DefaultArgon2Params))
	issuer := service.NewTokenIssuer(cfg.JWTSecret, commoncrypto.NewUUIDGenerator(), cfg.AccessTokenTTL, realClock)
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		SSL:      cfg.SMTP.SSL,
		From:     cfg.MailFrom,
	}, log)

	authService := service.NewAuthService(
		service.AuthServiceDeps{
			Store:  store,
			Tokens: issuer,
			Mailer: mailer,
			Clock:  realClock,
			Log:    log,
		},
		service.AuthServiceConfig{
			ResetTokenTTL: cfg.ResetTokenTTL,
			ResetURLBase:  cfg.ResetURLBase,
		},
	)

	handler, err := buildHandler(authService, pool, cfg, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &AuthApp{
		Log:      log,
		Config:   cfg,
		Pool:     pool,
		UserRepo: repo,
		Service:  authService,
		Clock:    realClock,
		Handler:  handler,
	}, nil
}

func buildHandler(authService *service.AuthService, pinger commonhttp.Pinger, cfg config.AuthConfig, log *logger.Logger) (http.Handler, error) {
	resolver := authgraphql.NewResolver(authService, service.NewCredentialValidator(), log)
	gqlHandler, err := authgraphql.NewHandler(resolver, log, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", jwtverify.OptionalMiddleware(cfg.JWTSecret, log)(gqlHandler))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log, pinger))
	mux.Handle("/metrics", promhttp.Handler())

	return commonhttp.BuildBaseHandler(log, mux), nil
}

// Run starts the reset-token sweeper and serves HTTP until a shutdown signal.
func (a *AuthApp) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer a.Pool.Close()

	go authcleanup.StartResetTokenCleanup(ctx, a.UserRepo, a.Clock, a.Config.ResetSweepInterval, a.Log)

	server := srv.NewServer(srv.DefaultServerConfig(a.Config.HTTPPort), a.Handler)
	hooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			a.Log.Infof("%s service: stopping reset token sweeper", serviceName)
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, a.Log, serviceName, hooks)
}

func isExpectedDBError(err error) bool {
	return db.IsUniqueViolation(err) || errors.Is(err, context.Canceled)
}

func initializeLogger(name string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), name, os.Getenv("LOG_LEVEL"))
}
