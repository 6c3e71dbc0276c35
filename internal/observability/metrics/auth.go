package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of auth requests",
		},
		[]string{"method", "path"},
	)

	AuthRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_requests_in_flight",
			Help: "Number of auth requests currently being processed",
		},
	)

	AuthRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_request_duration_seconds",
			Help:    "Duration of auth requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	GraphQLOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_operations_total",
			Help: "Total number of GraphQL mutations by field and outcome",
		},
		[]string{"field", "outcome"},
	)

	SignUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sign_ups_total",
			Help: "Total number of sign-up attempts by result",
		},
		[]string{"result"},
	)

	SignInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sign_ins_total",
			Help: "Total number of sign-in attempts by result",
		},
		[]string{"result"},
	)

	PasswordChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_password_changes_total",
			Help: "Total number of password change attempts by result",
		},
		[]string{"result"},
	)

	ResetEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_reset_emails_total",
			Help: "Total number of reset password emails by result",
		},
		[]string{"result"},
	)

	PasswordResetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_password_resets_total",
			Help: "Total number of password resets by result",
		},
		[]string{"result"},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	ResetTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reset_tokens_issued_total",
			Help: "Total number of reset password tokens issued",
		},
	)

	ResetTokensSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reset_tokens_swept_total",
			Help: "Total number of expired reset tokens cleared by the sweeper",
		},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_total",
			Help: "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed JWT validations",
		},
	)
)
