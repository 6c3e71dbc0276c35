package service

import (
	"github.com/AlibekovAA/gql-user-auth/internal/observability/metrics"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementResetTokensIssued() {
	metrics.ResetTokensIssued.Inc()
}

func recordSignUp(result string) {
	metrics.SignUpsTotal.WithLabelValues(result).Inc()
}

func recordSignIn(result string) {
	metrics.SignInsTotal.WithLabelValues(result).Inc()
}

func recordPasswordChange(result string) {
	metrics.PasswordChangesTotal.WithLabelValues(result).Inc()
}

func recordResetEmail(result string) {
	metrics.ResetEmailsTotal.WithLabelValues(result).Inc()
}

func recordPasswordReset(result string) {
	metrics.PasswordResetsTotal.WithLabelValues(result).Inc()
}
