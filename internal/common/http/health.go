package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports ok when the database answers a ping. A nil pinger
// skips the check.
func HealthHandler(log *logger.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				log.WithFields(r.Context(), logger.Fields{"action": "health_check_failed"}).Warnf("health check failed: %v", err)
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		log.Debug("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
