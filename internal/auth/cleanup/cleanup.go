package cleanup

import (
	"context"
	"time"

	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	"github.com/AlibekovAA/gql-user-auth/internal/common/constants"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
	"github.com/AlibekovAA/gql-user-auth/internal/observability/metrics"
)

type ExpiredResetTokenClearer interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// StartResetTokenCleanup clears expired reset tokens every interval until ctx
// is done. Expired tokens are already unusable; this only nulls the columns.
func StartResetTokenCleanup(ctx context.Context, repo ExpiredResetTokenClearer, c clock.Clock, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = constants.DefaultResetSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = SweepOnce(ctx, repo, c, log)
		}
	}
}

func SweepOnce(ctx context.Context, repo ExpiredResetTokenClearer, c clock.Clock, log *logger.Logger) (int64, error) {
	cleared, err := repo.ClearExpiredResetTokens(ctx, c.Now())
	if err != nil {
		log.WithFields(ctx, logger.Fields{"action": "reset_token_cleanup_failed"}).Errorf("reset token cleanup failed: %v", err)
		return 0, err
	}
	if cleared > 0 {
		metrics.ResetTokensSwept.Add(float64(cleared))
		log.WithFields(ctx, logger.Fields{
			"cleared": cleared,
			"action":  "reset_token_cleanup",
		}).Infof("reset token cleanup: cleared %d expired tokens", cleared)
	}
	return cleared, nil
}
