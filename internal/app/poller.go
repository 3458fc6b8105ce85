package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/postboard/internal/syncer"
)

const maxBackoff = 30 * time.Second

// NotificationSyncer is the part of the board the poller drives.
type NotificationSyncer interface {
	RequestNotificationsSync(ctx context.Context) syncer.Outcome
}

// StartPoller launches a background goroutine that syncs notifications at a
// fixed cadence, backing off after consecutive failures. It returns
// immediately and stops when ctx is cancelled.
func StartPoller(ctx context.Context, s NotificationSyncer, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	go runPoller(ctx, s, interval, logger)
}

func runPoller(ctx context.Context, s NotificationSyncer, interval time.Duration, logger *slog.Logger) {
	failures := 0
	for {
		out := s.RequestNotificationsSync(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case out.Err != nil && out.Applied:
			failures++
			if logger != nil {
				logger.Warn("notifications poll failed", "failures", failures, "error", out.Err)
			}
		case out.Applied:
			failures = 0
		}

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
