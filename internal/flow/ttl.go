package flow

import (
	"context"
	"log/slog"
	"time"
)

const ttlWorkerInterval = 5 * time.Minute

// StartTTLWorker runs a background goroutine that periodically discards
// sessions older than ttl. Only the in-memory interview state is dropped;
// the lead row persists, so a converted founder can still log in after
// their session expires.
func StartTTLWorker(ctx context.Context, registry *Registry, ttl time.Duration) {
	ticker := time.NewTicker(ttlWorkerInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("TTL worker started", "interval", ttlWorkerInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweepExpiredSessions(registry, ttl)
			case <-ctx.Done():
				slog.Info("TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepExpiredSessions(registry *Registry, ttl time.Duration) {
	expired := registry.Expired(ttl)
	if len(expired) == 0 {
		return
	}

	for _, id := range expired {
		registry.Remove(id)
	}

	slog.Info("TTL worker discarded expired sessions",
		"count", len(expired),
		"live", registry.Len())
}
