package launcher

import (
	"context"
	"log"
	"time"
)

// StartRefreshLoop re-runs reconciliation every interval until ctx is done,
// so a long-running launcher notices revoked accounts without a restart.
// A non-positive interval disables the loop.
func (s *Service) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Reconcile(ctx); err != nil {
					log.Printf("⚠️ Scheduled reconciliation failed: %v", err)
				}
			}
		}
	}()
	log.Printf("🔄 Account refresh loop started (interval: %s)", interval)
}
