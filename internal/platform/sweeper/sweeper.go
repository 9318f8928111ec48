// File: internal/platform/sweeper/sweeper.go
package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task is one cleanup pass. Implementations must be idempotent and safe to
// run concurrently with live request traffic.
type Task func(ctx context.Context) error

// Run invokes task every interval until ctx is cancelled. The first pass
// runs after one full interval, not at startup.
func Run(ctx context.Context, name string, interval time.Duration, logger *zap.Logger, task Task) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("sweeper stopped", zap.String("sweeper", name))
			return ctx.Err()
		case <-ticker.C:
			if err := task(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("sweep failed", zap.String("sweeper", name), zap.Error(err))
			}
		}
	}
}
