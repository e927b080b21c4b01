// Package service holds background jobs that run next to the HTTP API
package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/workflow"
)

// ResetRequestCleanup periodically purges pending password reset requests
// that ran past their 24 hour TTL. Stands in for the store-side expiry a
// document database would do on its own.
func ResetRequestCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Reset request cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			n, err := workflow.PurgeExpired(db)
			if err != nil {
				zap.L().Error("Failed to purge expired reset requests", zap.Error(err))
				continue
			}

			if n > 0 {
				zap.L().Debug("Purged expired reset requests", zap.Int64("count", n))
			}
		}
	}()
}
