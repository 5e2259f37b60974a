package reconciler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Run drives both periodic duties until the context is cancelled: the
// missed-dose scan on scanEvery and the status backfill on backfillEvery.
// Each duty also runs once immediately so a fresh process converges without
// waiting a full interval. Intervals are best-effort, mirroring the
// OS-controlled cadence the mobile background tasks had.
func (r *Reconciler) Run(ctx context.Context, scanEvery, backfillEvery time.Duration) {
	if err := r.BackfillStatuses(ctx); err != nil {
		r.logger.Error("status backfill failed", zap.Error(err))
	}
	if err := r.CheckMissedDoses(ctx); err != nil {
		r.logger.Error("missed-dose scan failed", zap.Error(err))
	}

	scanTicker := time.NewTicker(scanEvery)
	defer scanTicker.Stop()
	backfillTicker := time.NewTicker(backfillEvery)
	defer backfillTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-scanTicker.C:
			if err := r.CheckMissedDoses(ctx); err != nil {
				r.logger.Error("missed-dose scan failed", zap.Error(err))
			}
		case <-backfillTicker.C:
			if err := r.BackfillStatuses(ctx); err != nil {
				r.logger.Error("status backfill failed", zap.Error(err))
			}
		}
	}
}
