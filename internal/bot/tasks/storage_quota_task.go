package tasks

import (
	"context"
	"time"
)

// newStorageQuotaTask creates the periodic size-check probe. The write
// path already evaluates the quota after every message; this task keeps
// the check running through idle periods.
func newStorageQuotaTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "storage_quota_check")

	return func(ctx context.Context) error {
		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		deps.Store.EvaluateQuota(probeCtx)
		log.DebugContext(ctx, "Storage quota evaluated", "mode", deps.Store.Mode().String())
		return nil
	}
}
