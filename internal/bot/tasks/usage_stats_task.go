package tasks

import (
	"context"
	"fmt"
	"time"
)

// newUsageStatsTask creates the daily usage report task. The numbers go
// to the log; the admin /stats_admin command serves them on demand.
func newUsageStatsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "usage_stats_report")

	return func(ctx context.Context) error {
		statsCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		stats, err := deps.Store.UsageStats(statsCtx)
		if err != nil {
			return fmt.Errorf("usage stats collection failed: %w", err)
		}

		log.InfoContext(ctx, "Daily usage report",
			"total_users", stats.TotalUsers,
			"active_users_24h", stats.ActiveUsers24h,
			"total_messages", stats.TotalMessages,
			"messages_24h", stats.Messages24h,
			"data_size_bytes", stats.DataSizeBytes,
			"storage_mode", stats.Mode.String())
		return nil
	}
}
